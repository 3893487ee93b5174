package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

// Config holds the process-wide settings. Deployment concerns (keys, ports,
// file locations) come from the environment; pipeline tuning knobs live in an
// optional YAML file so they can be reviewed and versioned next to the corpus.
type Config struct {
	LLMProvider  string
	GeminiAPIKey string
	OpenAIAPIKey string
	DatabaseURL  string
	HTTPPort     string
	LogLevel     string
	LogFormat    string
	JWTSecret    string
	TokenTTL     time.Duration
	IndexPath    string
	CorpusDir    string
	FAQFiles     []string

	Pipeline PipelineConfig
}

// PipelineConfig contains the tuning knobs of the query pipeline.
type PipelineConfig struct {
	CanonicalLanguage string         `yaml:"canonical_language"`
	FAQThreshold      float32        `yaml:"faq_threshold"`
	TopK              int            `yaml:"top_k"`
	ContextChunks     int            `yaml:"context_chunks"`
	MaxAnswerTokens   int            `yaml:"max_answer_tokens"`
	ChatModel         string         `yaml:"chat_model"`
	EmbeddingModel    string         `yaml:"embedding_model"`
	Splitter          SplitterConfig `yaml:"splitter"`
}

// SplitterConfig defines how the ingest job cuts corpus files into chunks.
type SplitterConfig struct {
	Provider     string `yaml:"provider"` // character or token
	ChunkSize    int    `yaml:"chunk_size"`
	ChunkOverlap int    `yaml:"chunk_overlap"`
}

var AppConfig Config

func LoadConfig() {
	err := godotenv.Load() // Load .env file if it exists
	if err != nil {
		log.Info().Msg("No .env file found, relying on environment variables")
	}

	AppConfig = Config{
		LLMProvider:  getEnv("LLM_PROVIDER", "gemini"),
		GeminiAPIKey: getEnv("GEMINI_API_KEY", ""),
		OpenAIAPIKey: getEnv("OPENAI_API_KEY", ""),
		DatabaseURL:  getEnv("DATABASE_URL", "support_bot.db"),
		HTTPPort:     getEnv("HTTP_PORT", "8080"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		LogFormat:    getEnv("LOG_FORMAT", "console"),
		JWTSecret:    getEnv("JWT_SECRET", ""),
		TokenTTL:     getEnvAsDuration("TOKEN_TTL", 24*time.Hour),
		IndexPath:    getEnv("INDEX_PATH", "support_index.bin"),
		CorpusDir:    getEnv("CORPUS_DIR", "customer_support_data"),
		FAQFiles: splitList(getEnv("FAQ_FILES",
			"customer_support_data/faq1.txt,customer_support_data/faq2.txt")),
		Pipeline: DefaultPipeline(),
	}

	if path := getEnv("PIPELINE_CONFIG", "pipeline.yaml"); path != "" {
		if err := loadPipelineFile(path, &AppConfig.Pipeline); err != nil {
			if !os.IsNotExist(err) {
				log.Fatal().Err(err).Str("path", path).Msg("Failed to load pipeline config")
			}
			log.Debug().Str("path", path).Msg("No pipeline config file, using defaults")
		}
	}

	switch AppConfig.LLMProvider {
	case "gemini":
		if AppConfig.GeminiAPIKey == "" {
			log.Fatal().Msg("GEMINI_API_KEY environment variable is required")
		}
	case "openai":
		if AppConfig.OpenAIAPIKey == "" {
			log.Fatal().Msg("OPENAI_API_KEY environment variable is required")
		}
	default:
		log.Fatal().Str("provider", AppConfig.LLMProvider).Msg("Unknown LLM_PROVIDER")
	}

	if AppConfig.JWTSecret == "" {
		log.Fatal().Msg("JWT_SECRET environment variable is required")
	}
}

// DefaultPipeline returns the tuning the service ships with: a deliberately
// low FAQ threshold, five retrieved passages of which two form the context,
// and bounded deterministic generation.
func DefaultPipeline() PipelineConfig {
	return PipelineConfig{
		CanonicalLanguage: "en",
		FAQThreshold:      0.1,
		TopK:              5,
		ContextChunks:     2,
		MaxAnswerTokens:   256,
		Splitter: SplitterConfig{
			Provider:     "character",
			ChunkSize:    500,
			ChunkOverlap: 50,
		},
	}
}

func loadPipelineFile(path string, dst *PipelineConfig) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("failed to parse pipeline config %s: %w", path, err)
	}
	return dst.Validate()
}

// Validate rejects tuning values the pipeline cannot operate with.
func (p *PipelineConfig) Validate() error {
	if p.CanonicalLanguage == "" {
		return fmt.Errorf("canonical_language must not be empty")
	}
	if p.FAQThreshold < -1 || p.FAQThreshold > 1 {
		return fmt.Errorf("faq_threshold %v outside [-1, 1]", p.FAQThreshold)
	}
	if p.TopK <= 0 {
		return fmt.Errorf("top_k must be positive, got %d", p.TopK)
	}
	if p.ContextChunks <= 0 || p.ContextChunks > p.TopK {
		return fmt.Errorf("context_chunks must be in [1, top_k], got %d", p.ContextChunks)
	}
	if p.MaxAnswerTokens <= 0 {
		return fmt.Errorf("max_answer_tokens must be positive, got %d", p.MaxAnswerTokens)
	}
	if p.Splitter.ChunkSize <= 0 {
		return fmt.Errorf("splitter chunk_size must be positive, got %d", p.Splitter.ChunkSize)
	}
	if p.Splitter.ChunkOverlap < 0 || p.Splitter.ChunkOverlap >= p.Splitter.ChunkSize {
		return fmt.Errorf("splitter chunk_overlap must be in [0, chunk_size), got %d", p.Splitter.ChunkOverlap)
	}
	return nil
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	raw, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		log.Warn().Str("key", key).Str("value", raw).Msg("Invalid duration, using default")
		return defaultValue
	}
	return d
}

func getEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
