package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Vanshika218/customer-support-bot/internal/auth"
	"github.com/Vanshika218/customer-support-bot/internal/store"
)

// WelcomeGreeting is the bot message seeded into every new user's history.
const WelcomeGreeting = "Hi! How can I help you today?"

// Responder produces the bot's answer for a user query.
type Responder interface {
	Respond(ctx context.Context, userID int64, rawQuery string) string
}

// Store is the persistence surface the handlers need.
type Store interface {
	CreateUser(externalUserID, passwordHash string) (*store.User, error)
	GetUserByExternalID(externalUserID string) (*store.User, error)
	GetHistoryByUserID(ctx context.Context, userID int64) ([]store.ChatHistoryRecord, error)
	EnsureWelcomeMessage(ctx context.Context, userID int64, greeting string) error
}

type APIHandler struct {
	responder Responder
	store     Store
}

func NewAPIHandler(responder Responder, st Store) *APIHandler {
	return &APIHandler{responder: responder, store: st}
}

func (h *APIHandler) JWTAuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			http.Error(w, "Authorization header is required", http.StatusUnauthorized)
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		externalUserID, err := auth.ValidateJWT(tokenString)
		if err != nil {
			http.Error(w, "Invalid token", http.StatusUnauthorized)
			return
		}

		user, err := h.store.GetUserByExternalID(externalUserID)
		if err != nil {
			log.Error().Err(err).Str("user", externalUserID).Msg("Failed to resolve user identity")
			http.Error(w, "Failed to process user identity", http.StatusInternalServerError)
			return
		}

		if user == nil {
			http.Error(w, "User not found", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), "userID", user.ID)
		ctx = context.WithValue(ctx, "externalUserID", user.ExternalUserID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

type SignupRequest struct {
	UserID   string `json:"user_id"`
	Password string `json:"password"`
}

func (h *APIHandler) SignupHandler(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	if req.UserID == "" || req.Password == "" {
		http.Error(w, "User ID and password are required", http.StatusBadRequest)
		return
	}

	hashedPassword, err := auth.HashPassword(req.Password)
	if err != nil {
		log.Error().Err(err).Str("user", req.UserID).Msg("Failed to hash password")
		http.Error(w, "Failed to process password", http.StatusInternalServerError)
		return
	}

	user, err := h.store.CreateUser(req.UserID, hashedPassword)
	if err != nil {
		log.Error().Err(err).Str("user", req.UserID).Msg("Failed to create user")
		http.Error(w, "Failed to create user", http.StatusInternalServerError)
		return
	}

	if err := h.store.EnsureWelcomeMessage(r.Context(), user.ID, WelcomeGreeting); err != nil {
		log.Warn().Err(err).Int64("user_id", user.ID).Msg("Failed to seed welcome message")
	}

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(user)
}

type LoginRequest struct {
	UserID   string `json:"user_id"`
	Password string `json:"password"`
}

func (h *APIHandler) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	if req.UserID == "" || req.Password == "" {
		http.Error(w, "User ID and password are required", http.StatusBadRequest)
		return
	}

	user, err := h.store.GetUserByExternalID(req.UserID)
	if err != nil {
		log.Error().Err(err).Str("user", req.UserID).Msg("Failed to look up user")
		http.Error(w, "Invalid credentials", http.StatusUnauthorized)
		return
	}

	if user == nil || !auth.CheckPasswordHash(req.Password, user.PasswordHash) {
		http.Error(w, "Invalid credentials", http.StatusUnauthorized)
		return
	}

	token, err := auth.GenerateJWT(req.UserID)
	if err != nil {
		log.Error().Err(err).Str("user", req.UserID).Msg("Failed to generate JWT")
		http.Error(w, "Failed to generate token", http.StatusInternalServerError)
		return
	}

	if err := h.store.EnsureWelcomeMessage(r.Context(), user.ID, WelcomeGreeting); err != nil {
		log.Warn().Err(err).Int64("user_id", user.ID).Msg("Failed to seed welcome message")
	}

	json.NewEncoder(w).Encode(map[string]string{"token": token})
}

type ChatRequest struct {
	Message string `json:"message"`
}

type ChatResponse struct {
	Response string `json:"response"`
}

func (h *APIHandler) ChatHandler(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(int64)

	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		http.Error(w, "Message cannot be empty", http.StatusBadRequest)
		return
	}

	answer := h.responder.Respond(r.Context(), userID, req.Message)
	json.NewEncoder(w).Encode(ChatResponse{Response: answer})
}

// HistoryEntry is one rendered line of the conversation transcript.
type HistoryEntry struct {
	Sender    string    `json:"sender"` // "user" or "bot"
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

func (h *APIHandler) HistoryHandler(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(int64)

	records, err := h.store.GetHistoryByUserID(r.Context(), userID)
	if err != nil {
		log.Error().Err(err).Int64("user_id", userID).Msg("Failed to load chat history")
		http.Error(w, "Failed to load history", http.StatusInternalServerError)
		return
	}

	// Welcome rows carry no user turn and render as a single bot greeting.
	entries := make([]HistoryEntry, 0, len(records)*2)
	for _, rec := range records {
		if rec.Message != store.WelcomeSentinel {
			entries = append(entries, HistoryEntry{Sender: "user", Text: rec.Message, Timestamp: rec.Timestamp})
		}
		entries = append(entries, HistoryEntry{Sender: "bot", Text: rec.Response, Timestamp: rec.Timestamp})
	}
	json.NewEncoder(w).Encode(entries)
}
