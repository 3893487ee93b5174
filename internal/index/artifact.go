package index

import (
	"bytes"
	"crypto/sha256"
	"encoding/binary"
	"encoding/gob"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// The index and its chunk texts ship as one checksummed file so the
// vector/chunk pairing is enforced at load time instead of being an accident
// of loading two files in the right combination.

var artifactMagic = [6]byte{'C', 'S', 'B', 'I', 'D', 'X'}

const artifactVersion uint32 = 1

type artifactPayload struct {
	Dim     int
	Vectors [][]float32
	Chunks  []string
}

// Save writes the index to path atomically (temp file + rename).
func (f *Flat) Save(path string) error {
	var payload bytes.Buffer
	enc := gob.NewEncoder(&payload)
	if err := enc.Encode(artifactPayload{Dim: f.dim, Vectors: f.vectors, Chunks: f.chunks}); err != nil {
		return fmt.Errorf("failed to encode index payload: %w", err)
	}
	sum := sha256.Sum256(payload.Bytes())

	tmp, err := os.CreateTemp(filepath.Dir(path), ".index-*")
	if err != nil {
		return fmt.Errorf("failed to create temp index file: %w", err)
	}
	defer os.Remove(tmp.Name())

	var header bytes.Buffer
	header.Write(artifactMagic[:])
	binary.Write(&header, binary.LittleEndian, artifactVersion)
	header.Write(sum[:])

	if _, err := tmp.Write(header.Bytes()); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write index header: %w", err)
	}
	if _, err := tmp.Write(payload.Bytes()); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write index payload: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp index file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to move index into place: %w", err)
	}
	return nil
}

// Load reads an index artifact, verifying magic, version, checksum, and the
// vector/chunk pairing invariant.
func Load(path string) (*Flat, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read index artifact: %w", err)
	}

	headerLen := len(artifactMagic) + 4 + sha256.Size
	if len(raw) < headerLen {
		return nil, fmt.Errorf("index artifact %s is truncated", path)
	}
	if !bytes.Equal(raw[:len(artifactMagic)], artifactMagic[:]) {
		return nil, fmt.Errorf("index artifact %s has unknown format", path)
	}
	version := binary.LittleEndian.Uint32(raw[len(artifactMagic) : len(artifactMagic)+4])
	if version != artifactVersion {
		return nil, fmt.Errorf("index artifact %s has unsupported version %d", path, version)
	}

	var sum [sha256.Size]byte
	copy(sum[:], raw[len(artifactMagic)+4:headerLen])
	payload := raw[headerLen:]
	if sha256.Sum256(payload) != sum {
		return nil, fmt.Errorf("index artifact %s failed checksum verification", path)
	}

	var decoded artifactPayload
	if err := gob.NewDecoder(bytes.NewReader(payload)).Decode(&decoded); err != nil {
		if err == io.ErrUnexpectedEOF {
			return nil, fmt.Errorf("index artifact %s is truncated", path)
		}
		return nil, fmt.Errorf("failed to decode index payload: %w", err)
	}
	if len(decoded.Vectors) != len(decoded.Chunks) {
		return nil, fmt.Errorf("index artifact %s is inconsistent: %d vectors but %d chunks",
			path, len(decoded.Vectors), len(decoded.Chunks))
	}
	if decoded.Dim <= 0 {
		return nil, fmt.Errorf("index artifact %s has invalid dimension %d", path, decoded.Dim)
	}
	for i, vec := range decoded.Vectors {
		if len(vec) != decoded.Dim {
			return nil, fmt.Errorf("index artifact %s vector %d has dimension %d, want %d",
				path, i, len(vec), decoded.Dim)
		}
	}

	return &Flat{dim: decoded.Dim, vectors: decoded.Vectors, chunks: decoded.Chunks}, nil
}
