package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
)

// Fingerprint captures a file's content state at a point in time.
// Two fingerprints are only ever compared for equality, never merged.
type Fingerprint struct {
	FileHash  string  `json:"file_hash"`
	SizeBytes int64   `json:"file_size_bytes"`
	MTime     float64 `json:"file_mtime"` // seconds since epoch, fractional
}

// State maps absolute file paths to their last successfully processed
// fingerprint.
type State map[string]Fingerprint

const chunkSize = 1 << 20

// Compute streams the file through sha256 and returns its fingerprint.
func Compute(path string) (Fingerprint, error) {
	f, err := os.Open(path)
	if err != nil {
		return Fingerprint{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			slog.Warn("close file after hashing", "path", path, "error", cerr)
		}
	}()

	h := sha256.New()
	buf := make([]byte, chunkSize)
	if _, err := io.CopyBuffer(h, f, buf); err != nil {
		return Fingerprint{}, fmt.Errorf("hash %s: %w", path, err)
	}

	st, err := f.Stat()
	if err != nil {
		return Fingerprint{}, fmt.Errorf("stat %s: %w", path, err)
	}

	return Fingerprint{
		FileHash:  hex.EncodeToString(h.Sum(nil)),
		SizeBytes: st.Size(),
		MTime:     float64(st.ModTime().UnixNano()) / 1e9,
	}, nil
}

// IsUnchanged reports whether the fingerprint matches the cached state for
// path. All three fields must match.
func IsUnchanged(path string, fp Fingerprint, state State) bool {
	cached, ok := state[path]
	if !ok {
		return false
	}
	return cached.FileHash == fp.FileHash &&
		cached.SizeBytes == fp.SizeBytes &&
		cached.MTime == fp.MTime
}

// Load reads incremental state from disk. A missing or unreadable state
// file is not an error: it behaves as empty state and forces a full
// reprocess.
func Load(path string, logger *slog.Logger) State {
	if logger == nil {
		logger = slog.Default()
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Warn("failed to read pipeline state", "path", path, "error", err)
		}
		return State{}
	}
	var s State
	if err := json.Unmarshal(b, &s); err != nil {
		logger.Warn("failed to decode pipeline state", "path", path, "error", err)
		return State{}
	}
	if s == nil {
		return State{}
	}
	return s
}

// Save persists incremental state to disk. Failures are logged, not fatal.
func Save(path string, s State, logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	b, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		logger.Warn("failed to encode pipeline state", "error", err)
		return
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		logger.Warn("failed to save pipeline state", "path", path, "error", err)
	}
}
