package settlement

import (
	"bufio"
	"embed"
	"encoding/json"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/osse101/CrashRound_Go/internal/domain"
	"github.com/osse101/CrashRound_Go/internal/validation"
)

//go:embed schemas/*.json
var schemaFS embed.FS

// DeadLetterEntry is a persistence job that exhausted its retries
type DeadLetterEntry struct {
	SchemaVersion string              `json:"schema_version"` // Format version for future migrations
	Timestamp     time.Time           `json:"timestamp"`
	Kind          string              `json:"kind"`
	Key           string              `json:"key"`
	Record        *domain.RoundRecord `json:"record,omitempty"`
	Credit        *domain.Credit      `json:"credit,omitempty"`
	Attempts      int                 `json:"attempts"`
	LastError     string              `json:"last_error,omitempty"`
}

// DeadLetterStore appends failed jobs to a JSONL file and hands them back for
// replay
type DeadLetterStore struct {
	path      string
	file      *os.File
	mu        sync.Mutex
	validator validation.SchemaValidator
}

// NewDeadLetterStore creates a store backed by path. The file is created on
// first write. Lines that do not match the entry schema are moved to
// path+RejectedSuffix on drain instead of being replayed.
func NewDeadLetterStore(path string) *DeadLetterStore {
	sub, err := fs.Sub(schemaFS, SchemaDir)
	if err != nil {
		panic(err)
	}
	return &DeadLetterStore{path: path, validator: validation.NewSchemaValidator(sub)}
}

// Write appends an entry
func (s *DeadLetterStore) Write(entry DeadLetterEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.file == nil {
		f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, DeadLetterFilePermissions)
		if err != nil {
			return err
		}
		s.file = f
	}

	entry.SchemaVersion = DeadLetterSchemaVersion
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	_, err = s.file.Write(append(data, '\n'))
	return err
}

// Drain returns every stored entry and empties the file. Entries that fail
// again must be written back by the caller.
func (s *DeadLetterStore) Drain() ([]DeadLetterEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.file != nil {
		if err := s.file.Close(); err != nil {
			return nil, err
		}
		s.file = nil
	}

	f, err := os.Open(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var entries []DeadLetterEntry
	var rejected [][]byte
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var entry DeadLetterEntry
		err := s.validator.ValidateBytes(line, DeadLetterSchemaFile)
		if err == nil {
			err = json.Unmarshal(line, &entry)
		}
		if err != nil {
			slog.Warn(LogMsgDeadLetterCorrupt, "path", s.path, "error", err)
			rejected = append(rejected, append([]byte(nil), line...))
			continue
		}
		entries = append(entries, entry)
	}
	scanErr := scanner.Err()
	f.Close()
	if scanErr != nil {
		return nil, scanErr
	}

	if err := s.reject(rejected); err != nil {
		return nil, err
	}

	if err := os.Truncate(s.path, 0); err != nil {
		return nil, err
	}
	return entries, nil
}

// reject appends unreadable lines to the side file so they can be repaired by hand
func (s *DeadLetterStore) reject(lines [][]byte) error {
	if len(lines) == 0 {
		return nil
	}
	f, err := os.OpenFile(s.path+RejectedSuffix, os.O_APPEND|os.O_CREATE|os.O_WRONLY, DeadLetterFilePermissions)
	if err != nil {
		return err
	}
	defer f.Close()
	for _, line := range lines {
		if _, err := f.Write(append(line, '\n')); err != nil {
			return err
		}
	}
	return nil
}

// Close closes the dead-letter file
func (s *DeadLetterStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.file == nil {
		return nil
	}
	err := s.file.Close()
	s.file = nil
	return err
}
