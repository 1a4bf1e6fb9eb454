package storage

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"desyncScope/internal/report"
)

// ArchiveEntry is one line of the JSONL report archive.
type ArchiveEntry struct {
	GeneratedAt string        `json:"generated_at"`
	Report      report.Report `json:"report"`
}

var _ Storage = (*JsonlStorage)(nil)

// JsonlStorage appends reports to a JSONL file.
type JsonlStorage struct {
	path string
	now  func() time.Time
	mu   sync.Mutex
}

func NewJsonlStorage(path string) *JsonlStorage {
	return &JsonlStorage{path: path, now: time.Now}
}

// PutReport appends a report as a single JSON line.
func (s *JsonlStorage) PutReport(_ context.Context, rep report.Report) error {
	dir := filepath.Dir(s.path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create archive dir: %w", err)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	file, err := os.OpenFile(s.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open archive file: %w", err)
	}
	defer file.Close()

	line, err := json.Marshal(ArchiveEntry{
		GeneratedAt: s.now().UTC().Format(time.RFC3339Nano),
		Report:      rep,
	})
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}

	writer := bufio.NewWriter(file)
	if _, err := writer.Write(line); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	if err := writer.WriteByte('\n'); err != nil {
		return fmt.Errorf("write newline: %w", err)
	}
	if err := writer.Flush(); err != nil {
		return fmt.Errorf("flush archive: %w", err)
	}

	return nil
}
