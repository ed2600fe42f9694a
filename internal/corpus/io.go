package corpus

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/natefinch/atomic"
)

// WriteSelection writes records as JSONL, one object per line. The file is
// replaced atomically: on failure any previous file is left untouched and
// no partial file appears.
func WriteSelection(path string, records []Record) error {
	if err := ensureParentDir(path); err != nil {
		return err
	}

	var buf bytes.Buffer
	for _, record := range records {
		buf.Write(record.Bytes())
		buf.WriteByte('\n')
	}
	if err := atomic.WriteFile(path, &buf); err != nil {
		return fmt.Errorf("write selection: %w", err)
	}
	return nil
}

// ReadSelection reads every record of a JSONL file.
func ReadSelection(path string) ([]Record, error) {
	var records []Record
	for rec, err := range ReadRecords(path) {
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

// WriteJSON writes an indented JSON document atomically.
func WriteJSON(path string, value any) error {
	if err := ensureParentDir(path); err != nil {
		return err
	}
	content, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}
	content = append(content, '\n')
	if err := atomic.WriteFile(path, bytes.NewReader(content)); err != nil {
		return fmt.Errorf("write json: %w", err)
	}
	return nil
}

// ReadStats reads a stats JSON document.
func ReadStats(path string) (Stats, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Stats{}, fmt.Errorf("read stats: %w", err)
	}
	var stats Stats
	if err := json.Unmarshal(content, &stats); err != nil {
		return Stats{}, fmt.Errorf("parse stats json: %w", err)
	}
	return stats, nil
}

func ensureParentDir(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create directory %s: %w", dir, err)
	}
	return nil
}
