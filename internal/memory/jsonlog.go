package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
)

const jsonLogFile = "decision_memory.json"

// JSONLog keeps the decision history as a JSON array in the data directory.
type JSONLog struct {
	mu   sync.Mutex
	path string
}

func NewJSONLog(dir string) (*JSONLog, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create memory dir: %w", err)
	}
	return &JSONLog{path: filepath.Join(dir, jsonLogFile)}, nil
}

func (j *JSONLog) Append(_ context.Context, rec DecisionRecord) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	records := j.read()
	records = append(records, rec)
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal decisions: %w", err)
	}
	if err := os.WriteFile(j.path, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", jsonLogFile, err)
	}
	return nil
}

func (j *JSONLog) List(_ context.Context) ([]DecisionRecord, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.read(), nil
}

func (j *JSONLog) Close() error { return nil }

func (j *JSONLog) read() []DecisionRecord {
	data, err := os.ReadFile(j.path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("⚠️ Failed to read %s: %v", jsonLogFile, err)
		}
		return nil
	}
	var records []DecisionRecord
	if err := json.Unmarshal(data, &records); err != nil {
		log.Printf("⚠️ Failed to parse %s, starting fresh: %v", jsonLogFile, err)
		return nil
	}
	return records
}
