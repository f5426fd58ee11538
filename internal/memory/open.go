package memory

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
)

const (
	BackendJSON     = "json"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
)

// OpenLog picks a decision log backend by name. An empty name means JSON.
func OpenLog(ctx context.Context, backend, dataDir, databaseURL string) (DecisionLog, error) {
	switch strings.ToLower(backend) {
	case "", BackendJSON:
		return NewJSONLog(dataDir)
	case BackendSQLite:
		return NewSQLiteLog(filepath.Join(dataDir, "decision_memory.db"))
	case BackendPostgres:
		if databaseURL == "" {
			return nil, fmt.Errorf("memory backend %q requires DATABASE_URL", backend)
		}
		return NewPostgresLog(ctx, databaseURL)
	default:
		return nil, fmt.Errorf("unknown memory backend %q", backend)
	}
}
