package memory

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"go-jobhunter/internal/models"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS decisions (
	id          TEXT PRIMARY KEY,
	created_at  TEXT NOT NULL,
	fingerprint TEXT NOT NULL DEFAULT '',
	company     TEXT NOT NULL DEFAULT '',
	title       TEXT NOT NULL DEFAULT '',
	source      TEXT NOT NULL DEFAULT '',
	decision    TEXT NOT NULL,
	category    TEXT NOT NULL DEFAULT 'unknown',
	remote      INTEGER NOT NULL DEFAULT 0,
	keywords    TEXT NOT NULL DEFAULT '[]'
);
CREATE INDEX IF NOT EXISTS idx_decisions_created_at ON decisions(created_at);`

// SQLiteLog stores decisions in a local SQLite file.
type SQLiteLog struct {
	db *sql.DB
}

func NewSQLiteLog(dbPath string) (*SQLiteLog, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	if err := addFingerprintColumn(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate schema: %w", err)
	}
	return &SQLiteLog{db: db}, nil
}

// addFingerprintColumn upgrades databases created before decisions carried
// a fingerprint.
func addFingerprintColumn(db *sql.DB) error {
	rows, err := db.Query(`PRAGMA table_info(decisions)`)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var (
			cid, notNull, pk int
			name, colType    string
			dflt             sql.NullString
		)
		if err := rows.Scan(&cid, &name, &colType, &notNull, &dflt, &pk); err != nil {
			return err
		}
		if name == "fingerprint" {
			return nil
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}
	_, err = db.Exec(`ALTER TABLE decisions ADD COLUMN fingerprint TEXT NOT NULL DEFAULT ''`)
	return err
}

func (s *SQLiteLog) Close() error {
	return s.db.Close()
}

func (s *SQLiteLog) Append(ctx context.Context, rec DecisionRecord) error {
	keywords, err := json.Marshal(rec.Keywords)
	if err != nil {
		return fmt.Errorf("marshal keywords: %w", err)
	}
	remote := 0
	if rec.Remote {
		remote = 1
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO decisions (id, created_at, fingerprint, company, title, source, decision, category, remote, keywords)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Timestamp.UTC().Format(time.RFC3339Nano), rec.Fingerprint, rec.Company, rec.Title, rec.Source,
		string(rec.Decision), rec.Category, remote, string(keywords),
	)
	if err != nil {
		return fmt.Errorf("insert decision: %w", err)
	}
	return nil
}

func (s *SQLiteLog) List(ctx context.Context) ([]DecisionRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, created_at, fingerprint, company, title, source, decision, category, remote, keywords
		 FROM decisions ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("list decisions: %w", err)
	}
	defer rows.Close()

	var records []DecisionRecord
	for rows.Next() {
		var (
			rec       DecisionRecord
			createdAt string
			decision  string
			remote    int
			keywords  string
		)
		if err := rows.Scan(&rec.ID, &createdAt, &rec.Fingerprint, &rec.Company, &rec.Title, &rec.Source,
			&decision, &rec.Category, &remote, &keywords); err != nil {
			return nil, fmt.Errorf("scan decision: %w", err)
		}
		rec.Timestamp, _ = time.Parse(time.RFC3339Nano, createdAt)
		rec.Decision = models.Decision(decision)
		rec.Remote = remote == 1
		if err := json.Unmarshal([]byte(keywords), &rec.Keywords); err != nil {
			return nil, fmt.Errorf("decode keywords for %s: %w", rec.ID, err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
