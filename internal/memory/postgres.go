package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"go-jobhunter/internal/models"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS memory_decisions (
	id          UUID PRIMARY KEY,
	created_at  TIMESTAMPTZ NOT NULL,
	fingerprint TEXT NOT NULL DEFAULT '',
	company     TEXT NOT NULL DEFAULT '',
	title       TEXT NOT NULL DEFAULT '',
	source      TEXT NOT NULL DEFAULT '',
	decision    TEXT NOT NULL,
	category    TEXT NOT NULL DEFAULT 'unknown',
	remote      BOOLEAN NOT NULL DEFAULT FALSE,
	keywords    TEXT[] NOT NULL DEFAULT '{}'
)`

const postgresMigration = `ALTER TABLE memory_decisions ADD COLUMN IF NOT EXISTS fingerprint TEXT NOT NULL DEFAULT ''`

// PostgresLog stores decisions in Postgres through a pgx pool.
type PostgresLog struct {
	db *pgxpool.Pool
}

func NewPostgresLog(ctx context.Context, connString string) (*PostgresLog, error) {
	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("unable to parse database url: %w", err)
	}

	config.MaxConns = 4
	config.MinConns = 1
	config.MaxConnLifetime = time.Hour

	// Transaction-mode poolers (PgBouncer, Supabase) cannot use the statement cache.
	config.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeExec

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("database unreachable: %w", err)
	}
	if _, err := pool.Exec(ctx, postgresSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	if _, err := pool.Exec(ctx, postgresMigration); err != nil {
		pool.Close()
		return nil, fmt.Errorf("migrate schema: %w", err)
	}

	return &PostgresLog{db: pool}, nil
}

func (p *PostgresLog) Close() error {
	if p.db != nil {
		p.db.Close()
	}
	return nil
}

func (p *PostgresLog) Append(ctx context.Context, rec DecisionRecord) error {
	query := `
		INSERT INTO memory_decisions (id, created_at, fingerprint, company, title, source, decision, category, remote, keywords)
		VALUES ($1::uuid, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO NOTHING`
	_, err := p.db.Exec(ctx, query, rec.ID, rec.Timestamp, rec.Fingerprint, rec.Company, rec.Title, rec.Source,
		string(rec.Decision), rec.Category, rec.Remote, rec.Keywords)
	if err != nil {
		return fmt.Errorf("failed to insert decision: %w", err)
	}
	return nil
}

func (p *PostgresLog) List(ctx context.Context) ([]DecisionRecord, error) {
	rows, err := p.db.Query(ctx, `
		SELECT id::text, created_at, fingerprint, company, title, source, decision, category, remote, keywords
		FROM memory_decisions ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list decisions: %w", err)
	}
	defer rows.Close()

	var records []DecisionRecord
	for rows.Next() {
		var (
			rec      DecisionRecord
			decision string
		)
		if err := rows.Scan(&rec.ID, &rec.Timestamp, &rec.Fingerprint, &rec.Company, &rec.Title, &rec.Source,
			&decision, &rec.Category, &rec.Remote, &rec.Keywords); err != nil {
			return nil, fmt.Errorf("failed to scan decision: %w", err)
		}
		rec.Decision = models.Decision(decision)
		records = append(records, rec)
	}
	return records, rows.Err()
}
