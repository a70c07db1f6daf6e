// Package repo stores dialogue transcripts and finished cases in Postgres.
package repo

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed schema.sql
var schema string

// MessageRecord is one inbound or outbound dialogue line.
type MessageRecord struct {
	SessionID string
	Direction string // incoming or outgoing
	Step      string
	Content   string
}

// CaseRecord is the outcome of a finished conversation.
type CaseRecord struct {
	SessionID string
	Flow      string
	Language  string
	Outcome   string
	Reference string
	Fields    map[string]string
}

type execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Repository writes dialogue history.
type Repository struct {
	pool   *pgxpool.Pool
	db     execer
	logger *slog.Logger
}

// New connects to databaseURL and applies the schema.
func New(ctx context.Context, databaseURL string, logger *slog.Logger) (*Repository, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	cfg.MaxConnLifetime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	r := newWithExecer(pool, logger)
	r.pool = pool
	return r, nil
}

func newWithExecer(db execer, logger *slog.Logger) *Repository {
	return &Repository{db: db, logger: logger.With("component", "repo")}
}

// InsertMessage appends one transcript line.
func (r *Repository) InsertMessage(ctx context.Context, rec MessageRecord) error {
	if strings.TrimSpace(rec.SessionID) == "" {
		return fmt.Errorf("insert message: empty session id")
	}
	_, err := r.db.Exec(ctx,
		`INSERT INTO dialogue_messages (id, session_id, direction, step, content) VALUES ($1, $2, $3, $4, $5)`,
		uuid.New(), rec.SessionID, rec.Direction, rec.Step, rec.Content)
	if err != nil {
		return fmt.Errorf("insert message for %s: %w", rec.SessionID, err)
	}
	return nil
}

// InsertCase stores the final record of a conversation.
func (r *Repository) InsertCase(ctx context.Context, rec CaseRecord) error {
	fields, err := json.Marshal(rec.Fields)
	if err != nil {
		return fmt.Errorf("encode case fields: %w", err)
	}
	var reference *string
	if rec.Reference != "" {
		reference = &rec.Reference
	}
	_, err = r.db.Exec(ctx,
		`INSERT INTO dialogue_cases (id, session_id, flow, language, outcome, reference, fields) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		uuid.New(), rec.SessionID, rec.Flow, rec.Language, rec.Outcome, reference, fields)
	if err != nil {
		return fmt.Errorf("insert case for %s: %w", rec.SessionID, err)
	}
	r.logger.Debug("case stored", "session_id", rec.SessionID, "outcome", rec.Outcome)
	return nil
}

// Ping checks the connection.
func (r *Repository) Ping(ctx context.Context) error {
	if r.pool == nil {
		return nil
	}
	return r.pool.Ping(ctx)
}

// Close releases the pool.
func (r *Repository) Close() {
	if r.pool != nil {
		r.pool.Close()
	}
}
