package history

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/jurema-br/nino/config"
	"github.com/jurema-br/nino/models"
)

// PostgresStore keeps turns in the conversation_history table, keyed by
// (session_id, timestamp) with an index serving most-recent-N reads.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore opens and pings a Postgres-backed history store.
func NewPostgresStore(cfg config.PostgresConfig) (*PostgresStore, error) {
	dsn, err := cfg.DSN()
	if err != nil {
		return nil, err
	}
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 5 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return &PostgresStore{db: db}, nil
}

// NewPostgresStoreFromDB wraps an existing connection, used by tests.
func NewPostgresStoreFromDB(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Append(ctx context.Context, turn models.Turn) error {
	ts := turn.Timestamp
	if ts.IsZero() {
		ts = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO conversation_history
			(session_id, user_message, bot_response, timestamp, is_document, document_filename, document_type)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		turn.SessionID, turn.UserMessage, turn.BotResponse, ts,
		turn.IsDocument, nullable(turn.DocumentFilename), nullable(turn.DocumentType),
	)
	if err != nil {
		return fmt.Errorf("append turn: %w", err)
	}
	return nil
}

func (s *PostgresStore) Recent(ctx context.Context, sessionID string, limit int) ([]models.Turn, error) {
	if limit <= 0 {
		return []models.Turn{}, nil
	}
	// Most-recent-first retrieval rides the (session_id, timestamp DESC)
	// index; the window is reversed to chronological order before use.
	rows, err := s.db.QueryContext(ctx, `
		SELECT session_id, user_message, bot_response, timestamp, is_document,
		       COALESCE(document_filename, ''), COALESCE(document_type, '')
		FROM conversation_history
		WHERE session_id = $1
		ORDER BY timestamp DESC
		LIMIT $2`, sessionID, limit)
	if err != nil {
		return nil, fmt.Errorf("query recent turns: %w", err)
	}
	defer rows.Close()

	var turns []models.Turn
	for rows.Next() {
		var t models.Turn
		if err := rows.Scan(&t.SessionID, &t.UserMessage, &t.BotResponse, &t.Timestamp,
			&t.IsDocument, &t.DocumentFilename, &t.DocumentType); err != nil {
			return nil, fmt.Errorf("scan turn: %w", err)
		}
		turns = append(turns, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate turns: %w", err)
	}

	reverse(turns)
	if turns == nil {
		turns = []models.Turn{}
	}
	return turns, nil
}

// PruneOlderThan deletes turns persisted before the cutoff.
func (s *PostgresStore) PruneOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM conversation_history WHERE timestamp < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("prune turns: %w", err)
	}
	return res.RowsAffected()
}

// Close releases the underlying connection pool.
func (s *PostgresStore) Close() error { return s.db.Close() }

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func reverse(turns []models.Turn) {
	for i, j := 0, len(turns)-1; i < j; i, j = i+1, j-1 {
		turns[i], turns[j] = turns[j], turns[i]
	}
}
