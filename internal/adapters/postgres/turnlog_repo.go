package postgres

import (
	"context"
	"fmt"
)

// TurnLogRepo implements ports.TurnLogger: an append-only audit stream of
// completed exchanges for offline analysis. It is not session state; the
// assistant writes to it best-effort after every turn.
type TurnLogRepo struct {
	db *DB
}

func NewTurnLogRepo(db *DB) *TurnLogRepo {
	return &TurnLogRepo{db: db}
}

// EnsureSchema creates the turn log table if it does not exist.
func (r *TurnLogRepo) EnsureSchema(ctx context.Context) error {
	_, err := r.db.Pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS conversation_turns (
			id             BIGSERIAL PRIMARY KEY,
			session_id     TEXT NOT NULL,
			user_text      TEXT NOT NULL,
			assistant_text TEXT NOT NULL,
			created_at     TIMESTAMPTZ NOT NULL DEFAULT now()
		);
		CREATE INDEX IF NOT EXISTS idx_conversation_turns_session
			ON conversation_turns (session_id, created_at);
	`)
	if err != nil {
		return fmt.Errorf("ensure turn log schema: %w", err)
	}
	return nil
}

// LogTurn appends one exchange.
func (r *TurnLogRepo) LogTurn(ctx context.Context, sessionID, user, assistant string) error {
	_, err := r.db.Pool.Exec(ctx, `
		INSERT INTO conversation_turns (session_id, user_text, assistant_text)
		VALUES ($1, $2, $3)
	`, sessionID, user, assistant)
	if err != nil {
		return fmt.Errorf("insert turn: %w", err)
	}
	return nil
}
