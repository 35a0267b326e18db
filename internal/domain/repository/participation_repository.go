package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"cp_arena/internal/common"
	"cp_arena/internal/domain/model"

	"github.com/jackc/pgx/v5/pgconn"
)

// ParticipationRepository persists completion records. Callers must pass
// wallet addresses already canonicalized; the repository does not normalize.
//
// Insert returns an error wrapping common.ErrConflict when a record for the
// pair already exists, including one from a concurrent racing insert. The
// uniqueness guarantee comes from the storage layer's composite constraint,
// never from a read-then-write in application code.
type ParticipationRepository interface {
	Insert(ctx context.Context, record *model.ParticipationRecord) error
	Exists(ctx context.Context, contestID, walletAddress string) (bool, error)
}

type pgParticipationRepository struct {
	db *sql.DB
}

func NewPgParticipationRepository(db *sql.DB) ParticipationRepository {
	return &pgParticipationRepository{db: db}
}

func (r *pgParticipationRepository) Insert(ctx context.Context, rec *model.ParticipationRecord) error {
	query := `INSERT INTO participations (contest_id, wallet_address, joined_at) VALUES ($1, $2, $3)`
	_, err := r.db.ExecContext(ctx, query, rec.ContestID, rec.WalletAddress, rec.JoinedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // Unique violation on (contest_id, wallet_address)
			return fmt.Errorf("wallet already participated in this contest: %w", common.ErrConflict)
		}
		return fmt.Errorf("pgParticipationRepository.Insert: %w", err)
	}
	return nil
}

func (r *pgParticipationRepository) Exists(ctx context.Context, contestID, walletAddress string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM participations WHERE contest_id = $1 AND wallet_address = $2)`
	var exists bool
	err := r.db.QueryRowContext(ctx, query, contestID, walletAddress).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("pgParticipationRepository.Exists: %w", err)
	}
	return exists, nil
}
