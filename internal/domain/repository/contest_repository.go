package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"cp_arena/internal/common"
	"cp_arena/internal/domain/model"
)

type ContestRepository interface {
	CreateContest(ctx context.Context, contest *model.Contest) error
	FindContestByID(ctx context.Context, id string) (*model.Contest, error)
	ListContests(ctx context.Context) ([]model.Contest, error)
}

type pgContestRepository struct {
	db *sql.DB
}

func NewPgContestRepository(db *sql.DB) ContestRepository {
	return &pgContestRepository{db: db}
}

func (r *pgContestRepository) CreateContest(ctx context.Context, c *model.Contest) error {
	questions, err := json.Marshal(c.Questions)
	if err != nil {
		return fmt.Errorf("pgContestRepository.CreateContest marshal: %w", err)
	}

	query := `INSERT INTO contests (id, name, slug, time_limit_minutes, questions, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6)`
	_, err = r.db.ExecContext(ctx, query, c.ID, c.Name, c.Slug, c.TimeLimitMinutes, questions, c.CreatedAt)
	if err != nil {
		return fmt.Errorf("pgContestRepository.CreateContest: %w", err)
	}
	return nil
}

func (r *pgContestRepository) FindContestByID(ctx context.Context, id string) (*model.Contest, error) {
	query := `SELECT id, name, slug, time_limit_minutes, questions, created_at
	          FROM contests WHERE id = $1`

	contest := &model.Contest{}
	var questions []byte
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&contest.ID, &contest.Name, &contest.Slug, &contest.TimeLimitMinutes, &questions, &contest.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgContestRepository.FindContestByID: %w", err)
	}

	if err := json.Unmarshal(questions, &contest.Questions); err != nil {
		return nil, fmt.Errorf("pgContestRepository.FindContestByID unmarshal: %w", err)
	}
	return contest, nil
}

func (r *pgContestRepository) ListContests(ctx context.Context) ([]model.Contest, error) {
	query := `SELECT id, name, slug, time_limit_minutes, questions, created_at
	          FROM contests ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("pgContestRepository.ListContests query: %w", err)
	}
	defer rows.Close()

	contests := []model.Contest{}
	for rows.Next() {
		var c model.Contest
		var questions []byte
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug, &c.TimeLimitMinutes, &questions, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("pgContestRepository.ListContests scan: %w", err)
		}
		if err := json.Unmarshal(questions, &c.Questions); err != nil {
			return nil, fmt.Errorf("pgContestRepository.ListContests unmarshal: %w", err)
		}
		contests = append(contests, c)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("pgContestRepository.ListContests rows.Err: %w", err)
	}
	return contests, nil
}
