package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"cp_arena/internal/common"
	"cp_arena/internal/domain/model"
	"cp_arena/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

type ContestService struct {
	contestRepo repository.ContestRepository
}

func NewContestService(contestRepo repository.ContestRepository) *ContestService {
	return &ContestService{contestRepo: contestRepo}
}

// lookupContestErr keeps the "contest not found" message reserved for actual
// absence; a storage failure keeps its own message and maps to 500.
func lookupContestErr(err error) error {
	if errors.Is(err, common.ErrNotFound) {
		return common.Errorf("contest not found: %w", err)
	}
	return common.Errorf("failed to load contest: %w", err)
}

type CreateContestRequest struct {
	Name             string           `json:"name"`
	TimeLimitMinutes int              `json:"timeLimitMinutes"`
	Questions        []model.Question `json:"questions"`
}

func (s *ContestService) CreateContest(ctx context.Context, req CreateContestRequest) (*model.Contest, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, common.Errorf("contest name is required: %w", common.ErrValidation)
	}
	if req.TimeLimitMinutes < 1 {
		return nil, common.Errorf("a valid time limit (minutes) is required: %w", common.ErrValidation)
	}
	if len(req.Questions) == 0 {
		return nil, common.Errorf("at least one question is required: %w", common.ErrValidation)
	}
	for _, q := range req.Questions {
		if strings.TrimSpace(q.Title) == "" {
			return nil, common.Errorf("every question needs a title: %w", common.ErrValidation)
		}
	}

	contest := &model.Contest{
		ID:               uuid.NewString(),
		Name:             name,
		Slug:             slug.Make(name),
		TimeLimitMinutes: req.TimeLimitMinutes,
		Questions:        req.Questions,
		CreatedAt:        time.Now(),
	}

	if err := s.contestRepo.CreateContest(ctx, contest); err != nil {
		return nil, common.Errorf("failed to save contest: %w", err)
	}
	return contest, nil
}

func (s *ContestService) GetContest(ctx context.Context, id string) (*model.Contest, error) {
	if id == "" {
		return nil, common.Errorf("contest id is required: %w", common.ErrBadRequest)
	}
	contest, err := s.contestRepo.FindContestByID(ctx, id)
	if err != nil {
		return nil, lookupContestErr(err)
	}
	return contest, nil
}

func (s *ContestService) ListContests(ctx context.Context) ([]model.Contest, error) {
	return s.contestRepo.ListContests(ctx)
}
