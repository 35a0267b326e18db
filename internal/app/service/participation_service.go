package service

import (
	"context"
	"log/slog"
	"time"

	"cp_arena/internal/common"
	"cp_arena/internal/domain/model"
	"cp_arena/internal/domain/repository"
)

// ParticipationService is the ledger of completed contest attempts. It
// canonicalizes wallet addresses and delegates the at-most-once guarantee to
// the repository's atomic insert.
type ParticipationService struct {
	repo   repository.ParticipationRepository
	logger *slog.Logger
	now    func() time.Time
}

func NewParticipationService(repo repository.ParticipationRepository, logger *slog.Logger) *ParticipationService {
	return &ParticipationService{
		repo:   repo,
		logger: logger,
		now:    time.Now,
	}
}

func (s *ParticipationService) HasParticipated(ctx context.Context, contestID, walletAddress string) (bool, error) {
	if contestID == "" || walletAddress == "" {
		return false, common.Errorf("contestId and walletAddress are required: %w", common.ErrBadRequest)
	}
	return s.repo.Exists(ctx, contestID, model.CanonicalWallet(walletAddress))
}

// RecordParticipation inserts the completion record. A duplicate — including
// one written by a concurrent request for the same pair — comes back as an
// error wrapping common.ErrConflict. Callers decide whether that is a 409 or
// an ignorable fact.
func (s *ParticipationService) RecordParticipation(ctx context.Context, contestID, walletAddress string) error {
	if contestID == "" || walletAddress == "" {
		return common.Errorf("contestId and walletAddress are required: %w", common.ErrBadRequest)
	}

	record := &model.ParticipationRecord{
		ContestID:     contestID,
		WalletAddress: model.CanonicalWallet(walletAddress),
		JoinedAt:      s.now(),
	}
	if err := s.repo.Insert(ctx, record); err != nil {
		return err
	}

	s.logger.Info("participation recorded",
		"contest_id", contestID,
		"wallet", record.WalletAddress)
	return nil
}
