package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"cp_arena/internal/common"
	"cp_arena/internal/domain/model"
	"cp_arena/internal/domain/repository"
)

// StartStore is the write-once authority for contest start instants, keyed
// by (contestID, canonical wallet).
type StartStore interface {
	Begin(ctx context.Context, contestID, wallet string, now time.Time) (time.Time, bool, error)
	Get(ctx context.Context, contestID, wallet string) (time.Time, bool, error)
}

// SessionService drives the access check, the timer, and the idempotent
// finalization that closes out a session.
type SessionService struct {
	contestRepo repository.ContestRepository
	ledger      *ParticipationService
	store       StartStore
	logger      *slog.Logger
	now         func() time.Time
}

func NewSessionService(
	contestRepo repository.ContestRepository,
	ledger *ParticipationService,
	store StartStore,
	logger *slog.Logger,
) *SessionService {
	return &SessionService{
		contestRepo: contestRepo,
		ledger:      ledger,
		store:       store,
		logger:      logger,
		now:         time.Now,
	}
}

// Remaining derives the time left from the stored start instant. It is a
// pure function of its inputs so repeated calls can never accumulate drift.
func Remaining(startedAt time.Time, limitMinutes int, now time.Time) (secondsLeft int64, expired bool) {
	total := int64(limitMinutes) * 60
	elapsed := now.Sub(startedAt).Milliseconds() / 1000
	secondsLeft = total - elapsed
	if secondsLeft < 0 {
		secondsLeft = 0
	}
	return secondsLeft, secondsLeft <= 0
}

// Open checks eligibility and, on grant, establishes the start instant
// (first grant wins; later calls observe the same instant). Denial and
// infrastructure failure surface as distinct errors so the caller can tell
// "already participated" apart from "try again".
func (s *SessionService) Open(ctx context.Context, contestID, walletAddress string) (*model.ContestSession, error) {
	if walletAddress == "" {
		return nil, common.Errorf("walletAddress is required: %w", common.ErrBadRequest)
	}
	wallet := model.CanonicalWallet(walletAddress)

	contest, err := s.contestRepo.FindContestByID(ctx, contestID)
	if err != nil {
		return nil, lookupContestErr(err)
	}

	access := NewAccessSession()
	if err := access.Connect(); err != nil {
		return nil, err
	}

	participated, err := s.ledger.HasParticipated(ctx, contestID, wallet)
	if err != nil {
		access.Fail(err.Error())
		return nil, common.Errorf("participation check failed: %w", err)
	}
	if participated {
		access.Deny("this wallet has already participated in this contest")
		return nil, common.Errorf("this wallet has already participated in this contest: %w", common.ErrForbidden)
	}
	if err := access.Grant(); err != nil {
		return nil, err
	}

	startedAt, created, err := s.store.Begin(ctx, contestID, wallet, s.now())
	if err != nil {
		return nil, common.Errorf("failed to establish session start: %w", err)
	}
	if created {
		s.logger.Info("contest session opened", "contest_id", contestID, "wallet", wallet)
	}

	return s.sessionView(ctx, access, contest, wallet, startedAt)
}

// Status reports the remaining time for an existing session. Observing an
// expired session triggers the idempotent finalization.
func (s *SessionService) Status(ctx context.Context, contestID, walletAddress string) (*model.ContestSession, error) {
	if walletAddress == "" {
		return nil, common.Errorf("walletAddress is required: %w", common.ErrBadRequest)
	}
	wallet := model.CanonicalWallet(walletAddress)

	contest, err := s.contestRepo.FindContestByID(ctx, contestID)
	if err != nil {
		return nil, lookupContestErr(err)
	}

	startedAt, found, err := s.store.Get(ctx, contestID, wallet)
	if err != nil {
		return nil, common.Errorf("failed to read session start: %w", err)
	}
	if !found {
		return nil, common.Errorf("no session for this wallet: %w", common.ErrNotFound)
	}

	return s.sessionView(ctx, nil, contest, wallet, startedAt)
}

// Finish records completion explicitly. A conflict means some earlier finish
// or expiry already wrote the record; that is success, not failure.
func (s *SessionService) Finish(ctx context.Context, contestID, walletAddress string) (alreadyRecorded bool, err error) {
	if walletAddress == "" {
		return false, common.Errorf("walletAddress is required: %w", common.ErrBadRequest)
	}

	if _, err := s.contestRepo.FindContestByID(ctx, contestID); err != nil {
		return false, lookupContestErr(err)
	}

	err = s.ledger.RecordParticipation(ctx, contestID, walletAddress)
	if errors.Is(err, common.ErrConflict) {
		return true, nil
	}
	return false, err
}

func (s *SessionService) sessionView(ctx context.Context, access *AccessSession, contest *model.Contest, wallet string, startedAt time.Time) (*model.ContestSession, error) {
	secondsLeft, expired := Remaining(startedAt, contest.TimeLimitMinutes, s.now())
	if expired {
		if access != nil {
			access.Complete()
		}
		// Best-effort close-out; the ledger's unique constraint absorbs
		// repeats from any number of observers.
		if err := s.ledger.RecordParticipation(ctx, contest.ID, wallet); err != nil && !errors.Is(err, common.ErrConflict) {
			s.logger.Warn("expiry finalization failed", "contest_id", contest.ID, "wallet", wallet, "error", err)
		}
	}

	return &model.ContestSession{
		ContestID:     contest.ID,
		WalletAddress: wallet,
		StartedAt:     startedAt,
		SecondsLeft:   secondsLeft,
		Expired:       expired,
	}, nil
}
