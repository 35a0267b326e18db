package service

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"

	"cp_arena/internal/common"
	"cp_arena/internal/domain/repository"
)

// Minter is the chain-interaction capability: mint a badge to a wallet and
// wait for on-chain confirmation.
type Minter interface {
	Mint(ctx context.Context, to, uri, questionHash string) (txHash string, err error)
}

// BadgeService mints proof-of-completion badges. It is sequenced after a
// fully-passed verdict but independent of it: a mint failure is surfaced as
// its own error and never rewrites a grading outcome.
type BadgeService struct {
	contestRepo repository.ContestRepository
	minter      Minter
	uriBase     string
	logger      *slog.Logger
}

func NewBadgeService(contestRepo repository.ContestRepository, minter Minter, uriBase string, logger *slog.Logger) *BadgeService {
	return &BadgeService{
		contestRepo: contestRepo,
		minter:      minter,
		uriBase:     uriBase,
		logger:      logger,
	}
}

type MintBadgeRequest struct {
	ContestID     string `json:"contestId"`
	ProblemIndex  int    `json:"problemIndex"`
	WalletAddress string `json:"walletAddress"`
}

func (s *BadgeService) MintBadge(ctx context.Context, req MintBadgeRequest) (string, error) {
	if req.ContestID == "" || req.WalletAddress == "" {
		return "", common.Errorf("contestId and walletAddress are required: %w", common.ErrBadRequest)
	}
	if req.ProblemIndex < 0 {
		return "", common.Errorf("missing or invalid 'problemIndex': %w", common.ErrBadRequest)
	}
	if s.minter == nil {
		return "", common.Errorf("badge minting is not configured: %w", common.ErrInternalServer)
	}

	contest, err := s.contestRepo.FindContestByID(ctx, req.ContestID)
	if err != nil {
		return "", lookupContestErr(err)
	}
	if _, ok := contest.QuestionAt(req.ProblemIndex); !ok {
		return "", common.Errorf("problem not found: %w", common.ErrNotFound)
	}

	// Deterministic per-problem identifier; the same problem always maps to
	// the same questionHash regardless of who mints.
	questionHash := fmt.Sprintf("%s-%d", req.ContestID, req.ProblemIndex)
	uri := fmt.Sprintf("%s?seed=%s&contestId=%s&problem=%d",
		s.uriBase, url.QueryEscape(questionHash), url.QueryEscape(req.ContestID), req.ProblemIndex)

	txHash, err := s.minter.Mint(ctx, req.WalletAddress, uri, questionHash)
	if err != nil {
		return "", common.Errorf("mint failed: %v: %w", err, common.ErrUpstream)
	}

	s.logger.Info("badge minted",
		"contest_id", req.ContestID,
		"problem_index", req.ProblemIndex,
		"wallet", req.WalletAddress,
		"tx_hash", txHash)
	return txHash, nil
}
