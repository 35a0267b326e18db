package repository

import (
	"context"
	"fmt"
	"sync"

	"cp_arena/internal/common"
	"cp_arena/internal/domain/model"
)

// In-memory implementations with the same conflict semantics as the Postgres
// ones. Used by tests and by local development without a database; the
// mutex-guarded check-and-insert stands in for the composite unique
// constraint.

type InMemContestRepository struct {
	mu       sync.RWMutex
	contests map[string]model.Contest
	order    []string
}

func NewInMemContestRepository() *InMemContestRepository {
	return &InMemContestRepository{contests: make(map[string]model.Contest)}
}

func (r *InMemContestRepository) CreateContest(ctx context.Context, c *model.Contest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.contests[c.ID] = *c
	r.order = append(r.order, c.ID)
	return nil
}

func (r *InMemContestRepository) FindContestByID(ctx context.Context, id string) (*model.Contest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.contests[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	return &c, nil
}

func (r *InMemContestRepository) ListContests(ctx context.Context) ([]model.Contest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]model.Contest, 0, len(r.order))
	for i := len(r.order) - 1; i >= 0; i-- {
		out = append(out, r.contests[r.order[i]])
	}
	return out, nil
}

type InMemParticipationRepository struct {
	mu      sync.Mutex
	records map[string]model.ParticipationRecord
}

func NewInMemParticipationRepository() *InMemParticipationRepository {
	return &InMemParticipationRepository{records: make(map[string]model.ParticipationRecord)}
}

func participationKey(contestID, wallet string) string {
	return contestID + "/" + wallet
}

func (r *InMemParticipationRepository) Insert(ctx context.Context, rec *model.ParticipationRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	k := participationKey(rec.ContestID, rec.WalletAddress)
	if _, ok := r.records[k]; ok {
		return fmt.Errorf("wallet already participated in this contest: %w", common.ErrConflict)
	}
	r.records[k] = *rec
	return nil
}

func (r *InMemParticipationRepository) Exists(ctx context.Context, contestID, walletAddress string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.records[participationKey(contestID, walletAddress)]
	return ok, nil
}
