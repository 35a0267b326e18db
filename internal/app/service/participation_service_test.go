package service

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"

	"cp_arena/internal/common"
	"cp_arena/internal/domain/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRecordParticipationIsAtMostOnce(t *testing.T) {
	svc := NewParticipationService(repository.NewInMemParticipationRepository(), testLogger())
	ctx := context.Background()

	const attempts = 32
	var wg sync.WaitGroup
	results := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = svc.RecordParticipation(ctx, "contest-1", "0xAbC123")
		}(i)
	}
	wg.Wait()

	var successes, conflicts int
	for _, err := range results {
		switch {
		case err == nil:
			successes++
		case assert.ErrorIs(t, err, common.ErrConflict):
			conflicts++
		}
	}
	assert.Equal(t, 1, successes)
	assert.Equal(t, attempts-1, conflicts)
}

func TestWalletIdentityIsCaseInsensitive(t *testing.T) {
	svc := NewParticipationService(repository.NewInMemParticipationRepository(), testLogger())
	ctx := context.Background()

	require.NoError(t, svc.RecordParticipation(ctx, "contest-1", "0xABCDEF"))

	participated, err := svc.HasParticipated(ctx, "contest-1", "0xabcdef")
	require.NoError(t, err)
	assert.True(t, participated)

	err = svc.RecordParticipation(ctx, "contest-1", "0xAbCdEf")
	assert.ErrorIs(t, err, common.ErrConflict)

	// Same wallet, different contest: no conflict.
	require.NoError(t, svc.RecordParticipation(ctx, "contest-2", "0xABCDEF"))
}

func TestParticipationValidatesInput(t *testing.T) {
	svc := NewParticipationService(repository.NewInMemParticipationRepository(), testLogger())
	ctx := context.Background()

	_, err := svc.HasParticipated(ctx, "", "0xabc")
	assert.ErrorIs(t, err, common.ErrBadRequest)

	err = svc.RecordParticipation(ctx, "contest-1", "")
	assert.ErrorIs(t, err, common.ErrBadRequest)
}
