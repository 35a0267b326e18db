package service

import (
	"testing"

	"cp_arena/internal/domain/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccessSessionGrantPath(t *testing.T) {
	s := NewAccessSession()
	assert.Equal(t, model.AccessIdle, s.State())

	require.NoError(t, s.Connect())
	assert.Equal(t, model.AccessChecking, s.State())

	require.NoError(t, s.Grant())
	assert.Equal(t, model.AccessGranted, s.State())

	require.NoError(t, s.Complete())
	assert.Equal(t, model.AccessCompleted, s.State())
}

func TestAccessSessionDenyKeepsReason(t *testing.T) {
	s := NewAccessSession()
	require.NoError(t, s.Connect())
	require.NoError(t, s.Deny("already participated"))

	assert.Equal(t, model.AccessDenied, s.State())
	assert.Equal(t, "already participated", s.Reason())

	// Denied is terminal.
	assert.Error(t, s.Grant())
	assert.Error(t, s.Connect())
}

func TestAccessSessionErrorIsDistinctFromDenied(t *testing.T) {
	s := NewAccessSession()
	require.NoError(t, s.Connect())
	require.NoError(t, s.Fail("ledger unreachable"))

	assert.Equal(t, model.AccessError, s.State())
	assert.NotEqual(t, model.AccessDenied, s.State())
	assert.Equal(t, "ledger unreachable", s.Reason())
}

func TestAccessSessionDisconnectAllowsReentry(t *testing.T) {
	s := NewAccessSession()
	require.NoError(t, s.Connect())
	require.NoError(t, s.Grant())

	require.NoError(t, s.Disconnect())
	assert.Equal(t, model.AccessIdle, s.State())

	// Re-entry requires a fresh check.
	require.NoError(t, s.Connect())
	require.NoError(t, s.Grant())
}

func TestAccessSessionRejectsInvalidTransitions(t *testing.T) {
	s := NewAccessSession()
	assert.Error(t, s.Grant())      // can't grant from Idle
	assert.Error(t, s.Complete())   // can't complete from Idle
	assert.Error(t, s.Disconnect()) // can't disconnect from Idle

	require.NoError(t, s.Connect())
	assert.Error(t, s.Connect())    // already checking
	assert.Error(t, s.Complete())   // not granted yet
	assert.Error(t, s.Disconnect()) // not granted yet
}
