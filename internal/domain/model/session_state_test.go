package model_test

import (
	"testing"

	"github.com/nrad-K/go-hh-agent/internal/domain/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionState_MarkApplied(t *testing.T) {
	state := model.NewSessionState()

	require.True(t, state.MarkApplied("100"))
	assert.True(t, state.IsApplied("100"))
	assert.True(t, state.IsKnown("100"))
	assert.False(t, state.IsIgnored("100"))

	// Marking twice is a no-op, not an error.
	require.True(t, state.MarkApplied("100"))
	assert.Equal(t, []string{"100"}, state.AppliedIDs())
}

func TestSessionState_SetsStayDisjoint(t *testing.T) {
	state := model.NewSessionState()

	require.True(t, state.MarkApplied("1"))
	assert.False(t, state.MarkIgnored("1"), "an applied id must not become ignored")
	assert.True(t, state.IsApplied("1"))
	assert.False(t, state.IsIgnored("1"))

	require.True(t, state.MarkIgnored("2"))
	assert.False(t, state.MarkApplied("2"), "an ignored id must not become applied")
	assert.True(t, state.IsIgnored("2"))
	assert.False(t, state.IsApplied("2"))
}

func TestSessionState_UnknownID(t *testing.T) {
	state := model.NewSessionState()

	assert.False(t, state.IsKnown("404"))
	assert.False(t, state.IsApplied("404"))
	assert.False(t, state.IsIgnored("404"))
}

func TestReconstructSessionState(t *testing.T) {
	state := model.ReconstructSessionState([]string{"3", "1", "2"}, []string{"5", "4"})

	assert.Equal(t, []string{"1", "2", "3"}, state.AppliedIDs())
	assert.Equal(t, []string{"4", "5"}, state.IgnoredIDs())
}

func TestReconstructSessionState_AppliedWinsOnConflict(t *testing.T) {
	state := model.ReconstructSessionState([]string{"7"}, []string{"7", "8"})

	assert.True(t, state.IsApplied("7"))
	assert.False(t, state.IsIgnored("7"))
	assert.Equal(t, []string{"8"}, state.IgnoredIDs())
}
