package interview

import (
	"context"
	"io"
	"testing"

	"crossexam/internal/models"
	"crossexam/internal/testhelpers"

	"github.com/stretchr/testify/require"
)

func TestRegistry(t *testing.T) {
	oracle := &stubOracle{}
	registry := NewRegistry(oracle, testhelpers.NewLogger(io.Discard))

	require.Nil(t, registry.Get("no-such-id"))

	id, session := registry.Create()
	require.NotEmpty(t, id)
	require.Same(t, session, registry.Get(id))
	require.Equal(t, StateUninitialized, session.Snapshot().State)

	// Sessions are independent of each other.
	otherID, other := registry.Create()
	require.NotEqual(t, id, otherID)
	oracle.push(validScenarioJSON, nil)
	require.NoError(t, other.Start(context.Background(), models.DifficultyBeginner))
	require.Equal(t, StateUninitialized, registry.Get(id).Snapshot().State)

	registry.Delete(id)
	require.Nil(t, registry.Get(id))
	registry.Delete(id) // no-op
	require.Same(t, other, registry.Get(otherID))
}
