package booking

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreSnapshotsDoNotAlias(t *testing.T) {
	store := NewMemorySessionStore()
	s := newDraft(2)
	s.SelectItinerary(*s.OptionByID("direct"))
	require.NoError(t, store.Save(context.Background(), s))

	// Mutating a returned snapshot must not leak into the stored one.
	first, err := store.Get(context.Background(), s.ID)
	require.NoError(t, err)
	first.ApplyInventory("seg-1", testSeatMap("sched-1", 250000, 250000))
	require.NotEmpty(t, first.SelectedSeats)

	second, err := store.Get(context.Background(), s.ID)
	require.NoError(t, err)
	assert.Empty(t, second.Inventories)
	assert.Empty(t, second.SelectedSeats)

	// Mutating the original after Save must not leak either.
	s.SetPassengerCount(5)
	third, err := store.Get(context.Background(), s.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, third.Search.PassengerCount)
}

func TestMemoryStoreDelete(t *testing.T) {
	store := NewMemorySessionStore()
	s := newDraft(1)
	require.NoError(t, store.Save(context.Background(), s))
	require.NoError(t, store.Delete(context.Background(), s.ID))

	_, err := store.Get(context.Background(), s.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}
