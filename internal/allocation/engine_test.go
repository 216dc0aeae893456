package allocation

import (
	"testing"

	"github.com/reipand/TripGo-sub000/internal/inventory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seat(id string, price float64, available, window, forward bool) inventory.Seat {
	return inventory.Seat{
		ID:              id,
		SeatNumber:      id,
		Available:       available,
		IsWindow:        window,
		IsForwardFacing: forward,
		Price:           price,
	}
}

func testWagons() []inventory.Wagon {
	return []inventory.Wagon{
		{
			Number: 1,
			Class:  "Eksekutif",
			Seats: []inventory.Seat{
				seat("1A", 275000, true, true, true),
				seat("1B", 250000, true, false, true),
				seat("1C", 240000, true, false, false),
				seat("1D", 270000, false, true, false),
			},
		},
		{
			Number: 2,
			Class:  "Eksekutif",
			Seats: []inventory.Seat{
				seat("2A", 260000, true, true, false),
				seat("2B", 245000, true, false, false),
			},
		},
	}
}

func TestAutoSelectNeverExceedsCount(t *testing.T) {
	wagons := testWagons()

	for count := 0; count <= 10; count++ {
		picked := AutoSelect(wagons, count, "seg-1")
		assert.LessOrEqual(t, len(picked), count)
	}
}

func TestAutoSelectIsDeterministic(t *testing.T) {
	wagons := testWagons()

	first := AutoSelect(wagons, 3, "seg-1")
	second := AutoSelect(wagons, 3, "seg-1")

	assert.Equal(t, first, second)
}

func TestAutoSelectPrefersLeastDesirableSeatsFirst(t *testing.T) {
	wagons := testWagons()

	picked := AutoSelect(wagons, 3, "seg-1")

	require.Len(t, picked, 3)
	// Non-window non-forward first, then non-window forward, then window.
	assert.Equal(t, "1C", picked[0].SeatID)
	assert.Equal(t, "1B", picked[1].SeatID)
	assert.Equal(t, "1A", picked[2].SeatID)
}

func TestAutoSelectSkipsUnavailableSeats(t *testing.T) {
	picked := AutoSelect(testWagons(), 10, "seg-1")

	for _, sel := range picked {
		assert.NotEqual(t, "1D", sel.SeatID)
	}
	assert.Len(t, picked, 5)
}

func TestAutoSelectSpillsIntoNextWagon(t *testing.T) {
	wagons := []inventory.Wagon{
		{
			Number: 1,
			Seats: []inventory.Seat{
				seat("1A", 250000, true, false, false),
				seat("1B", 250000, true, false, false),
				seat("1C", 250000, false, false, false),
			},
		},
		{
			Number: 2,
			Seats: []inventory.Seat{
				seat("2A", 250000, true, false, false),
			},
		},
	}

	picked := AutoSelect(wagons, 3, "seg-1")

	require.Len(t, picked, 3)
	assert.Equal(t, 1, picked[0].WagonNumber)
	assert.Equal(t, 1, picked[1].WagonNumber)
	assert.Equal(t, 2, picked[2].WagonNumber)
	assert.Equal(t, "2A", picked[2].SeatID)
}

func TestToggleAddsAndRemoves(t *testing.T) {
	wagons := testWagons()
	target := wagons[0].Seats[0]

	selection := Toggle(nil, target, wagons[0], "seg-1", 2)
	require.Len(t, selection, 1)
	assert.Equal(t, "1A", selection[0].SeatID)
	assert.Equal(t, "seg-1", selection[0].SegmentID)

	selection = Toggle(selection, target, wagons[0], "seg-1", 2)
	assert.Empty(t, selection)
}

func TestToggleTwiceRestoresOriginalSelection(t *testing.T) {
	wagons := testWagons()
	original := AutoSelect(wagons, 1, "seg-1")
	other := wagons[1].Seats[0]

	after := Toggle(original, other, wagons[1], "seg-1", 2)
	restored := Toggle(after, other, wagons[1], "seg-1", 2)

	assert.Equal(t, original, restored)
}

func TestToggleRefusesOverCapacity(t *testing.T) {
	wagons := testWagons()
	selection := AutoSelect(wagons, 2, "seg-1")
	extra := wagons[1].Seats[0]

	after := Toggle(selection, extra, wagons[1], "seg-1", 2)

	assert.Equal(t, selection, after, "toggle past passenger count must be a no-op")
}

func TestToggleIgnoresUnavailableSeat(t *testing.T) {
	wagons := testWagons()
	unavailable := wagons[0].Seats[3]

	after := Toggle(nil, unavailable, wagons[0], "seg-1", 2)

	assert.Empty(t, after)
}

func TestToggleSameSeatOnDifferentSegments(t *testing.T) {
	wagons := testWagons()
	target := wagons[0].Seats[0]

	selection := Toggle(nil, target, wagons[0], "seg-1", 2)
	selection = Toggle(selection, target, wagons[0], "seg-2", 2)

	require.Len(t, selection, 2)
	assert.Equal(t, 1, CountForSegment(selection, "seg-1"))
	assert.Equal(t, 1, CountForSegment(selection, "seg-2"))
}

func TestToggleDoesNotMutateInput(t *testing.T) {
	wagons := testWagons()
	selection := AutoSelect(wagons, 2, "seg-1")
	snapshot := append([]SelectedSeat(nil), selection...)

	Toggle(selection, selection[0].toSeat(), wagons[0], "seg-1", 2)

	assert.Equal(t, snapshot, selection)
}

// toSeat reverses a selection into the inventory shape for toggle tests.
func (s SelectedSeat) toSeat() inventory.Seat {
	return inventory.Seat{
		ID:              s.SeatID,
		SeatNumber:      s.SeatNumber,
		Available:       true,
		IsWindow:        s.IsWindow,
		IsForwardFacing: s.IsForwardFacing,
		Price:           s.Price,
	}
}

func TestTrimSegmentDropsMostRecentFirst(t *testing.T) {
	selection := []SelectedSeat{
		{SeatID: "a", SegmentID: "seg-1"},
		{SeatID: "b", SegmentID: "seg-2"},
		{SeatID: "c", SegmentID: "seg-1"},
		{SeatID: "d", SegmentID: "seg-1"},
	}

	trimmed := TrimSegment(selection, "seg-1", 2)

	require.Len(t, trimmed, 3)
	assert.Equal(t, "a", trimmed[0].SeatID)
	assert.Equal(t, "b", trimmed[1].SeatID)
	assert.Equal(t, "c", trimmed[2].SeatID)
}

func TestDropSegment(t *testing.T) {
	selection := []SelectedSeat{
		{SeatID: "a", SegmentID: "seg-1"},
		{SeatID: "b", SegmentID: "seg-2"},
	}

	remaining := DropSegment(selection, "seg-1")

	require.Len(t, remaining, 1)
	assert.Equal(t, "b", remaining[0].SeatID)
}
