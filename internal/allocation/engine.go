package allocation

import (
	"sort"

	"github.com/reipand/TripGo-sub000/internal/inventory"
)

// SelectedSeat is a copy of a wagon seat tagged with the segment it was
// chosen for. The same seat number on two different segments are distinct
// selections.
type SelectedSeat struct {
	SeatID          string  `json:"seat_id"`
	SeatNumber      string  `json:"seat_number"`
	WagonNumber     int     `json:"wagon_number"`
	WagonClass      string  `json:"wagon_class"`
	Price           float64 `json:"price"`
	IsWindow        bool    `json:"is_window"`
	IsForwardFacing bool    `json:"is_forward_facing"`
	SegmentID       string  `json:"segment_id"`
}

// AutoSelect deterministically picks up to count seats for one segment,
// iterating wagons in declaration order. Within a wagon, available seats are
// taken from the least desirable end first: non-window before window,
// non-forward-facing before forward-facing, then ascending price. This yields
// a price-minimizing default assignment.
func AutoSelect(wagons []inventory.Wagon, count int, segmentID string) []SelectedSeat {
	if count <= 0 {
		return nil
	}

	var picked []SelectedSeat
	for _, wagon := range wagons {
		if len(picked) >= count {
			break
		}

		available := make([]inventory.Seat, 0, len(wagon.Seats))
		for _, seat := range wagon.Seats {
			if seat.Available {
				available = append(available, seat)
			}
		}

		sort.SliceStable(available, func(i, j int) bool {
			a, b := available[i], available[j]
			if a.IsWindow != b.IsWindow {
				return !a.IsWindow
			}
			if a.IsForwardFacing != b.IsForwardFacing {
				return !a.IsForwardFacing
			}
			return a.Price < b.Price
		})

		for _, seat := range available {
			if len(picked) >= count {
				break
			}
			picked = append(picked, fromSeat(seat, wagon, segmentID))
		}
	}

	// Truncate any excess defensively; the loops above already stop at count.
	if len(picked) > count {
		picked = picked[:count]
	}
	return picked
}

// Toggle flips one seat's membership in the selection. A seat already
// selected for the same segment is removed. An available seat is added only
// while the segment's selected count is below the passenger count; otherwise
// the toggle is a no-op. The input slice is never mutated.
func Toggle(selection []SelectedSeat, seat inventory.Seat, wagon inventory.Wagon, segmentID string, passengerCount int) []SelectedSeat {
	for i, sel := range selection {
		if sel.SeatID == seat.ID && sel.SegmentID == segmentID {
			out := make([]SelectedSeat, 0, len(selection)-1)
			out = append(out, selection[:i]...)
			out = append(out, selection[i+1:]...)
			return out
		}
	}

	if !seat.Available {
		return selection
	}
	if CountForSegment(selection, segmentID) >= passengerCount {
		return selection
	}

	out := make([]SelectedSeat, 0, len(selection)+1)
	out = append(out, selection...)
	out = append(out, fromSeat(seat, wagon, segmentID))
	return out
}

// CountForSegment counts selected seats tagged with the given segment.
func CountForSegment(selection []SelectedSeat, segmentID string) int {
	count := 0
	for _, sel := range selection {
		if sel.SegmentID == segmentID {
			count++
		}
	}
	return count
}

// FilterSegment returns the selections for one segment, in selection order.
func FilterSegment(selection []SelectedSeat, segmentID string) []SelectedSeat {
	var out []SelectedSeat
	for _, sel := range selection {
		if sel.SegmentID == segmentID {
			out = append(out, sel)
		}
	}
	return out
}

// DropSegment returns the selection with every seat of one segment removed.
func DropSegment(selection []SelectedSeat, segmentID string) []SelectedSeat {
	out := make([]SelectedSeat, 0, len(selection))
	for _, sel := range selection {
		if sel.SegmentID != segmentID {
			out = append(out, sel)
		}
	}
	return out
}

// TrimSegment keeps at most max seats for one segment, dropping the most
// recently selected first. Used when the passenger count shrinks.
func TrimSegment(selection []SelectedSeat, segmentID string, max int) []SelectedSeat {
	if max < 0 {
		max = 0
	}
	kept := 0
	out := make([]SelectedSeat, 0, len(selection))
	for _, sel := range selection {
		if sel.SegmentID == segmentID {
			if kept >= max {
				continue
			}
			kept++
		}
		out = append(out, sel)
	}
	return out
}

func fromSeat(seat inventory.Seat, wagon inventory.Wagon, segmentID string) SelectedSeat {
	return SelectedSeat{
		SeatID:          seat.ID,
		SeatNumber:      seat.SeatNumber,
		WagonNumber:     wagon.Number,
		WagonClass:      wagon.Class,
		Price:           seat.Price,
		IsWindow:        seat.IsWindow,
		IsForwardFacing: seat.IsForwardFacing,
		SegmentID:       segmentID,
	}
}
