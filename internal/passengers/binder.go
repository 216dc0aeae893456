package passengers

import (
	"github.com/reipand/TripGo-sub000/internal/allocation"
)

// Rebind reconciles the selected-seat set onto the passenger list. It is a
// pure function: it returns a new slice and mutates nothing else, so running
// it twice with the same inputs yields identical output.
//
// All seat-binding fields are cleared first. For a multi-segment itinerary,
// seats are grouped by segment in first-appearance order and seat i of each
// group binds to passenger i; SegmentIndex records the group's position among
// segments that have any selected seats. For a single segment, seats bind
// positionally across the flat list. Passengers beyond the seat count keep
// cleared bindings.
func Rebind(list []Passenger, selected []allocation.SelectedSeat, multiSegment bool) []Passenger {
	out := make([]Passenger, len(list))
	for i, p := range list {
		p.SeatNumber = ""
		p.SeatID = ""
		p.WagonNumber = 0
		p.WagonClass = ""
		p.SeatPrice = 0
		p.SegmentID = ""
		p.SegmentIndex = 0
		out[i] = p
	}

	if len(selected) == 0 || len(out) == 0 {
		return out
	}

	if !multiSegment {
		for i, seat := range selected {
			if i >= len(out) {
				break
			}
			bindSeat(&out[i], seat, 0)
		}
		return out
	}

	for groupIndex, segmentID := range segmentOrder(selected) {
		group := allocation.FilterSegment(selected, segmentID)
		for i, seat := range group {
			if i >= len(out) {
				break
			}
			bindSeat(&out[i], seat, groupIndex)
		}
	}
	return out
}

// segmentOrder lists the distinct segment ids in the order they first appear
// in the selection.
func segmentOrder(selected []allocation.SelectedSeat) []string {
	seen := make(map[string]bool, len(selected))
	var order []string
	for _, seat := range selected {
		if !seen[seat.SegmentID] {
			seen[seat.SegmentID] = true
			order = append(order, seat.SegmentID)
		}
	}
	return order
}

func bindSeat(p *Passenger, seat allocation.SelectedSeat, segmentIndex int) {
	p.SeatNumber = seat.SeatNumber
	p.SeatID = seat.SeatID
	p.WagonNumber = seat.WagonNumber
	p.WagonClass = seat.WagonClass
	p.SeatPrice = seat.Price
	p.SegmentID = seat.SegmentID
	p.SegmentIndex = segmentIndex
}
