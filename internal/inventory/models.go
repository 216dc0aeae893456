package inventory

// Seat is one seat inside a wagon. The selected-seats collection elsewhere
// holds copies tagged with a segment id, never pointers into a wagon.
type Seat struct {
	ID              string  `json:"id"`
	SeatNumber      string  `json:"seat_number"` // row + column, e.g. "12A"
	Row             int     `json:"row"`
	Column          string  `json:"column"`
	Available       bool    `json:"available"`
	IsWindow        bool    `json:"is_window"`
	IsForwardFacing bool    `json:"is_forward_facing"`
	Price           float64 `json:"price"`
}

// Wagon is one car of a train with its ordered seat list.
type Wagon struct {
	Number         int      `json:"number"`
	Name           string   `json:"name"`
	Class          string   `json:"class"`
	Facilities     []string `json:"facilities,omitempty"`
	TotalSeats     int      `json:"total_seats"`
	AvailableSeats int      `json:"available_seats"`
	Seats          []Seat   `json:"seats"`
}

// SeatMap is the normalized inventory for one schedule (or one segment of a
// multi-segment journey).
type SeatMap struct {
	ScheduleID          string  `json:"schedule_id"`
	Wagons              []Wagon `json:"wagons"`
	TotalAvailableSeats int     `json:"total_available_seats"`
}

// recount recomputes per-wagon and total availability from the seat flags so
// the counts always match the seats regardless of source.
func (m *SeatMap) recount() {
	total := 0
	for i := range m.Wagons {
		available := 0
		for _, seat := range m.Wagons[i].Seats {
			if seat.Available {
				available++
			}
		}
		m.Wagons[i].TotalSeats = len(m.Wagons[i].Seats)
		m.Wagons[i].AvailableSeats = available
		total += available
	}
	m.TotalAvailableSeats = total
}

// FindSeat locates a seat by id across all wagons, returning the seat and its
// wagon, or nils.
func (m *SeatMap) FindSeat(seatID string) (*Seat, *Wagon) {
	for wi := range m.Wagons {
		for si := range m.Wagons[wi].Seats {
			if m.Wagons[wi].Seats[si].ID == seatID {
				return &m.Wagons[wi].Seats[si], &m.Wagons[wi]
			}
		}
	}
	return nil, nil
}
