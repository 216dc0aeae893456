package itinerary

// Segment is one point-to-point train leg within a journey.
type Segment struct {
	ID             string  `json:"id"`
	TrainID        string  `json:"train_id"`
	ScheduleID     string  `json:"schedule_id"`
	TrainName      string  `json:"train_name"`
	TrainType      string  `json:"train_type"`
	Origin         string  `json:"origin"`
	Destination    string  `json:"destination"`
	DepartureTime  string  `json:"departure_time"` // "08:30"
	ArrivalTime    string  `json:"arrival_time"`
	Duration       string  `json:"duration"`
	BasePrice      float64 `json:"base_price"` // per passenger
	AvailableSeats int     `json:"available_seats"`
	TravelDate     string  `json:"travel_date"` // "2006-01-02"
}

// JourneyOption is one complete offered journey, composed of one or more
// ordered segments. IsMultiSegment is always recomputed locally from the
// segment count and never trusted from an external response.
type JourneyOption struct {
	ID                string    `json:"id"`
	Segments          []Segment `json:"segments"`
	IsMultiSegment    bool      `json:"is_multi_segment"`
	TotalPrice        float64   `json:"total_price"` // per-passenger fare x passenger count
	Duration          string    `json:"duration"`
	ConnectionMinutes int       `json:"connection_minutes,omitempty"`
}

// Normalize recomputes the multi-segment flag from the segment list.
func (o *JourneyOption) Normalize() {
	o.IsMultiSegment = len(o.Segments) > 1
}

// ScaleTotal re-derives TotalPrice from the per-passenger segment fares for
// the given passenger count.
func (o *JourneyOption) ScaleTotal(passengerCount int) {
	if passengerCount < 1 {
		passengerCount = 1
	}
	perPassenger := 0.0
	for _, seg := range o.Segments {
		perPassenger += seg.BasePrice
	}
	o.TotalPrice = perPassenger * float64(passengerCount)
}

// SegmentByID returns the segment with the given ID, or nil.
func (o *JourneyOption) SegmentByID(segmentID string) *Segment {
	for i := range o.Segments {
		if o.Segments[i].ID == segmentID {
			return &o.Segments[i]
		}
	}
	return nil
}

// ChainIsValid reports whether consecutive segments connect: segment i's
// destination must equal segment i+1's origin. Upstream data does not always
// honor this, so it is checked defensively before an option is offered.
func (o *JourneyOption) ChainIsValid() bool {
	if len(o.Segments) == 0 {
		return false
	}
	for i := 0; i < len(o.Segments)-1; i++ {
		if o.Segments[i].Destination != o.Segments[i+1].Origin {
			return false
		}
	}
	for _, s := range o.Segments {
		if s.Origin == s.Destination || s.AvailableSeats < 0 {
			return false
		}
	}
	return true
}

// SearchRequest is the origin/destination/date/passenger-count tuple a
// composition runs for.
type SearchRequest struct {
	Origin         string `json:"origin" binding:"required"`
	Destination    string `json:"destination" binding:"required"`
	DepartureDate  string `json:"departure_date" binding:"required"`
	PassengerCount int    `json:"passenger_count" binding:"required,min=1"`
}
