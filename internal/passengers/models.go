package passengers

// ContactDetail is the primary contact for a booking.
type ContactDetail struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"omitempty,email"`
	Phone    string `json:"phone" validate:"required"`
	IDType   string `json:"id_type"`
	IDNumber string `json:"id_number"`
}

// Passenger is one traveler. Identity fields are authoritative; the seat
// binding fields are derived and recomputed by the binder every time the
// selected-seats collection changes.
type Passenger struct {
	Name             string `json:"name"`
	IDType           string `json:"id_type"`
	IDNumber         string `json:"id_number"`
	Phone            string `json:"phone"`
	UseContactDetail bool   `json:"use_contact_detail"`

	// Derived seat binding, cleared and reassigned by Rebind.
	SeatNumber  string  `json:"seat_number,omitempty"`
	SeatID      string  `json:"seat_id,omitempty"`
	WagonNumber int     `json:"wagon_number,omitempty"`
	WagonClass  string  `json:"wagon_class,omitempty"`
	SeatPrice   float64 `json:"seat_price,omitempty"`
	SegmentID   string  `json:"segment_id,omitempty"`
	// SegmentIndex is the display order among segments that currently have
	// selected seats, not the segment's absolute position in the itinerary.
	SegmentIndex int `json:"segment_index,omitempty"`
}

// HasSeat reports whether the binder assigned this passenger a seat. An
// unassigned passenger is auto-allocated at check-in.
func (p *Passenger) HasSeat() bool {
	return p.SeatID != ""
}

// Resize grows or truncates the passenger list to n entries. New entries are
// defaulted; existing entries keep their identity fields untouched. The first
// passenger mirrors the contact by default.
func Resize(list []Passenger, n int) []Passenger {
	if n < 0 {
		n = 0
	}
	if n <= len(list) {
		return append([]Passenger(nil), list[:n]...)
	}

	out := append([]Passenger(nil), list...)
	for i := len(out); i < n; i++ {
		p := Passenger{IDType: "KTP"}
		if i == 0 {
			p.UseContactDetail = true
		}
		out = append(out, p)
	}
	return out
}

// ApplyContact mirrors the contact's identity fields onto every passenger
// with the use-contact flag set.
func ApplyContact(list []Passenger, contact ContactDetail) []Passenger {
	out := append([]Passenger(nil), list...)
	for i := range out {
		if out[i].UseContactDetail {
			out[i].Name = contact.Name
			out[i].IDType = contact.IDType
			out[i].IDNumber = contact.IDNumber
			out[i].Phone = contact.Phone
		}
	}
	return out
}
