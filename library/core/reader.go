package core

// Reader is a registered library member.
type Reader struct {
	FirstName    string             `validate:"required,notblank"`
	LastName     string             `validate:"required,notblank"`
	TicketNumber TicketNumberString `validate:"required,notblank"`
}

// BuildReader creates a new Reader.
func BuildReader(firstName string, lastName string, ticketNumber TicketNumberString) Reader {
	return Reader{
		FirstName:    firstName,
		LastName:     lastName,
		TicketNumber: ticketNumber,
	}
}

// FullName returns "FirstName LastName".
func (r Reader) FullName() string {
	return r.FirstName + " " + r.LastName
}
