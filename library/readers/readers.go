// Package readers keeps the registered library members, keyed by ticket number.
package readers

import (
	"errors"
	"fmt"
	"slices"

	"github.com/AntonStoeckl/library-circulation-go/library/core"
)

// ErrReaderAlreadyRegistered is returned when the ticket number is taken.
var ErrReaderAlreadyRegistered = errors.New("reader already registered")

// Registry holds readers in registration order. Not safe for concurrent use.
type Registry struct {
	readers []core.Reader
}

func NewRegistry() *Registry {
	return &Registry{}
}

// Register adds a reader with a present first name, last name and unique ticket number.
func (r *Registry) Register(reader core.Reader) error {
	if err := core.ValidateReader(reader); err != nil {
		return err
	}

	if _, found := r.Find(reader.TicketNumber); found {
		return fmt.Errorf("%w: ticket number %s", ErrReaderAlreadyRegistered, reader.TicketNumber)
	}

	r.readers = append(r.readers, reader)

	return nil
}

func (r *Registry) Find(ticketNumber core.TicketNumberString) (core.Reader, bool) {
	idx := slices.IndexFunc(r.readers, func(reader core.Reader) bool {
		return reader.TicketNumber == ticketNumber
	})

	if idx < 0 {
		return core.Reader{}, false
	}

	return r.readers[idx], true
}

// All returns a copy of the registered readers.
func (r *Registry) All() []core.Reader {
	return slices.Clone(r.readers)
}
