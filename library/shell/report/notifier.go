package report

import (
	"io"

	"github.com/AntonStoeckl/library-circulation-go/library/core"
)

// Notifier prints a line whenever the ledger records an issued or a returned book.
// It satisfies ledger.Notifier.
type Notifier struct {
	p printer
}

// NewNotifier creates a Notifier writing to w.
func NewNotifier(w io.Writer) *Notifier {
	return &Notifier{p: printer{w: w}}
}

func (n *Notifier) BookIssued(record core.IssueRecord) {
	n.p.printf("%s\n", issuedLine(record.Title, record.ReaderName))
}

func (n *Notifier) BookReturned(record core.IssueRecord) {
	n.p.printf("%s\n", returnedLine(record.Title, record.ReaderName))
}

// Err returns the first write error; later notices are dropped once one occurred.
func (n *Notifier) Err() error {
	return n.p.err
}
