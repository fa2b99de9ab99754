package librarian

import (
	"context"
	"errors"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/library-circulation-go/eventstore"
	"github.com/AntonStoeckl/library-circulation-go/library/core"
)

const (
	logMsgDecided     = "librarian decided"
	logAttrCommand    = "command_type"
	logAttrTitle      = "title"
	logAttrReader     = "reader_ticket"
	logAttrOutcome    = "outcome"
	logAttrFailReason = "reason"
)

var (
	// ErrNilCatalog is returned when a Librarian is built without a catalog.
	ErrNilCatalog = errors.New("catalog must not be nil")

	// ErrNilLedger is returned when a Librarian is built without a ledger.
	ErrNilLedger = errors.New("ledger must not be nil")

	// ErrApplyingDecisionFailed is returned when the catalog rejects a decided state change.
	ErrApplyingDecisionFailed = errors.New("applying decision failed")
)

// Catalog is the part of catalog.Catalog the Librarian needs.
type Catalog interface {
	SearchByTitle(query string) []core.Book
	SearchByExactTitle(title string) []core.Book
	SetAvailability(bookID uuid.UUID, available bool) error
}

// Ledger is the part of ledger.Ledger the Librarian needs.
type Ledger interface {
	RecordIssued(book core.Book, reader core.Reader, issuedAt time.Time) core.IssueRecord
	RecordReturned(bookID uuid.UUID, ticketNumber core.TicketNumberString) (core.IssueRecord, bool)
	IssuedTo(bookID uuid.UUID) (core.IssueRecord, bool)
}

// Journal records every decided event, successful or not.
type Journal interface {
	Record(ctx context.Context, event core.DomainEvent) error
}

// Librarian enforces the issue and return rules between the catalog and the ledger.
type Librarian struct {
	catalog Catalog
	ledger  Ledger
	journal Journal
	logger  eventstore.Logger
}

// Option configures a Librarian.
type Option func(*Librarian)

// WithJournal makes the Librarian journal each decided event before applying it.
func WithJournal(journal Journal) Option {
	return func(l *Librarian) {
		l.journal = journal
	}
}

// WithLogger sets the logger for the Librarian.
func WithLogger(logger eventstore.Logger) Option {
	return func(l *Librarian) {
		l.logger = logger
	}
}

// New creates a Librarian working on the given catalog and ledger.
func New(catalog Catalog, ledger Ledger, opts ...Option) (*Librarian, error) {
	if catalog == nil {
		return nil, ErrNilCatalog
	}

	if ledger == nil {
		return nil, ErrNilLedger
	}

	l := &Librarian{
		catalog: catalog,
		ledger:  ledger,
	}

	for _, opt := range opts {
		opt(l)
	}

	return l, nil
}

// IssueBook lends the first available book whose title contains command.Title.
// On core.Issued the book is unavailable and the ledger holds a new record;
// on any other outcome nothing changed.
func (l *Librarian) IssueBook(ctx context.Context, command IssueBook) (core.Outcome, error) {
	if err := validateRequest(command.Title, command.Reader); err != nil {
		return core.OutcomeUndecided, err
	}

	candidates := l.catalog.SearchByTitle(command.Title)
	result := DecideIssue(candidates, command)

	if err := l.record(ctx, command.CommandType(), command.Title, command.Reader, result); err != nil {
		return core.OutcomeUndecided, err
	}

	if !result.ChangesState() {
		return result.Outcome, nil
	}

	book, ok := issuedCandidate(candidates, result.Event)
	if !ok {
		return core.OutcomeUndecided, ErrApplyingDecisionFailed
	}

	if err := l.catalog.SetAvailability(book.BookID, false); err != nil {
		return core.OutcomeUndecided, errors.Join(ErrApplyingDecisionFailed, err)
	}

	book.Available = false
	l.ledger.RecordIssued(book, command.Reader, command.OccurredAt)

	return result.Outcome, nil
}

// ReturnBook takes back the book whose title equals command.Title, if it is issued to command.Reader.
// Among several copies with that title the one issued to the reader is taken back.
// On core.Returned the book is available again and its ledger record is gone;
// on any other outcome nothing changed.
func (l *Librarian) ReturnBook(ctx context.Context, command ReturnBook) (core.Outcome, error) {
	if err := validateRequest(command.Title, command.Reader); err != nil {
		return core.OutcomeUndecided, err
	}

	book, activeRecord := l.returnCandidate(l.catalog.SearchByExactTitle(command.Title), command.Reader)
	result := DecideReturn(book, activeRecord, command)

	if err := l.record(ctx, command.CommandType(), command.Title, command.Reader, result); err != nil {
		return core.OutcomeUndecided, err
	}

	if !result.ChangesState() {
		return result.Outcome, nil
	}

	if err := l.catalog.SetAvailability(book.BookID, true); err != nil {
		return core.OutcomeUndecided, errors.Join(ErrApplyingDecisionFailed, err)
	}

	l.ledger.RecordReturned(book.BookID, command.Reader.TicketNumber)

	return result.Outcome, nil
}

// returnCandidate picks the copy issued to reader, falling back to the first match and its record, if any.
func (l *Librarian) returnCandidate(matches []core.Book, reader core.Reader) (*core.Book, *core.IssueRecord) {
	if len(matches) == 0 {
		return nil, nil
	}

	for _, match := range matches {
		if record, ok := l.ledger.IssuedTo(match.BookID); ok && record.Matches(match.BookID, reader.TicketNumber) {
			return &match, &record
		}
	}

	first := matches[0]
	if record, ok := l.ledger.IssuedTo(first.BookID); ok {
		return &first, &record
	}

	return &first, nil
}

func issuedCandidate(candidates []core.Book, event core.DomainEvent) (core.Book, bool) {
	issued, ok := event.(core.BookIssuedToReader)
	if !ok {
		return core.Book{}, false
	}

	idx := slices.IndexFunc(candidates, func(b core.Book) bool {
		return b.BookID == issued.BookID
	})

	if idx < 0 {
		return core.Book{}, false
	}

	return candidates[idx], true
}

func validateRequest(title string, reader core.Reader) error {
	return errors.Join(core.ValidateTitle(title), core.ValidateReader(reader))
}

// record journals the decided event. Nothing may change before it succeeded.
func (l *Librarian) record(
	ctx context.Context,
	commandType string,
	title string,
	reader core.Reader,
	result core.DecisionResult,
) error {

	if l.logger != nil {
		args := []any{
			logAttrCommand, commandType,
			logAttrTitle, title,
			logAttrReader, reader.TicketNumber,
			logAttrOutcome, result.Outcome.String(),
		}

		if result.Reason != nil {
			args = append(args, logAttrFailReason, result.Reason.Error())
		}

		l.logger.Debug(logMsgDecided, args...)
	}

	if l.journal == nil {
		return nil
	}

	return l.journal.Record(ctx, result.Event)
}
