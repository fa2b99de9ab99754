package report

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/AntonStoeckl/library-circulation-go/library/core"
	"github.com/AntonStoeckl/library-circulation-go/library/shell"
)

// DateLayout is the day-first layout of issue dates and journal timestamps.
const DateLayout = "02.01.2006 15:04:05"

// ErrWritingReportFailed wraps every write error of this package.
var ErrWritingReportFailed = errors.New("writing report failed")

// WriteIssuedBooks writes the "issued books" listing: a blank line, the header, then one line per record.
func WriteIssuedBooks(w io.Writer, records []core.IssueRecord) error {
	p := printer{w: w}

	p.printf("\nВыданные книги:\n")

	for _, record := range records {
		p.printf("- %s, читатель: %s, дата: %s\n", record.Title, record.ReaderName, formatDate(record.IssuedAt))
	}

	return p.err
}

// WriteOutcome writes the line a librarian outcome is reported with.
func WriteOutcome(w io.Writer, title string, reader core.Reader, outcome core.Outcome) error {
	p := printer{w: w}

	switch outcome {
	case core.Issued:
		p.printf("%s\n", issuedLine(title, reader.FullName()))
	case core.Returned:
		p.printf("%s\n", returnedLine(title, reader.FullName()))
	case core.Unavailable:
		p.printf("Книга '%s' недоступна.\n", title)
	case core.NotFound:
		p.printf("Книга '%s' не найдена в каталоге.\n", title)
	case core.NotIssued:
		p.printf("Книга '%s' не числится за читателем %s.\n", title, reader.FullName())
	default:
		p.printf("Запрос по книге '%s' не обработан.\n", title)
	}

	return p.err
}

// WriteHistory writes the journal listing: a blank line, the header, then one line per entry.
func WriteHistory(w io.Writer, entries []shell.JournalEntry) error {
	p := printer{w: w}

	p.printf("\nЖурнал операций:\n")

	for _, entry := range entries {
		p.printf("%d. %s %s\n", entry.SequenceNumber, formatDate(entry.Event.HasOccurredAt()), describe(entry.Event))
	}

	return p.err
}

func describe(event core.DomainEvent) string {
	switch e := event.(type) {
	case core.BookIssuedToReader:
		return fmt.Sprintf("выдача: '%s', читатель: %s", e.Title, e.ReaderName)
	case core.BookReturnedByReader:
		return fmt.Sprintf("возврат: '%s', читатель: %s", e.Title, e.ReaderName)
	case core.IssuingBookFailed:
		return fmt.Sprintf("отказ в выдаче: '%s', читатель: %s (%s)", e.Title, e.ReaderName, failureReason(e.Outcome))
	case core.ReturningBookFailed:
		return fmt.Sprintf("отказ в возврате: '%s', читатель: %s (%s)", e.Title, e.ReaderName, failureReason(e.Outcome))
	default:
		return event.EventType()
	}
}

// failureReason turns the outcome stored in a failure event back into words.
// Outcomes written by a newer version are shown as stored.
func failureReason(storedOutcome string) string {
	switch core.OutcomeFromString(storedOutcome) {
	case core.Unavailable:
		return "нет свободных экземпляров"
	case core.NotFound:
		return "нет в каталоге"
	case core.NotIssued:
		return "не числится за читателем"
	default:
		return storedOutcome
	}
}

func issuedLine(title string, readerName string) string {
	return fmt.Sprintf("Книга '%s' выдана читателю %s.", title, readerName)
}

func returnedLine(title string, readerName string) string {
	return fmt.Sprintf("Книга '%s' возвращена читателем %s.", title, readerName)
}

func formatDate(t time.Time) string {
	return t.Local().Format(DateLayout)
}

// printer keeps the first write error and skips every write after it.
type printer struct {
	w   io.Writer
	err error
}

func (p *printer) printf(format string, args ...any) {
	if p.err != nil {
		return
	}

	if _, err := fmt.Fprintf(p.w, format, args...); err != nil {
		p.err = errors.Join(ErrWritingReportFailed, err)
	}
}
