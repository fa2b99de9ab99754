package main

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/library-circulation-go/eventstore/oteladapters"
	"github.com/AntonStoeckl/library-circulation-go/library/catalog"
	"github.com/AntonStoeckl/library-circulation-go/library/core"
	"github.com/AntonStoeckl/library-circulation-go/library/ledger"
	"github.com/AntonStoeckl/library-circulation-go/library/librarian"
	"github.com/AntonStoeckl/library-circulation-go/library/readers"
	"github.com/AntonStoeckl/library-circulation-go/library/shell"
	"github.com/AntonStoeckl/library-circulation-go/library/shell/config"
	"github.com/AntonStoeckl/library-circulation-go/library/shell/observable"
	"github.com/AntonStoeckl/library-circulation-go/library/shell/report"
)

const shutdownTimeout = 5 * time.Second

// desk is the object graph of one run.
type desk struct {
	catalog   *catalog.Catalog
	ledger    *ledger.Ledger
	readers   *readers.Registry
	journal   *shell.Journal
	librarian observable.Librarian
	notifier  *report.Notifier
}

func run(ctx context.Context, cfg config.Config, stdout io.Writer, stderr io.Writer) (err error) {
	tel, err := newTelemetry(ctx, cfg, nil)
	if err != nil {
		return err
	}

	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()

		err = errors.Join(err, tel.shutdown(shutdownCtx))
	}()

	return runDesk(ctx, cfg, tel, stdout, stderr)
}

func runDesk(ctx context.Context, cfg config.Config, tel *telemetry, stdout io.Writer, stderr io.Writer) error {
	logger := oteladapters.NewSlogBridgeLoggerWithHandler(cfg.NewLogHandler(stderr))

	store, closeStore, err := openEventStore(ctx, cfg, logger.With("component", "journal"))
	if err != nil {
		return err
	}
	defer closeStore()

	d, err := newDesk(store, tel, logger, stdout)
	if err != nil {
		return err
	}

	return d.runDemo(shell.WithCorrelationID(ctx, uuid.New()), stdout)
}

func newDesk(store shell.EventStore, tel *telemetry, logger *oteladapters.SlogBridgeLogger, stdout io.Writer) (*desk, error) {
	journal, err := shell.NewJournal(
		store,
		shell.WithJournalMetrics(tel.metricsCollector),
		shell.WithJournalLogger(logger.With("component", "journal")),
	)
	if err != nil {
		return nil, err
	}

	notifier := report.NewNotifier(stdout)
	books := catalog.New(catalog.WithLogger(logger.With("component", "catalog")))
	issued := ledger.New(
		ledger.WithNotifier(notifier),
		ledger.WithLogger(logger.With("component", "ledger")),
	)

	plain, err := librarian.New(
		books,
		issued,
		librarian.WithJournal(journal),
		librarian.WithLogger(logger.With("component", "librarian")),
	)
	if err != nil {
		return nil, err
	}

	observed, err := observable.NewLibrarianWrapper(
		plain,
		observable.WithMetrics(tel.metricsCollector),
		observable.WithTracing(tel.tracingCollector),
		observable.WithContextualLogging(logger),
	)
	if err != nil {
		return nil, err
	}

	return &desk{
		catalog:   books,
		ledger:    issued,
		readers:   readers.NewRegistry(),
		journal:   journal,
		librarian: observed,
		notifier:  notifier,
	}, nil
}

func (d *desk) runDemo(ctx context.Context, stdout io.Writer) error {
	for _, book := range []core.Book{
		core.BuildBook("Гарри Поттер", "Дж.К. Роулинг", "Фэнтези", "12345"),
		core.BuildBook("Война и мир", "Лев Толстой", "Классика", "54321"),
		core.BuildBook("Мастер и Маргарита", "Михаил Булгаков", "Классика", "67890"),
	} {
		if _, err := d.catalog.AddBook(book); err != nil {
			return err
		}
	}

	reader := core.BuildReader("Ернар", "Алимов", "123")
	if err := d.readers.Register(reader); err != nil {
		return err
	}

	if err := d.issue(ctx, stdout, "Гарри Поттер", reader); err != nil {
		return err
	}

	if err := d.issue(ctx, stdout, "Война и мир", reader); err != nil {
		return err
	}

	if err := report.WriteIssuedBooks(stdout, d.ledger.ListIssued()); err != nil {
		return err
	}

	if err := d.giveBack(ctx, stdout, "Гарри Поттер", reader); err != nil {
		return err
	}

	if err := report.WriteIssuedBooks(stdout, d.ledger.ListIssued()); err != nil {
		return err
	}

	history, err := d.journal.History(ctx)
	if err != nil {
		return err
	}

	if err := report.WriteHistory(stdout, history); err != nil {
		return err
	}

	return d.notifier.Err()
}

// issue prints the outcome line itself only when nothing changed; the ledger's notifier
// prints the line of a successful issue.
func (d *desk) issue(ctx context.Context, stdout io.Writer, title string, reader core.Reader) error {
	outcome, err := d.librarian.IssueBook(ctx, librarian.BuildIssueBook(title, reader, time.Now()))
	if err != nil {
		return err
	}

	return writeUnchangedOutcome(stdout, title, reader, outcome)
}

func (d *desk) giveBack(ctx context.Context, stdout io.Writer, title string, reader core.Reader) error {
	outcome, err := d.librarian.ReturnBook(ctx, librarian.BuildReturnBook(title, reader, time.Now()))
	if err != nil {
		return err
	}

	return writeUnchangedOutcome(stdout, title, reader, outcome)
}

func writeUnchangedOutcome(stdout io.Writer, title string, reader core.Reader, outcome core.Outcome) error {
	if outcome.ChangedState() {
		return nil
	}

	return report.WriteOutcome(stdout, title, reader, outcome)
}
