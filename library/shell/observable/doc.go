// Package observable decorates the librarian with metrics, tracing and logging
// while the librarian itself stays free of observability code.
//
// The wrapper is applied at wiring time:
//
//	desk, err := librarian.New(books, issued, librarian.WithJournal(journal))
//
//	observed, err := observable.NewLibrarianWrapper(
//		desk,
//		observable.WithMetrics(metricsCollector),
//		observable.WithTracing(tracingCollector),
//		observable.WithContextualLogging(contextualLogger),
//	)
//
//	outcome, err := observed.IssueBook(ctx, command)
//
// Every observability concern is optional. The outcome's string form becomes the business_outcome
// attribute; outcomes that change nothing are counted with the "no_effect" status.
package observable
