// Package helper provides test doubles shared by the circulation desk tests:
// a capturing slog.Handler and spies for the eventstore observability interfaces.
package helper
