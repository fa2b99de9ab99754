package observable_test

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-circulation-go/eventstore"
	"github.com/AntonStoeckl/library-circulation-go/library/core"
	"github.com/AntonStoeckl/library-circulation-go/library/librarian"
	"github.com/AntonStoeckl/library-circulation-go/library/shell"
	"github.com/AntonStoeckl/library-circulation-go/library/shell/observable"
	"github.com/AntonStoeckl/library-circulation-go/testutil/helper"
)

func Test_NewLibrarianWrapper_RejectsNil(t *testing.T) {
	_, err := observable.NewLibrarianWrapper(nil)

	assert.ErrorIs(t, err, observable.ErrNilLibrarian)
}

func Test_LibrarianWrapper_Outcomes(t *testing.T) {
	testCases := []struct {
		name           string
		outcome        core.Outcome
		err            error
		expectedStatus string
		statusMetric   string
		expectedLog    string
		expectedLevel  string
	}{
		{
			name:           "issued",
			outcome:        core.Issued,
			expectedStatus: shell.StatusSuccess,
			expectedLog:    shell.LogMsgCommandCompleted,
			expectedLevel:  "info",
		},
		{
			name:           "unavailable",
			outcome:        core.Unavailable,
			expectedStatus: shell.StatusNoEffect,
			statusMetric:   shell.CommandNoEffectMetric,
			expectedLog:    shell.LogMsgCommandCompleted,
			expectedLevel:  "info",
		},
		{
			name:           "journal conflict",
			outcome:        core.OutcomeUndecided,
			err:            errors.Join(shell.ErrRecordingJournalEntryFailed, eventstore.ErrConcurrencyConflict),
			expectedStatus: shell.StatusConcurrencyConflict,
			statusMetric:   shell.CommandConcurrencyConflictMetric,
			expectedLog:    shell.LogMsgCommandFailed,
			expectedLevel:  "error",
		},
		{
			name:           "canceled",
			outcome:        core.OutcomeUndecided,
			err:            context.Canceled,
			expectedStatus: shell.StatusCanceled,
			statusMetric:   shell.CommandCanceledMetric,
			expectedLog:    shell.LogMsgCommandFailed,
			expectedLevel:  "error",
		},
		{
			name:           "invalid request",
			outcome:        core.OutcomeUndecided,
			err:            core.ErrInvalidTitle,
			expectedStatus: shell.StatusError,
			expectedLog:    shell.LogMsgCommandFailed,
			expectedLevel:  "error",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// arrange
			stub := &librarianStub{outcome: tc.outcome, err: tc.err}
			metricsCollector := helper.NewMetricsCollectorSpy()
			tracingCollector := helper.NewTracingCollectorSpy()
			contextualLogger := helper.NewContextualLoggerSpy()

			wrapper, err := observable.NewLibrarianWrapper(
				stub,
				observable.WithMetrics(metricsCollector),
				observable.WithTracing(tracingCollector),
				observable.WithContextualLogging(contextualLogger),
			)
			require.NoError(t, err)

			command := librarian.BuildIssueBook("Гарри Поттер", core.BuildReader("Ернар", "Алимов", "T-001"), time.Now())

			// act
			outcome, err := wrapper.IssueBook(context.Background(), command)

			// assert
			assert.Equal(t, tc.outcome, outcome)
			assert.Equal(t, tc.err, err)
			assert.Equal(t, []librarian.IssueBook{command}, stub.issueCalls)

			labels := shell.BuildCommandLabels(librarian.IssueBookCommandType, tc.expectedStatus)
			assert.True(t, metricsCollector.HasCounter(shell.CommandCallsMetric, labels))
			assert.True(t, metricsCollector.HasDuration(shell.CommandDurationMetric, labels))

			if tc.statusMetric != "" {
				assert.True(t, metricsCollector.HasCounter(tc.statusMetric, labels))
			}

			spans := tracingCollector.SpanRecords()
			require.Len(t, spans, 1)
			assert.Equal(t, shell.SpanNameCommand, spans[0].Name)
			assert.Equal(t, tc.expectedStatus, spans[0].Status)
			assert.Equal(t, tc.outcome.String(), spans[0].EndAttributes[shell.LogAttrBusinessOutcome])

			assert.True(t, contextualLogger.HasRecord("info", shell.LogMsgCommandStarted))
			assert.True(t, contextualLogger.HasRecord(tc.expectedLevel, tc.expectedLog))
		})
	}
}

func Test_LibrarianWrapper_ReturnBook_WithBasicLoggerOnly(t *testing.T) {
	// arrange
	stub := &librarianStub{outcome: core.NotIssued}
	logHandler := helper.NewTestLogHandler(false)

	wrapper, err := observable.NewLibrarianWrapper(stub, observable.WithLogging(slog.New(logHandler)))
	require.NoError(t, err)

	command := librarian.BuildReturnBook("Война и мир", core.BuildReader("Ернар", "Алимов", "T-001"), time.Now())

	// act
	outcome, err := wrapper.ReturnBook(context.Background(), command)

	// assert
	require.NoError(t, err)
	assert.Equal(t, core.NotIssued, outcome)
	assert.Equal(t, []librarian.ReturnBook{command}, stub.returnCalls)

	value, ok := logHandler.AttrOf(slog.LevelInfo, shell.LogMsgCommandCompleted, shell.LogAttrBusinessOutcome)
	require.True(t, ok)
	assert.Equal(t, "not_issued", value.String())

	value, ok = logHandler.AttrOf(slog.LevelInfo, shell.LogMsgCommandCompleted, shell.LogAttrCommandType)
	require.True(t, ok)
	assert.Equal(t, librarian.ReturnBookCommandType, value.String())
}

type librarianStub struct {
	outcome     core.Outcome
	err         error
	issueCalls  []librarian.IssueBook
	returnCalls []librarian.ReturnBook
}

func (s *librarianStub) IssueBook(_ context.Context, command librarian.IssueBook) (core.Outcome, error) {
	s.issueCalls = append(s.issueCalls, command)
	return s.outcome, s.err
}

func (s *librarianStub) ReturnBook(_ context.Context, command librarian.ReturnBook) (core.Outcome, error) {
	s.returnCalls = append(s.returnCalls, command)
	return s.outcome, s.err
}
