package eventstore_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/AntonStoeckl/library-circulation-go/eventstore"
)

//nolint:funlen
func Test_FilterBuilder_ValidCombinations(t *testing.T) {
	tests := []struct {
		name     string
		build    func() eventstore.Filter
		validate func(t *testing.T, filter eventstore.Filter)
	}{
		{
			name: "matching_any_event_creates_empty_filter",
			build: func() eventstore.Filter {
				return eventstore.BuildEventFilter().MatchingAnyEvent()
			},
			validate: func(t *testing.T, f eventstore.Filter) {
				assert.Empty(t, f.Items())
				assert.True(t, f.MatchesAnyEvent())
			},
		},
		{
			name: "event_types_are_sorted_and_deduplicated",
			build: func() eventstore.Filter {
				return eventstore.BuildEventFilter().
					Matching().
					AnyEventTypeOf("BookReturnedByReader", "", "BookIssuedToReader", "BookReturnedByReader").
					Finalize()
			},
			validate: func(t *testing.T, f eventstore.Filter) {
				assert.Len(t, f.Items(), 1)
				assert.Equal(t, []string{"BookIssuedToReader", "BookReturnedByReader"}, f.Items()[0].EventTypes())
				assert.Empty(t, f.Items()[0].Predicates())
				assert.False(t, f.MatchesAnyEvent())
			},
		},
		{
			name: "partial_predicates_are_dropped",
			build: func() eventstore.Filter {
				return eventstore.BuildEventFilter().
					Matching().
					AnyPredicateOf(eventstore.P("ReaderTicket", "123"), eventstore.P("", "x"), eventstore.P("BookID", "")).
					Finalize()
			},
			validate: func(t *testing.T, f eventstore.Filter) {
				assert.Len(t, f.Items(), 1)
				assert.Equal(t, []eventstore.FilterPredicate{eventstore.P("ReaderTicket", "123")}, f.Items()[0].Predicates())
				assert.False(t, f.Items()[0].AllPredicatesMustMatch())
			},
		},
		{
			name: "event_types_and_all_predicates",
			build: func() eventstore.Filter {
				return eventstore.BuildEventFilter().
					Matching().
					AnyEventTypeOf("BookIssuedToReader").
					AndAllPredicatesOf(eventstore.P("ReaderTicket", "123"), eventstore.P("BookID", "b-1")).
					Finalize()
			},
			validate: func(t *testing.T, f eventstore.Filter) {
				assert.Len(t, f.Items(), 1)
				item := f.Items()[0]
				assert.Equal(t, []string{"BookIssuedToReader"}, item.EventTypes())
				assert.Equal(t, "BookID", item.Predicates()[0].Key(), "predicates should be sorted by key")
				assert.Equal(t, "ReaderTicket", item.Predicates()[1].Key())
				assert.True(t, item.AllPredicatesMustMatch())
			},
		},
		{
			name: "predicates_and_event_types",
			build: func() eventstore.Filter {
				return eventstore.BuildEventFilter().
					Matching().
					AnyPredicateOf(eventstore.P("BookID", "b-1")).
					AndAnyEventTypeOf("BookReturnedByReader").
					Finalize()
			},
			validate: func(t *testing.T, f eventstore.Filter) {
				assert.Len(t, f.Items(), 1)
				assert.Equal(t, []string{"BookReturnedByReader"}, f.Items()[0].EventTypes())
				assert.Len(t, f.Items()[0].Predicates(), 1)
			},
		},
		{
			name: "multiple_items_are_or_ed",
			build: func() eventstore.Filter {
				return eventstore.BuildEventFilter().
					Matching().
					AnyEventTypeOf("BookIssuedToReader").
					AndAnyPredicateOf(eventstore.P("BookID", "b-1")).
					OrMatching().
					AnyEventTypeOf("BookReturnedByReader").
					Finalize()
			},
			validate: func(t *testing.T, f eventstore.Filter) {
				assert.Len(t, f.Items(), 2)
				assert.Equal(t, []string{"BookIssuedToReader"}, f.Items()[0].EventTypes())
				assert.Equal(t, []string{"BookReturnedByReader"}, f.Items()[1].EventTypes())
				assert.Empty(t, f.Items()[1].Predicates())
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.validate(t, tt.build())
		})
	}
}

func Test_FilterBuilder_IsImmutableBetweenSteps(t *testing.T) {
	// arrange
	base := eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf("BookIssuedToReader")

	// act
	withBook := base.AndAnyPredicateOf(eventstore.P("BookID", "b-1")).Finalize()
	withoutBook := base.Finalize()

	// assert
	assert.Len(t, withBook.Items()[0].Predicates(), 1)
	assert.Empty(t, withoutBook.Items()[0].Predicates())
}
