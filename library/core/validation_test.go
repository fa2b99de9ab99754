package core_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/AntonStoeckl/library-circulation-go/library/core"
)

func Test_ValidateBook(t *testing.T) {
	testCases := []struct {
		description string
		book        core.Book
		valid       bool
	}{
		{description: "complete", book: core.BuildBook("Гарри Поттер", "Дж.К. Роулинг", "Фэнтези", "12345"), valid: true},
		{description: "empty title", book: core.BuildBook("", "Дж.К. Роулинг", "Фэнтези", "12345")},
		{description: "blank author", book: core.BuildBook("Гарри Поттер", "   ", "Фэнтези", "12345")},
		{description: "empty genre", book: core.BuildBook("Гарри Поттер", "Дж.К. Роулинг", "", "12345")},
		{description: "empty isbn", book: core.BuildBook("Гарри Поттер", "Дж.К. Роулинг", "Фэнтези", "")},
	}

	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			// act
			err := core.ValidateBook(tc.book)

			// assert
			if tc.valid {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, core.ErrInvalidBook)
			}
		})
	}
}

func Test_ValidateReader(t *testing.T) {
	assert.NoError(t, core.ValidateReader(core.BuildReader("Ернар", "Алимов", "123")))
	assert.ErrorIs(t, core.ValidateReader(core.BuildReader("", "Алимов", "123")), core.ErrInvalidReader)
	assert.ErrorIs(t, core.ValidateReader(core.BuildReader("Ернар", "\t", "123")), core.ErrInvalidReader)
	assert.ErrorIs(t, core.ValidateReader(core.BuildReader("Ернар", "Алимов", "")), core.ErrInvalidReader)
}

func Test_ValidateTitle(t *testing.T) {
	assert.NoError(t, core.ValidateTitle("Война и мир"))
	assert.ErrorIs(t, core.ValidateTitle(""), core.ErrInvalidTitle)
	assert.ErrorIs(t, core.ValidateTitle("  "), core.ErrInvalidTitle)
}
