package core

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

var (
	// ErrInvalidBook is returned when a book lacks one of its required fields.
	ErrInvalidBook = errors.New("invalid book")

	// ErrInvalidReader is returned when a reader lacks one of its required fields.
	ErrInvalidReader = errors.New("invalid reader")

	// ErrInvalidTitle is returned for a blank title in an issue or return request.
	ErrInvalidTitle = errors.New("invalid title")
)

const presenceRule = "required,notblank"

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		panic(err)
	}

	return v
}

// ValidateBook checks that title, author, genre and ISBN are present.
func ValidateBook(book Book) error {
	if err := validate.Struct(book); err != nil {
		return errors.Join(ErrInvalidBook, err)
	}

	return nil
}

// ValidateReader checks that both names and the ticket number are present.
func ValidateReader(reader Reader) error {
	if err := validate.Struct(reader); err != nil {
		return errors.Join(ErrInvalidReader, err)
	}

	return nil
}

// ValidateTitle checks that a requested title is present.
func ValidateTitle(title string) error {
	if err := validate.Var(title, presenceRule); err != nil {
		return errors.Join(ErrInvalidTitle, err)
	}

	return nil
}
