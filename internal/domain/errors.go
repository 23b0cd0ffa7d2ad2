package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrTransport is returned when the question source could not be reached or answered with a failure status.
	ErrTransport = errors.New("question source unavailable")
	// ErrEmptyResult indicates a topic resolved to zero questions.
	ErrEmptyResult = errors.New("no questions available")
	// ErrMalformedQuestion indicates a question record is missing fields or has an answer outside its options.
	ErrMalformedQuestion = errors.New("malformed question")
	// ErrSubjectNotFound is returned when a subject is not part of the catalog.
	ErrSubjectNotFound = errors.New("subject not found")
	// ErrTopicNotFound is returned when a source key is not listed under the selected subject.
	ErrTopicNotFound = errors.New("topic not found")
	// ErrInvalidCatalog indicates the configured catalog cannot drive the menus.
	ErrInvalidCatalog = errors.New("invalid catalog")
	// ErrInvalidTheme indicates a theme value other than light or dark.
	ErrInvalidTheme = errors.New("invalid theme")
)

// UserMessage maps a load failure to the text shown on the quiz screen.
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrEmptyResult):
		return "No questions found for this topic. Check the sheet name and its data."
	case errors.Is(err, ErrMalformedQuestion):
		return fmt.Sprintf("This topic contains an invalid question (%v).", err)
	default:
		return fmt.Sprintf("API error: check the question source URL and deployment. (%v)", err)
	}
}
