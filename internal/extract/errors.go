package extract

import "errors"

var (
	// ErrTitleMissing is returned when the content has no <title> tag.
	// It is a hard failure for the page.
	ErrTitleMissing = errors.New("title tag missing")

	// ErrDescriptionMissing is returned alongside an empty description
	// when the content has no description meta tag. It is a soft failure.
	ErrDescriptionMissing = errors.New("description meta tag missing")

	// ErrDescriptionMalformed is returned alongside an empty description
	// when the description meta tag has no closing sequence.
	ErrDescriptionMalformed = errors.New("description meta tag malformed")

	// ErrMalformedURL is returned when a URL does not have the
	// scheme://host shape needed to compute its domain.
	ErrMalformedURL = errors.New("malformed url")
)
