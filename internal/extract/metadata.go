package extract

import (
	"regexp"
	"strings"
)

const (
	titleOpen       = "<title>"
	titleClose      = "</title>"
	descriptionOpen = `<meta name="description" content="`
)

// descriptionClose matches the closing quote of the content attribute
// followed by an optional self-close: `">`, `"/>`, `" />`, `" / >`.
var descriptionClose = regexp.MustCompile(`"\s?/?\s?>`)

// Metadata is the result of extracting a page's title and description.
type Metadata struct {
	// Title is the raw text between the title delimiters.
	Title string

	// Description is the description meta content, or empty.
	Description string

	// DescriptionErr holds the soft failure that left Description empty.
	// Nil when a description was found.
	DescriptionErr error
}

// Title returns everything after the first <title> up to the next </title>.
// When no closing tag follows, the remainder of the content is returned.
// Inner markup is not interpreted. It returns ErrTitleMissing when the
// content has no <title> at all.
func Title(content string) (string, error) {
	_, rest, found := strings.Cut(content, titleOpen)
	if !found {
		return "", ErrTitleMissing
	}
	title, _, _ := strings.Cut(rest, titleClose)
	return title, nil
}

// Description returns the value of the first description meta tag.
// It never fails hard: when the tag is absent or has no closing sequence it
// returns an empty string together with ErrDescriptionMissing or
// ErrDescriptionMalformed.
func Description(content string) (string, error) {
	_, rest, found := strings.Cut(content, descriptionOpen)
	if !found {
		return "", ErrDescriptionMissing
	}
	loc := descriptionClose.FindStringIndex(rest)
	if loc == nil {
		return "", ErrDescriptionMalformed
	}
	return rest[:loc[0]], nil
}

// ParseMetadata extracts both title and description.
// The only error it returns is ErrTitleMissing; description problems are
// reported through Metadata.DescriptionErr.
func ParseMetadata(content string) (Metadata, error) {
	title, err := Title(content)
	if err != nil {
		return Metadata{}, err
	}
	description, descErr := Description(content)
	return Metadata{
		Title:          title,
		Description:    description,
		DescriptionErr: descErr,
	}, nil
}
