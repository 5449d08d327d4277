package gforms

import "errors"

var (
	// ErrFormNotFound indicates the form page could not be fetched at all:
	// a network failure, a timeout or a non-2xx status.
	ErrFormNotFound = errors.New("form page not found")

	// ErrSchemaParse indicates the page was fetched but the embedded schema
	// variable is absent or does not have the expected shape.
	ErrSchemaParse = errors.New("form schema cannot be parsed")

	// ErrSubmission indicates the response POST failed or was rejected.
	ErrSubmission = errors.New("form submission failed")

	// ErrInvalidURL indicates the URL does not look like a Google Forms URL.
	ErrInvalidURL = errors.New("invalid google forms url")
)
