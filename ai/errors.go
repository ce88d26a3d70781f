package ai

import "errors"

var (
	// ErrUnsupportedMedia is returned when a backend cannot read a request's media type.
	ErrUnsupportedMedia = errors.New("unsupported media for extraction backend")

	// ErrEmptyResponse is returned when a model returns no content.
	ErrEmptyResponse = errors.New("model returned an empty response")

	// ErrDimensionMismatch is returned when an embedder yields vectors of a
	// different length than it did before.
	ErrDimensionMismatch = errors.New("embedding dimensions changed")

	// ErrUnknownBackend is returned for a Backend value other than openai or gemini.
	ErrUnknownBackend = errors.New("unknown ai backend")
)
