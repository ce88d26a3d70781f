package registration

import "errors"

var (
	// ErrRepositoryRequired is returned when a property repository is not provided.
	ErrRepositoryRequired = errors.New("property repository required")

	// ErrAIProviderRequired is returned when an AI provider is not provided.
	ErrAIProviderRequired = errors.New("AI provider required")

	// ErrNoSources is returned when a registration carries no sources.
	ErrNoSources = errors.New("registration has no sources")

	// ErrNothingExtracted is returned when no source could be read as a property description.
	ErrNothingExtracted = errors.New("no source yielded a property description")

	// ErrUnsupportedFile is returned when a media file's type cannot be determined.
	ErrUnsupportedFile = errors.New("unsupported media file")
)
