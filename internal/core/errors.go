package core

import "errors"

// Failure taxonomy for the generation pipeline and its surrounding CRUD.
// Services wrap these with fmt.Errorf("%w: ...") detail; the API layer maps
// them to HTTP statuses and never leaks the detail to clients.
var (
	// ErrValidation rejects missing or malformed input before any I/O.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound covers entities that do not exist or do not belong to the
	// calling principal.
	ErrNotFound = errors.New("not found")

	// ErrUnauthorized covers a missing principal and forbidden operations such
	// as deleting a workspace-bound chat through the standalone path.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrAlreadyExists covers uniqueness conflicts (duplicate workspace name).
	ErrAlreadyExists = errors.New("already exists")

	// ErrUpstreamFetch covers remote blob retrieval failures. No retry is
	// performed; retry policy belongs to the caller.
	ErrUpstreamFetch = errors.New("upstream fetch failed")

	// ErrGenerationParse means the model output did not conform to the
	// declared schema. Terminal: nothing is persisted.
	ErrGenerationParse = errors.New("generation output did not match schema")

	// ErrGenerationTimeout means the model call exceeded its deadline.
	ErrGenerationTimeout = errors.New("generation timed out")

	// ErrPartialPersistence means the parent artifact was created but its
	// child records failed, so operators can reconcile.
	ErrPartialPersistence = errors.New("artifact partially persisted")
)
