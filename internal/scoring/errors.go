package scoring

import "errors"

// Validation and upload failure taxonomy. Handlers map these to HTTP
// statuses; everything else is treated as a persistence failure.
var (
	ErrSessionNotFound         = errors.New("game session not found")
	ErrSessionAlreadyValidated = errors.New("game session already validated")
	ErrTraceMalformed          = errors.New("gameplay trace malformed")
	ErrScoreInvalid            = errors.New("score invalid")
	ErrInvalidGame             = errors.New("no scoring strategy registered for game")
)
