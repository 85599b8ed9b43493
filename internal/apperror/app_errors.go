package apperror

import "errors"

var (
	ErrInvalidCoordinate = errors.New("coordinate is outside the board")
	ErrSessionNotFound   = errors.New("session not found")
	ErrUnknownAction     = errors.New("unknown action")
)
