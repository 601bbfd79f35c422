package usecase

import "errors"

// ErrInvalidInput marks request validation failures so the presentation
// layer can map them to a client error instead of a server error.
var ErrInvalidInput = errors.New("invalid input")
