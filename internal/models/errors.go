package models

import "errors"

// Custom errors
var (
	ErrNoWinner      = errors.New("match has no recorded winner")
	ErrUnknownModel  = errors.New("unknown model id")
	ErrNotFound      = errors.New("record not found")
	ErrDuplicateKey  = errors.New("duplicate key violation")
	ErrInvalidPlayer = errors.New("player does not participate in match")
)
