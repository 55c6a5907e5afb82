package model

import "errors"

var (
	ErrNotFound         = errors.New("not found")
	ErrMissingUserID    = errors.New("session missing user id")
	ErrEmptyCode        = errors.New("code is empty")
	ErrUnrecognizedCode = errors.New("unrecognized code")
	ErrDecryptFailed    = errors.New("failed to decrypt extra info")
	ErrInvalidToken     = errors.New("invalid client token")
)
