package domain

import "errors"

var (
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrNotFound           = errors.New("not found")
	ErrInvalidSlot        = errors.New("slot not in template")
	ErrAlreadySigned      = errors.New("slot already signed")
	ErrInvalidToken       = errors.New("invalid token")
	ErrInvalidImageFormat = errors.New("invalid image format")
	ErrInvalidImageData   = errors.New("invalid image data")
	ErrStorage            = errors.New("storage error")
	ErrStorageUnavailable = errors.New("storage unavailable")
)
