package data

import "errors"

// Shared sentinel errors for data-layer repositories.
var (
	ErrSavedSearchNotFound = errors.New("saved search not found")
	ErrUserNotFound        = errors.New("user not found")
	ErrTenderNotFound      = errors.New("tender not found")

	ErrInvalidRetentionTable = errors.New("invalid retention table")
)
