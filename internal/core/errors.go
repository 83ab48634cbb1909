package core

import "errors"

var (
	// ErrUserNotFound is returned when a user ID is absent from the
	// presence index or the directory.
	ErrUserNotFound = errors.New("user not found")

	// ErrNoMailRecord is returned by MailLog.Get when no record exists
	// for the requested user.
	ErrNoMailRecord = errors.New("mail record not found")
)
