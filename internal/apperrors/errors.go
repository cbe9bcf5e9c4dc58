// Package apperrors holds the sentinel errors shared by the delivery core and
// the HTTP layer. Callers wrap them with %w and match with errors.Is.
package apperrors

import "errors"

// Connection admission.
var (
	ErrAuthRequired = errors.New("authentication required")
	ErrInvalidToken = errors.New("invalid token")
	ErrUnknownUser  = errors.New("user not found")
)

// Authorization and validation of chat operations.
var (
	ErrRecipientNotFound = errors.New("recipient not found")
	ErrGroupNotFound     = errors.New("group not found")
	ErrNotAMember        = errors.New("you are not a member of this group")
	ErrInvalidContent    = errors.New("message content is empty or too long")
	ErrInvalidInput      = errors.New("invalid input")
)

// Accounts and group administration.
var (
	ErrEmailTaken         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user does not exist")
	ErrGroupTooLarge      = errors.New("group cannot have more than 3 members")
	ErrUnknownMember      = errors.New("one or more members do not exist")
	ErrNotGroupAdmin      = errors.New("only the group admin can remove members")
	ErrAdminSelfRemoval   = errors.New("admin cannot remove themselves from the group")
	ErrMemberNotFound     = errors.New("user is not a member of this group")
)

// ErrInternal marks unexpected store failures. Its text is the only thing a
// client ever sees about them.
var ErrInternal = errors.New("internal server error")

// PublicMessage returns the client-facing text for err.
func PublicMessage(err error) string {
	for _, known := range []error{
		ErrAuthRequired, ErrInvalidToken, ErrUnknownUser,
		ErrRecipientNotFound, ErrGroupNotFound, ErrNotAMember, ErrInvalidContent,
		ErrEmailTaken, ErrInvalidCredentials, ErrUserNotFound, ErrGroupTooLarge,
		ErrUnknownMember, ErrNotGroupAdmin, ErrAdminSelfRemoval, ErrMemberNotFound,
	} {
		if errors.Is(err, known) {
			return known.Error()
		}
	}
	if errors.Is(err, ErrInvalidInput) {
		return err.Error()
	}
	return ErrInternal.Error()
}
