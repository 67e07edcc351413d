package issue

import "errors"

var (
	ErrIssueNotFound     = errors.New("issue not found")
	ErrMissingFields     = errors.New("title and description are required")
	ErrIssueNotDeletable = errors.New("only pending issues can be deleted")
	ErrUnauthorized      = errors.New("unauthorized to access this issue")
	ErrBackwardStatus    = errors.New("status can only move forward: pending, in-progress, resolved")
	ErrAdminNotesDenied  = errors.New("only administrators can set admin notes")
)
