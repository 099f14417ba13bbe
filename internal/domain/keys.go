package domain

import "errors"

type CtxKey string

const (
	KeyUserID       CtxKey = "UserID"
	KeyUserEmail    CtxKey = "Email"
	KeyUserRole     CtxKey = "Role"
	KeyUserTimezone CtxKey = "Timezone"
)

// Repository-level errors, translated into apperror kinds by the usecases
var (
	ErrNotFound        = errors.New("resource not found")
	ErrVersionConflict = errors.New("resource was modified concurrently")
	ErrAlreadyAccepted = errors.New("invitee already holds an accepted invitation")
	ErrDuplicate       = errors.New("resource already exists")
)
