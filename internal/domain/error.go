package domain

import "errors"

var (
	// Common domain errors
	ErrNotFound           = errors.New("entity not found")
	ErrAlreadyExists      = errors.New("entity already exists")
	ErrInvalidArgument    = errors.New("invalid argument")
	ErrSizeNotOffered     = errors.New("account size not offered for plan")
	ErrFunnelExpired      = errors.New("funnel session expired or not started")
	ErrStepNotPassable    = errors.New("step predicate not satisfied")
	ErrUsernameRequired   = errors.New("display name must be set first")
	ErrUsernameSet        = errors.New("display name already set")
	ErrInvalidUsername    = errors.New("display name must be 3-20 chars, alphanumeric, '-' or '_'")
	ErrNoRecommendation   = errors.New("no recommended account selected")
	ErrOrderNotPending    = errors.New("order is not pending")
	ErrInvalidExecContext = errors.New("invalid executor context passed to repository")
)
