package domain

import "errors"

// Sentinel errors shared by services and adapters. Callers match them with errors.Is.
var (
	// ErrCompletionUnavailable means every candidate model failed or returned empty text.
	ErrCompletionUnavailable = errors.New("completion unavailable")

	// ErrMalformedCompletion means the completion text could not be turned into a plan.
	ErrMalformedCompletion = errors.New("malformed completion output")

	// ErrInvalidProfile means a required profile field is missing.
	ErrInvalidProfile = errors.New("invalid profile")

	// ErrUnauthenticated means the request carried no usable identity.
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrInvalidState means a state payload does not have the persisted shape.
	ErrInvalidState = errors.New("invalid state payload")

	// ErrStateNotFound is returned by stores when no snapshot exists for a user.
	ErrStateNotFound = errors.New("state not found")
)
