package utils

import "errors"

// ----------------- mealdb ------------------
var (
	ErrMalformedResponse = errors.New("malformed categories response")
	ErrUnexpectedStatus  = errors.New("unexpected response status")
	ErrEmptyBaseURL      = errors.New("base url is empty")
)

// ----------------- category controller ------------------
var (
	ErrControllerStarted  = errors.New("category controller already started")
	ErrControllerDisposed = errors.New("category controller disposed")
	ErrNilCategorySource  = errors.New("category source is nil")
)

// ----------------- category api ------------------
var (
	ErrCategoryNotFound = errors.New("category not found")
)
