package model

import "errors"

var (
	ErrInvalidInput     = errors.New("invalid input")
	ErrInvalidLogin     = errors.New("login response missing token or user")
	ErrUnanswered       = errors.New("all questions must be answered")
	ErrNoQuestions      = errors.New("course has no exam questions")
	ErrUnsupportedImage = errors.New("unsupported image format")
	ErrImageTooLarge    = errors.New("image exceeds maximum upload size")
	ErrNotFound         = errors.New("not found")
	ErrAttemptNotFound  = errors.New("exam attempt not found or expired")
	ErrAttemptUngraded  = errors.New("exam attempt has not been graded")
	ErrAttemptSaved     = errors.New("exam result already saved")
)
