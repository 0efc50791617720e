package domain

import "errors"

var (
	ErrUserNotFound     = errors.New("user not found")
	ErrEmailTaken       = errors.New("email already registered")
	ErrMobileTaken      = errors.New("mobile number already registered")
	ErrAlreadyPurchased = errors.New("course already purchased")
	ErrIntentNotFound   = errors.New("order intent not found")
)
