package model

import "errors"

// Common errors used across the application
var (
	// Session errors
	ErrSessionNotFound  = errors.New("session not found")
	ErrConcurrentUpdate = errors.New("session was updated concurrently")

	// State errors
	ErrInvalidBoard = errors.New("invalid board encoding")
	ErrInvalidState = errors.New("invalid game state")

	// Interaction errors
	ErrInvalidDirection = errors.New("invalid pan direction")
)
