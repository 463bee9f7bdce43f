package robot

import "errors"

var (
	// ErrQueueFull is returned by Submit when the command queue is full.
	ErrQueueFull = errors.New("robot: command queue full")

	// ErrClosed is returned by Submit after Close.
	ErrClosed = errors.New("robot: closed")
)
