// Package robot runs the behavior core on a single control loop and exposes
// it to the outside world.
//
// Consumers should depend only on the small interfaces below: the serial
// link only submits commands, the web layer also reads snapshots and tunes
// settings.
package robot

// Commander queues command words for the control loop.
type Commander interface {
	Submit(cmd string) error
}

// StatusSource provides status snapshots.
type StatusSource interface {
	Snapshot() Snapshot
}

// Tuner changes runtime settings.
type Tuner interface {
	SetRampStep(step int)
	RampStep() int
}

// Controller is the composite interface for remote control.
type Controller interface {
	Commander
	StatusSource
	Tuner
}

// Ensure Robot implements Controller
var _ Controller = (*Robot)(nil)
