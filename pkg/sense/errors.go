package sense

import "errors"

// ErrNoEcho is returned by a RangeFinder when the echo never arrived.
var ErrNoEcho = errors.New("no echo")
