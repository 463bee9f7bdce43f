package link

import "errors"

// ErrLineTooLong reports a line cut at MaxLine bytes. The truncated line is
// still delivered.
var ErrLineTooLong = errors.New("link: line too long")
