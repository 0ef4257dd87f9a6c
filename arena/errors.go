package arena

import "errors"

// ErrInvalidArgs is returned by New when capacity is zero or negative.
// Alloc returns no error value; it returns nil for a non-positive size.
var ErrInvalidArgs = errors.New("arena: invalid arguments")
