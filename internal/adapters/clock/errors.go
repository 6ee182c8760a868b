package clock

import "errors"

// ErrLoopClosed is returned by Do after Close.
var ErrLoopClosed = errors.New("event loop closed")
