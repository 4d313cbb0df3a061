package channel

import (
	"errors"

	"github.com/ezrec/sim6502/translate"
)

var f = translate.From

var (
	// Channel errors
	ErrChannelClosed = errors.New(f("channel closed"))
	ErrCapacity      = errors.New(f("channel capacity must be positive"))
)
