package edidio

import (
	"context"
	"errors"
)

// error kinds reported by the transport, matched with errors.Is
var (
	ErrConnection    = errors.New("edidio: not connected")
	ErrCommunication = errors.New("edidio: communication error")
	ErrTimeout       = errors.New("edidio: timeout")
)

// Client delivers message sequences to the eDIDIO controller.
type Client interface {
	// SendSequence delivers the messages in order. Either the whole
	// sequence is written or an error is returned; there is no retry here,
	// the caller's next command is the retry path.
	SendSequence(ctx context.Context, msgs []Message) error
	// Connected reports whether the transport currently has a connection.
	Connected() bool
}
