package edidio

import "sync/atomic"

// MessageID hands out message ids for outbound frames. One counter is shared
// by every light in the process; ids are strictly increasing and never
// reused, even when lights send concurrently.
type MessageID struct {
	n atomic.Uint32
}

// Next returns the next id, starting from 1.
func (m *MessageID) Next() uint32 {
	return m.n.Add(1)
}
