package wstgorilla

import (
	"fmt"
	"sync/atomic"
)

// ConnStats keeps track of currently open and total accepted session
// counts for an upgrade endpoint.
type ConnStats struct {
	count int32
	open  int32
}

// New adds one to the total session count and returns the new total,
// usable as a session sequence number.
func (c *ConnStats) New() int32 {
	return atomic.AddInt32(&c.count, 1)
}

// Open adds one to the currently open session count.
func (c *ConnStats) Open() {
	atomic.AddInt32(&c.open, 1)
}

// Close subtracts one from the currently open session count.
func (c *ConnStats) Close() {
	atomic.AddInt32(&c.open, -1)
}

// NumOpen returns the currently open session count.
func (c *ConnStats) NumOpen() int32 {
	return atomic.LoadInt32(&c.open)
}

// Total returns the total session count so far.
func (c *ConnStats) Total() int32 {
	return atomic.LoadInt32(&c.count)
}

func (c *ConnStats) String() string {
	return fmt.Sprintf("[%d/%d]", atomic.LoadInt32(&c.open), atomic.LoadInt32(&c.count))
}
