package dashboard

import (
	"math/rand/v2"
	"sync/atomic"
	"time"
)

// IDSource hands out notification ids. Ids are practically unique within a
// session; nothing may depend on their ordering.
type IDSource interface {
	NextID() int64
}

// SequenceIDs is a per-session counter. It is the default source.
type SequenceIDs struct {
	next atomic.Int64
}

// NewSequenceIDs returns a counter whose first id is start.
func NewSequenceIDs(start int64) *SequenceIDs {
	s := &SequenceIDs{}
	s.next.Store(start)
	return s
}

func (s *SequenceIDs) NextID() int64 {
	return s.next.Add(1) - 1
}

// ClockIDs derives ids from the wall clock in seconds followed by three
// random digits in [100, 999]. Two ids issued in the same second may collide.
type ClockIDs struct {
	now    func() time.Time
	suffix func() int64
}

// NewClockIDs returns a clock-based source reading time.Now.
func NewClockIDs() *ClockIDs {
	return &ClockIDs{
		now:    time.Now,
		suffix: func() int64 { return 100 + rand.Int64N(900) },
	}
}

func (c *ClockIDs) NextID() int64 {
	return c.now().Unix()*1000 + c.suffix()
}

// NewIDSource builds the source named by kind ("sequence" or "clock").
// Unknown kinds fall back to a sequence.
func NewIDSource(kind string) IDSource {
	if kind == "clock" {
		return NewClockIDs()
	}
	return NewSequenceIDs(firstGeneratedID)
}
