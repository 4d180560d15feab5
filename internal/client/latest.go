package client

import "sync/atomic"

// Latest discards results of superseded requests. Call Begin before each
// request and drop the response unless its ticket is still current.
type Latest struct {
	gen atomic.Uint64
}

type Ticket struct {
	l   *Latest
	gen uint64
}

func (l *Latest) Begin() Ticket {
	return Ticket{l: l, gen: l.gen.Add(1)}
}

// Current reports whether no request began after this one.
func (t Ticket) Current() bool {
	return t.l.gen.Load() == t.gen
}
