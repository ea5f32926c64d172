package comm

import "sync"

const seqMask Seq = 0x0f

// Seq is the 4-bit sequence number carried in the upper nibble
// of the last frame byte.
type Seq byte

// Next returns the successor, wrapping 15 to 0.
func (s Seq) Next() Seq {
	return (s + 1) & seqMask
}

// IsValid determines if the value fits in a nibble.
func (s Seq) IsValid() bool {
	return s <= seqMask
}

// SeqTracker hands out sequence numbers for outgoing frames.
// The zero value starts from 0.
type SeqTracker struct {
	seq  Seq
	lock sync.Mutex
}

// Next returns the sequence number to stamp and advances.
func (t *SeqTracker) Next() Seq {
	t.lock.Lock()
	defer t.lock.Unlock()
	s := t.seq
	t.seq = s.Next()
	return s
}

// Current returns the number the next call to Next will return.
func (t *SeqTracker) Current() Seq {
	t.lock.Lock()
	defer t.lock.Unlock()
	return t.seq
}
