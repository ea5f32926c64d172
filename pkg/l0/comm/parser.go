package comm

// TimerAction tells what to do with the frame gap timer.
type TimerAction int

// Timer actions.
const (
	TimerNoChange TimerAction = iota
	TimerRestart
	TimerStop
)

// ParseResult is the result after parsing one byte.
type ParseResult struct {
	// Frame is set when a complete frame passed the checksum.
	Frame *Frame
	// Err is set when a complete frame failed decoding.
	Err error
	// Raw is the completed frame bytes, set together with Frame or Err.
	Raw []byte
	// Pending is the number of bytes buffered towards the next frame.
	Pending int
	// Discarded is the number of partial bytes thrown away on timeout.
	Discarded int
}

// Complete determines if a full frame has been consumed.
func (r ParseResult) Complete() bool {
	return r.Frame != nil || r.Err != nil
}

// WhatAboutTimer decides the action on the frame gap timer.
func (r ParseResult) WhatAboutTimer() TimerAction {
	if r.Pending > 0 {
		return TimerRestart
	}
	return TimerStop
}

// Parser assembles frames from a byte stream.
type Parser struct {
	buf [FrameSize]byte
	len int
}

// Reset discards buffered bytes.
func (p *Parser) Reset() ParseResult {
	p.len = 0
	return ParseResult{}
}

// Pending returns the number of buffered bytes.
func (p *Parser) Pending() int {
	return p.len
}

// Parse consumes one byte. A frame is only produced after exactly
// FrameSize bytes have been consumed.
func (p *Parser) Parse(b byte) (r ParseResult) {
	p.buf[p.len] = b
	p.len++
	if p.len < FrameSize {
		r.Pending = p.len
		return
	}
	p.len = 0
	r.Raw = append([]byte(nil), p.buf[:]...)
	f, err := DecodeFrame(r.Raw)
	if err != nil {
		r.Err = err
		return
	}
	r.Frame = &f
	return
}

// Timeout is called when the gap between bytes of a frame is too long.
// The partial frame is dropped.
func (p *Parser) Timeout() ParseResult {
	n := p.len
	p.len = 0
	return ParseResult{Discarded: n}
}
