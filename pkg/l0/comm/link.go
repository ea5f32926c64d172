package comm

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/golang/glog"
)

// FrameHandler is called when a valid frame is received.
// A non-nil return value is sent back as the reply.
type FrameHandler interface {
	HandleFrame(context.Context, Frame) *Frame
}

// HandleFrameFunc is func type of FrameHandler.
type HandleFrameFunc func(context.Context, Frame) *Frame

// HandleFrame implements FrameHandler.
func (f HandleFrameFunc) HandleFrame(ctx context.Context, frame Frame) *Frame {
	return f(ctx, frame)
}

// LinkObserver receives link level events.
type LinkObserver interface {
	FrameReceived(Frame)
	FrameDropped(raw []byte, err error)
	SeqGap(expected, actual Seq)
}

// Link reads frames from a stream, hands them to Handler and
// writes back replies.
type Link struct {
	ReadWriter io.ReadWriter
	Handler    FrameHandler
	Observer   LinkObserver
	// FrameGap drops a partial frame when no byte follows within
	// this duration. Zero disables it.
	FrameGap time.Duration

	seq      SeqTracker
	lastIn   Seq
	hasIn    bool
	sendLock sync.Mutex

	gapTimer <-chan time.Time
	parser   Parser
}

// NewLink creates a Link.
func NewLink(rw io.ReadWriter) *Link {
	return &Link{ReadWriter: rw}
}

// Seq exposes the outgoing sequence tracker.
func (l *Link) Seq() *SeqTracker {
	return &l.seq
}

// Send stamps the frame with the next sequence number and writes it.
func (l *Link) Send(f Frame) (Frame, error) {
	l.sendLock.Lock()
	defer l.sendLock.Unlock()
	f.Seq = l.seq.Next()
	if _, err := f.WriteTo(l.ReadWriter); err != nil {
		return f, err
	}
	glog.V(4).Infof("link sent %s", f)
	return f, nil
}

// Run processes the Link in the background until the stream fails or
// ctx is canceled.
func (l *Link) Run(ctx context.Context) error {
	l.hasIn = false
	l.apply(ctx, l.parser.Reset())

	byteCh, errCh := make(chan byte), make(chan error, 1)
	subCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go l.readLoop(subCtx, byteCh, errCh)
	for {
		select {
		case b := <-byteCh:
			if err := l.apply(ctx, l.parser.Parse(b)); err != nil {
				return err
			}
		case err := <-errCh:
			return err
		case <-ctx.Done():
			return ctx.Err()
		case <-l.gapTimer:
			l.apply(ctx, l.parser.Timeout())
		}
	}
}

func (l *Link) readLoop(ctx context.Context, byteCh chan byte, errCh chan error) {
	buf := make([]byte, 1)
	for {
		n, err := l.ReadWriter.Read(buf)
		if err != nil {
			errCh <- err
			return
		}
		if n == 0 {
			continue
		}
		select {
		case byteCh <- buf[0]:
		case <-ctx.Done():
			return
		}
	}
}

func (l *Link) apply(ctx context.Context, pr ParseResult) error {
	if l.FrameGap > 0 {
		switch pr.WhatAboutTimer() {
		case TimerRestart:
			l.gapTimer = time.After(l.FrameGap)
		case TimerStop:
			l.gapTimer = nil
		}
	}
	if pr.Discarded > 0 {
		glog.V(2).Infof("link dropped %d bytes of partial frame", pr.Discarded)
	}
	if pr.Err != nil {
		glog.Warningf("link dropped frame % x: %v", pr.Raw, pr.Err)
		if o := l.Observer; o != nil {
			o.FrameDropped(pr.Raw, pr.Err)
		}
		return nil
	}
	if pr.Frame == nil {
		return nil
	}
	frame := *pr.Frame
	l.checkSeq(frame.Seq)
	glog.V(4).Infof("link received %s", frame)
	if o := l.Observer; o != nil {
		o.FrameReceived(frame)
	}
	if h := l.Handler; h != nil {
		if reply := h.HandleFrame(ctx, frame); reply != nil {
			if _, err := l.Send(*reply); err != nil {
				return err
			}
		}
	}
	return nil
}

func (l *Link) checkSeq(seq Seq) {
	if l.hasIn {
		if expected := l.lastIn.Next(); seq != expected {
			glog.V(2).Infof("link sequence gap: expect %d, got %d", expected, seq)
			if o := l.Observer; o != nil {
				o.SeqGap(expected, seq)
			}
		}
	}
	l.lastIn, l.hasIn = seq, true
}
