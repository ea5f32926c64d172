package comm

import (
	"context"
	"sync"
	"time"

	"github.com/golang/glog"
)

// Result is the result of a command using Do.
type Result struct {
	Err   error
	Reply Frame
}

// Client provides topside operations over a Link.
type Client struct {
	link     *Link
	cmdsHead *Command
	cmdsTail *Command
	cmdsLock sync.Mutex
}

// Command represents a pending command waiting for reply.
type Command struct {
	request  Frame
	resultCh chan Result
	next     *Command
}

// Request returns the frame sent, with its sequence number.
func (c *Command) Request() Frame {
	return c.request
}

// ResultChan returns the chan to retrieve result.
func (c *Command) ResultChan() <-chan Result {
	return c.resultCh
}

func (c *Command) matches(reply Frame) bool {
	if reply.Command == CmdInvalid {
		return reply.Value2 == c.request.Command
	}
	if reply.Command != ExpectedReply(c.request.Command) {
		return false
	}
	if c.request.Command == CmdSetMotor {
		return reply.Value1 == c.request.Value1
	}
	return true
}

// NewClient creates client and wraps the link.
func NewClient(link *Link) *Client {
	c := &Client{link: link}
	link.Handler = c
	return c
}

// Link gets wrapped Link.
func (c *Client) Link() *Link {
	return c.link
}

// DoWith sends a command and expects a result in the provided chan.
func (c *Client) DoWith(f Frame, ch chan Result) *Command {
	cmd := &Command{resultCh: ch}

	c.cmdsLock.Lock()
	defer c.cmdsLock.Unlock()
	sent, err := c.link.Send(f)
	cmd.request = sent
	if err != nil {
		cmd.resultCh <- Result{Err: err}
		return cmd
	}
	if c.cmdsHead == nil {
		c.cmdsHead = cmd
	} else {
		c.cmdsTail.next = cmd
	}
	c.cmdsTail = cmd
	return cmd
}

// Do sends a command and returns a Command for result.
func (c *Client) Do(f Frame) *Command {
	return c.DoWith(f, make(chan Result, 1))
}

// HandleFrame implements FrameHandler.
func (c *Client) HandleFrame(ctx context.Context, reply Frame) *Frame {
	c.cmdsLock.Lock()
	head := c.cmdsHead
	curr := c.cmdsHead
	for ; curr != nil; curr = curr.next {
		if curr.matches(reply) {
			if c.cmdsHead = curr.next; c.cmdsHead == nil {
				c.cmdsTail = nil
			}
			curr.next = nil
			break
		}
	}
	c.cmdsLock.Unlock()
	if curr == nil {
		glog.V(2).Infof("unexpected reply %s", reply)
		return nil
	}
	for head != curr {
		next := head.next
		head.resultCh <- Result{Err: ErrNoReply}
		head = next
	}
	if reply.Command == CmdInvalid {
		curr.resultCh <- Result{Err: &CommandError{Code: reply.Value2, Value: reply.Value1}, Reply: reply}
	} else {
		curr.resultCh <- Result{Reply: reply}
	}
	return nil
}

// Abandon removes a command from the pending queue so later replies
// are matched against newer commands only. It returns false if the
// command is no longer pending.
func (c *Client) Abandon(cmd *Command) bool {
	c.cmdsLock.Lock()
	defer c.cmdsLock.Unlock()
	var prev *Command
	for curr := c.cmdsHead; curr != nil; prev, curr = curr, curr.next {
		if curr != cmd {
			continue
		}
		if prev == nil {
			c.cmdsHead = curr.next
		} else {
			prev.next = curr.next
		}
		if c.cmdsTail == curr {
			c.cmdsTail = prev
		}
		curr.next = nil
		return true
	}
	return false
}

// Pending returns the number of commands waiting for reply.
func (c *Client) Pending() (n int) {
	c.cmdsLock.Lock()
	for curr := c.cmdsHead; curr != nil; curr = curr.next {
		n++
	}
	c.cmdsLock.Unlock()
	return
}

// Exec sends a command and waits for its reply. The command is
// abandoned if ctx is done first.
func (c *Client) Exec(ctx context.Context, f Frame) (Frame, error) {
	cmd := c.Do(f)
	select {
	case r := <-cmd.ResultChan():
		return r.Reply, r.Err
	case <-ctx.Done():
		if !c.Abandon(cmd) {
			// the reply raced with cancellation.
			r := <-cmd.ResultChan()
			return r.Reply, r.Err
		}
		return Frame{}, ctx.Err()
	}
}

// Establish performs the handshake.
func (c *Client) Establish(ctx context.Context) error {
	_, err := c.Exec(ctx, Frame{Command: CmdEstablish, Value1: MagicValue1, Value2: MagicValue2})
	return err
}

// SetMotor sets the target of a thruster channel and returns the
// value applied by the vehicle.
func (c *Client) SetMotor(ctx context.Context, channel, raw byte) (byte, error) {
	reply, err := c.Exec(ctx, Frame{Command: CmdSetMotor, Value1: channel, Value2: raw})
	return reply.Value2, err
}

// SetCamera selects the camera.
func (c *Client) SetCamera(ctx context.Context, index byte) error {
	_, err := c.Exec(ctx, Frame{Command: CmdSetCamera, Value1: index})
	return err
}

// ReadSensor reads one sensor value.
func (c *Client) ReadSensor(ctx context.Context, id byte) (byte, error) {
	reply, err := c.Exec(ctx, Frame{Command: CmdReadSensor, Value1: id})
	return reply.Value2, err
}

// Blink turns on the status indicator for d, in BlinkUnit steps.
func (c *Client) Blink(ctx context.Context, d time.Duration) error {
	_, err := c.Exec(ctx, Frame{Command: CmdBlink, Value2: BlinkValue(d)})
	return err
}

// BlinkValue converts a duration to the value2 of a blink frame.
func BlinkValue(d time.Duration) byte {
	n := d / BlinkUnit
	if n > 0xff {
		n = 0xff
	} else if n < 1 && d > 0 {
		n = 1
	}
	return byte(n)
}

// Run wraps Link.Run to implement Runnable.
func (c *Client) Run(ctx context.Context) error {
	return c.link.Run(ctx)
}
