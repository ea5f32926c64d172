package comm_test

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	fx "github.com/robotalks/rov.go/pkg/framework"
	"github.com/robotalks/rov.go/pkg/l1"
	"github.com/robotalks/rov.go/pkg/l1/comm"
	"github.com/robotalks/rov.go/pkg/l1/comm/stream"
	"github.com/robotalks/rov.go/pkg/l1/msgs"
)

type pipeTestEnv struct {
	t       *testing.T
	cancel  context.CancelFunc
	reg     *comm.Registrar
	conn    *comm.ControllerConn
	events  chan fx.Message
	stopped chan struct{}
}

func newPipeTestEnv(t *testing.T) *pipeTestEnv {
	a, b := net.Pipe()
	env := &pipeTestEnv{
		t:       t,
		reg:     comm.NewRegistrar(stream.New(a)),
		conn:    &comm.ControllerConn{},
		events:  make(chan fx.Message, 4),
		stopped: make(chan struct{}),
	}
	env.conn.Init(stream.New(b))

	vehicle := fx.NewLoop()
	vehicle.Interval = 10 * time.Millisecond
	vehicle.Add(env.reg)
	vehicle.AddController(fx.PrLvControl, fx.ControlFunc(env.handleThrusterSet))
	vehicle.Add(&comm.UnsupportedCommands{})

	topside := fx.NewLoop()
	topside.Interval = 10 * time.Millisecond
	topside.Add(env.conn)
	topside.AddController(fx.PrLvControl, fx.ControlFunc(env.collectEvents))

	ctx, cancel := context.WithCancel(context.Background())
	env.cancel = cancel
	runner := fx.NewRunnerWith(ctx).Go(vehicle, topside)
	go func() {
		runner.Wait()
		close(env.stopped)
	}()
	return env
}

func (e *pipeTestEnv) stop() {
	e.cancel()
	select {
	case <-e.stopped:
	case <-time.After(time.Second):
		e.t.Fatal("loops not stopped")
	}
}

func (e *pipeTestEnv) handleThrusterSet(cc fx.ControlContext) error {
	cc.Messages().ProcessMessages(fx.ProcessMessageFunc(func(mctx fx.MessageProcessingContext) {
		cmdMsg, ok := mctx.CurrentMessage().(*l1.CommandMsg)
		if !ok {
			return
		}
		if set, ok := cmdMsg.Command.Msg().(*msgs.ThrusterSet); ok {
			mctx.MessageTaken()
			cmdMsg.Command.Done(&msgs.ThrusterSetReply{Channel: set.Channel, Applied: set.Raw - 1})
		}
	}))
	return nil
}

func (e *pipeTestEnv) collectEvents(cc fx.ControlContext) error {
	cc.Messages().ProcessMessages(fx.ProcessMessageFunc(func(mctx fx.MessageProcessingContext) {
		mctx.MessageTaken()
		e.events <- mctx.CurrentMessage()
	}))
	return nil
}

func (e *pipeTestEnv) do(msg fx.Message) l1.Result {
	select {
	case r := <-e.conn.DoCommand(msg).ResultChan():
		return r
	case <-time.After(time.Second):
		e.t.Fatal("command timeout")
	}
	return l1.Result{}
}

func TestCommandRoundTrip(t *testing.T) {
	env := newPipeTestEnv(t)
	defer env.stop()

	r := env.do(&msgs.ThrusterSet{Channel: 2, Raw: 255})
	require.NoError(t, r.Err)
	require.Equal(t, &msgs.ThrusterSetReply{Channel: 2, Applied: 254}, r.Msg)
	require.Equal(t, 0, env.conn.Pending())
}

func TestUnsupportedCommand(t *testing.T) {
	env := newPipeTestEnv(t)
	defer env.stop()

	r := env.do(&msgs.CameraSelect{Index: 1})
	require.Error(t, r.Err)
	require.Equal(t, msgs.ErrUnsupportedCommand.Error(), r.Err.Error())
}

func TestEventDelivered(t *testing.T) {
	env := newPipeTestEnv(t)
	defer env.stop()

	status := &msgs.ThrusterStatus{Thrusters: []*msgs.ThrusterState{{Channel: 1, CurrentUs: 1520, TargetUs: 1896, Direction: 1}}}
	require.NoError(t, env.reg.SendEvent(context.Background(), status))
	select {
	case msg := <-env.events:
		got, ok := msg.(*msgs.ThrusterStatus)
		require.True(t, ok)
		require.Equal(t, uint32(1520), got.Thrusters[0].CurrentUs)
	case <-time.After(time.Second):
		t.Fatal("event not delivered")
	}
}

func TestSendWrongKind(t *testing.T) {
	p := comm.NewPipe(nil)
	require.Equal(t, comm.ErrNotEvent, p.SendEventMsg(&msgs.ThrusterStop{}))
	require.Equal(t, comm.ErrNotCommand, p.SendCommandMsg(&msgs.ThrusterStatus{}, 1))
}

func TestRegistrarMux(t *testing.T) {
	var mux comm.RegistrarMux
	a, b := &countingRegistrar{}, &countingRegistrar{}
	mux.Add(a, b)
	require.Equal(t, 2, mux.Len())
	require.NoError(t, mux.SendEvent(context.Background(), &msgs.ThrusterStatus{}))
	mux.Remove(a)
	require.Equal(t, 1, mux.Len())
	require.NoError(t, mux.SendEvent(context.Background(), &msgs.ThrusterStatus{}))
	require.Equal(t, 1, a.sent)
	require.Equal(t, 2, b.sent)
}

type countingRegistrar struct {
	sent int
}

func (r *countingRegistrar) SendEvent(context.Context, fx.Message) error {
	r.sent++
	return nil
}
