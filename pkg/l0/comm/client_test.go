package comm

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type clientTestEnv struct {
	t        *testing.T
	stream   *chanReadWriter
	client   *Client
	commands []*Command
	peerSeq  SeqTracker
}

func newClientTestEnv(t *testing.T) *clientTestEnv {
	env := &clientTestEnv{t: t, stream: newChanReadWriter()}
	env.client = NewClient(NewLink(env.stream))
	return env
}

func (e *clientTestEnv) run(fns ...func(string)) {
	ctx, cancel := context.WithCancel(context.TODO())
	defer cancel()
	go e.client.Run(ctx)
	for n, fn := range fns {
		name := fmt.Sprintf("step-%d", n)
		e.t.Logf("START %s", name)
		fn(name)
		e.t.Logf("STOP %s", name)
	}
}

func (e *clientTestEnv) clientDo(cmd, v1, v2 byte) func(string) {
	return func(name string) {
		e.commands = append(e.commands, e.client.Do(Frame{Command: cmd, Value1: v1, Value2: v2}))
	}
}

func (e *clientTestEnv) expect(cmd, v1, v2 byte, seq Seq) func(string) {
	return func(name string) {
		f := e.stream.expectFrame(e.t)
		require.Equalf(e.t, Frame{Command: cmd, Value1: v1, Value2: v2, Seq: seq}, f, "%s frame mismatch", name)
	}
}

func (e *clientTestEnv) reply(cmd, v1, v2 byte) func(string) {
	return func(name string) {
		e.stream.inject(Frame{Command: cmd, Value1: v1, Value2: v2, Seq: e.peerSeq.Next()}.Bytes()...)
	}
}

func (e *clientTestEnv) nextResult(name string) (r Result) {
	require.NotEmptyf(e.t, e.commands, "%s commands empty", name)
	cmd := e.commands[0]
	e.commands = e.commands[1:]
	select {
	case r = <-cmd.ResultChan():
	case <-time.After(500 * time.Millisecond):
		e.t.Fatalf("%s: timeout", name)
	}
	return
}

func (e *clientTestEnv) result(cmd, v1, v2 byte) func(string) {
	return func(name string) {
		r := e.nextResult(name)
		require.NoErrorf(e.t, r.Err, "%s unexpected err", name)
		require.Equalf(e.t, cmd, r.Reply.Command, "%s command mismatch", name)
		require.Equalf(e.t, v1, r.Reply.Value1, "%s value1 mismatch", name)
		require.Equalf(e.t, v2, r.Reply.Value2, "%s value2 mismatch", name)
	}
}

func (e *clientTestEnv) resultErr(expected error) func(string) {
	return func(name string) {
		r := e.nextResult(name)
		require.Equalf(e.t, expected, r.Err, "%s error mismatch", name)
	}
}

func TestClient(t *testing.T) {
	testCases := []struct {
		name  string
		logic func(*clientTestEnv) []func(string)
	}{
		{
			name: "establish",
			logic: func(e *clientTestEnv) []func(string) {
				return []func(string){
					e.clientDo(CmdEstablish, MagicValue1, MagicValue2),
					e.expect(CmdEstablish, MagicValue1, MagicValue2, 0),
					e.reply(CmdEstablish, MagicValue1, MagicValue2),
					e.result(CmdEstablish, MagicValue1, MagicValue2),
				}
			},
		},
		{
			name: "motor ack",
			logic: func(e *clientTestEnv) []func(string) {
				return []func(string){
					e.clientDo(CmdSetMotor, 3, 255),
					e.clientDo(CmdSetMotor, 4, 0),
					e.expect(CmdSetMotor, 3, 255, 0),
					e.expect(CmdSetMotor, 4, 0, 1),
					e.reply(CmdMotorAck, 3, 254),
					e.reply(CmdMotorAck, 4, 0),
					e.result(CmdMotorAck, 3, 254),
					e.result(CmdMotorAck, 4, 0),
				}
			},
		},
		{
			name: "rejected",
			logic: func(e *clientTestEnv) []func(string) {
				return []func(string){
					e.clientDo(CmdSetMotor, 9, 100),
					e.expect(CmdSetMotor, 9, 100, 0),
					e.reply(CmdInvalid, 9, CmdSetMotor),
					e.resultErr(&CommandError{Code: CmdSetMotor, Value: 9}),
				}
			},
		},
		{
			name: "skipped command",
			logic: func(e *clientTestEnv) []func(string) {
				return []func(string){
					e.clientDo(CmdSetCamera, 1, 0),
					e.clientDo(CmdBlink, 0, 10),
					e.expect(CmdSetCamera, 1, 0, 0),
					e.expect(CmdBlink, 0, 10, 1),
					e.reply(CmdBlink, 0, 10),
					e.resultErr(ErrNoReply),
					e.result(CmdBlink, 0, 10),
				}
			},
		},
		{
			name: "unexpected reply ignored",
			logic: func(e *clientTestEnv) []func(string) {
				return []func(string){
					e.clientDo(CmdSetCamera, 2, 0),
					e.expect(CmdSetCamera, 2, 0, 0),
					e.reply(CmdMotorAck, 1, 1),
					e.reply(CmdSetCamera, 2, 0),
					e.result(CmdSetCamera, 2, 0),
				}
			},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			env := newClientTestEnv(t)
			env.run(tc.logic(env)...)
		})
	}
}

func TestClientHelpers(t *testing.T) {
	env := newClientTestEnv(t)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	go env.client.Run(ctx)

	go func() {
		f := env.stream.expectFrame(t)
		env.stream.inject(Frame{Command: CmdMotorAck, Value1: f.Value1, Value2: 250}.Bytes()...)
	}()
	applied, err := env.client.SetMotor(ctx, 0, 255)
	require.NoError(t, err)
	require.Equal(t, byte(250), applied)

	go func() {
		f := env.stream.expectFrame(t)
		env.stream.inject(InvalidReply(f.Value1, f.Command).Bytes()...)
	}()
	_, err = env.client.ReadSensor(ctx, 7)
	require.Equal(t, &CommandError{Code: CmdReadSensor, Value: 7}, err)
}

func TestBlinkValue(t *testing.T) {
	require.Equal(t, byte(0), BlinkValue(0))
	require.Equal(t, byte(1), BlinkValue(time.Millisecond))
	require.Equal(t, byte(75), BlinkValue(750*time.Millisecond))
	require.Equal(t, byte(255), BlinkValue(time.Minute))
}

func TestClientAbandonsTimedOutCommand(t *testing.T) {
	env := newClientTestEnv(t)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	go env.client.Run(ctx)

	// the first request is lost on the way and never acknowledged.
	shortCtx, shortCancel := context.WithTimeout(ctx, 20*time.Millisecond)
	_, err := env.client.SetMotor(shortCtx, 2, 100)
	shortCancel()
	require.Equal(t, context.DeadlineExceeded, err)
	require.Equal(t, 0, env.client.Pending())
	require.Equal(t, byte(100), env.stream.expectFrame(t).Value2)

	go func() {
		f := env.stream.expectFrame(t)
		env.stream.inject(Frame{Command: CmdMotorAck, Value1: f.Value1, Value2: f.Value2}.Bytes()...)
	}()
	applied, err := env.client.SetMotor(ctx, 2, 200)
	require.NoError(t, err)
	require.Equal(t, byte(200), applied)
	require.Equal(t, 0, env.client.Pending())
}

func TestClientAbandon(t *testing.T) {
	env := newClientTestEnv(t)
	first := env.client.Do(Frame{Command: CmdSetMotor, Value1: 0})
	second := env.client.Do(Frame{Command: CmdSetMotor, Value1: 1})
	third := env.client.Do(Frame{Command: CmdSetMotor, Value1: 2})
	require.Equal(t, 3, env.client.Pending())

	require.True(t, env.client.Abandon(third))
	require.True(t, env.client.Abandon(first))
	require.False(t, env.client.Abandon(first))
	require.Equal(t, 1, env.client.Pending())

	env.client.HandleFrame(context.Background(), Frame{Command: CmdMotorAck, Value1: 1, Value2: 7})
	r := <-second.ResultChan()
	require.NoError(t, r.Err)
	require.Equal(t, byte(7), r.Reply.Value2)
	require.Equal(t, 0, env.client.Pending())

	// the queue accepts new commands after being emptied from the tail.
	fourth := env.client.Do(Frame{Command: CmdSetMotor, Value1: 3})
	require.Equal(t, 1, env.client.Pending())
	require.True(t, env.client.Abandon(fourth))
	require.Equal(t, 0, env.client.Pending())
}
