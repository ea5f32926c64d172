package vehicle

import (
	"context"
	"io"
	"net"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	fx "github.com/robotalks/rov.go/pkg/framework"
	"github.com/robotalks/rov.go/pkg/l0/comm"
	"github.com/robotalks/rov.go/pkg/l0/hw/sim"
	"github.com/robotalks/rov.go/pkg/l0/thruster"
)

type vehicleTestEnv struct {
	t       *testing.T
	vehicle *Vehicle
	board   *sim.Board
	loop    *fx.Loop
	topside net.Conn
	now     time.Time
	cancel  context.CancelFunc
	done    chan error
}

func newVehicleTestEnv(t *testing.T) *vehicleTestEnv {
	board := sim.NewBoard()
	gov, err := thruster.NewConfig().NewGovernor(board)
	require.NoError(t, err)
	a, b := net.Pipe()
	env := &vehicleTestEnv{
		t:       t,
		vehicle: New(a, gov, Hardware{Camera: board, Indicator: board, Sensors: board}).WithMetrics(NewMetrics()),
		board:   board,
		loop:    fx.NewLoop(),
		topside: b,
		now:     time.Unix(1000, 0),
		done:    make(chan error, 1),
	}
	require.NoError(t, env.vehicle.Init())
	env.loop.Add(env.vehicle)
	ctx, cancel := context.WithCancel(context.Background())
	env.cancel = cancel
	go func() {
		env.done <- env.vehicle.Run(ctx)
	}()
	return env
}

func (e *vehicleTestEnv) stop() {
	e.cancel()
	e.topside.Close()
	<-e.done
}

func (e *vehicleTestEnv) write(b []byte) {
	e.topside.SetWriteDeadline(time.Now().Add(time.Second))
	_, err := e.topside.Write(b)
	require.NoError(e.t, err)
}

func (e *vehicleTestEnv) read() comm.Frame {
	var buf [comm.FrameSize]byte
	e.topside.SetReadDeadline(time.Now().Add(time.Second))
	_, err := io.ReadFull(e.topside, buf[:])
	require.NoError(e.t, err)
	f, err := comm.DecodeFrame(buf[:])
	require.NoError(e.t, err)
	return f
}

func (e *vehicleTestEnv) exchange(f comm.Frame) comm.Frame {
	e.write(f.Bytes())
	return e.read()
}

func (e *vehicleTestEnv) tick() {
	e.loop.RunIteration(context.Background(), e.now)
	e.now = e.now.Add(e.vehicle.Governor.Config().TickPeriod)
}

func (e *vehicleTestEnv) current(ch int) int {
	c, err := e.vehicle.Governor.Channel(ch)
	require.NoError(e.t, err)
	return c.Current
}

func TestSetMotorRampsToMax(t *testing.T) {
	env := newVehicleTestEnv(t)
	defer env.stop()

	reply := env.exchange(comm.Frame{Command: comm.CmdSetMotor, Value1: 2, Value2: 255})
	require.Equal(t, comm.Frame{Command: comm.CmdMotorAck, Value1: 2, Value2: 254}, reply)

	ticks := 0
	for env.current(2) != 1900 {
		env.tick()
		ticks++
		require.LessOrEqual(t, ticks, 100)
	}
	require.Equal(t, 400/20, ticks)
	for _, p := range env.board.Pulses() {
		require.LessOrEqual(t, p.US, 1900)
		require.GreaterOrEqual(t, p.US, 1100)
	}
	us, ok := env.board.LastPulse(2)
	require.True(t, ok)
	require.Equal(t, 1900, us)

	env.tick()
	require.Equal(t, 1900, env.current(2))
}

func TestTickCadenceIndependentOfIterations(t *testing.T) {
	env := newVehicleTestEnv(t)
	defer env.stop()

	env.exchange(comm.Frame{Command: comm.CmdSetMotor, Value1: 0, Value2: 255})
	env.tick()
	require.Equal(t, 1520, env.current(0))
	// extra iterations inside the same period, e.g. TriggerNext
	env.loop.RunIteration(context.Background(), env.now.Add(-10*time.Millisecond))
	env.loop.RunIteration(context.Background(), env.now.Add(-20*time.Millisecond))
	require.Equal(t, 1520, env.current(0))
	env.tick()
	require.Equal(t, 1540, env.current(0))
}

func TestUnknownOpcodesGetInvalidReply(t *testing.T) {
	env := newVehicleTestEnv(t)
	defer env.stop()

	known := map[byte]bool{0x00: true, 0x10: true, 0x20: true, 0x33: true, 0x40: true, 0x80: true}
	seq := env.vehicle.Link.Seq().Current()
	for op := 0; op < 256; op++ {
		if known[byte(op)] {
			continue
		}
		reply := env.exchange(comm.Frame{Command: byte(op), Value1: 7, Value2: 9})
		require.Equal(t, comm.CmdInvalid, reply.Command)
		require.Equal(t, byte(op), reply.Value2)
		require.Equal(t, seq, reply.Seq)
		seq = seq.Next()
	}
}

func TestCorruptedFrameDropped(t *testing.T) {
	env := newVehicleTestEnv(t)
	defer env.stop()

	bad := comm.Frame{Command: comm.CmdSetMotor, Value1: 1, Value2: 255}.Bytes()
	bad[2] ^= 0x01
	env.write(bad)
	reply := env.exchange(comm.Frame{Command: comm.CmdEstablish, Value1: comm.MagicValue1, Value2: comm.MagicValue2})
	require.Equal(t, comm.CmdEstablish, reply.Command)
	require.Equal(t, comm.Seq(0), reply.Seq)

	ch, err := env.vehicle.Governor.Channel(1)
	require.NoError(t, err)
	require.Equal(t, 1500, ch.Target)
}

func TestLinkFailureStopsThrusters(t *testing.T) {
	env := newVehicleTestEnv(t)
	env.exchange(comm.Frame{Command: comm.CmdSetMotor, Value1: 3, Value2: 255})
	env.tick()
	require.Equal(t, 1520, env.current(3))

	env.topside.Close()
	select {
	case err := <-env.done:
		require.Error(t, err)
	case <-time.After(time.Second):
		t.Fatal("link not stopped")
	}
	env.cancel()
	ch, err := env.vehicle.Governor.Channel(3)
	require.NoError(t, err)
	require.Equal(t, 1500, ch.Target)
	env.tick()
	require.Equal(t, 1500, env.current(3))
}

func TestMetricsExported(t *testing.T) {
	env := newVehicleTestEnv(t)
	defer env.stop()

	env.exchange(comm.Frame{Command: comm.CmdSetMotor, Value1: 4, Value2: 255})
	bad := comm.Frame{Command: comm.CmdBlink}.Bytes()
	bad[0] ^= 0x01
	env.write(bad)
	env.exchange(comm.Frame{Command: 0x42})
	env.tick()

	srv := httptest.NewServer(env.vehicle.Metrics.Handler())
	defer srv.Close()
	resp, err := srv.Client().Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	text := string(body)
	for _, line := range []string{
		`rov_link_frames_total{result="ok"} 2`,
		`rov_link_frames_total{result="checksum"} 1`,
		`rov_thruster_pulse_us{channel="4"} 1520`,
		`rov_thruster_pulse_us{channel="0"} 1500`,
	} {
		require.True(t, strings.Contains(text, line), "missing %s", line)
	}
	require.Contains(t, text, `rov_dispatch_total{cmd="SET_MOTOR",reply="MOTOR_ACK"} 1`)
}

func TestSettle(t *testing.T) {
	board := sim.NewBoard()
	conf := thruster.NewConfig()
	conf.TickPeriod = time.Millisecond
	gov, err := conf.NewGovernor(board)
	require.NoError(t, err)
	v := New(nil, gov, Hardware{})
	require.NoError(t, v.Init())
	_, err = gov.SetTarget(0, 0)
	require.NoError(t, err)
	require.NoError(t, gov.TickAll())
	require.Equal(t, 1480, v.Governor.Snapshot()[0].Current)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, v.Settle(ctx))
	require.True(t, gov.Settled())
	us, ok := board.LastPulse(0)
	require.True(t, ok)
	require.Equal(t, 1500, us)
}
