package websocket

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	fx "github.com/robotalks/rov.go/pkg/framework"
	"github.com/robotalks/rov.go/pkg/l1"
	"github.com/robotalks/rov.go/pkg/l1/comm"
	"github.com/robotalks/rov.go/pkg/l1/msgs"
)

func startServer(t *testing.T, ctx context.Context, info l1.ControllerInfo) (*Server, string) {
	srv := NewServer("127.0.0.1:0", info)
	loop := fx.NewLoop()
	loop.Interval = 10 * time.Millisecond
	loop.Add(srv)
	loop.AddController(fx.PrLvControl, fx.ControlFunc(func(cc fx.ControlContext) error {
		cc.Messages().ProcessMessages(fx.ProcessMessageFunc(func(mctx fx.MessageProcessingContext) {
			if cmdMsg, ok := mctx.CurrentMessage().(*l1.CommandMsg); ok {
				if _, ok := cmdMsg.Command.Msg().(*msgs.ThrusterStop); ok {
					mctx.MessageTaken()
					cmdMsg.Command.Done(msgs.NewCommandOK())
				}
			}
		}))
		return nil
	}))
	loop.Add(&comm.UnsupportedCommands{})
	go loop.Run(ctx)

	waitCtx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	addr, err := srv.ListenAddr(waitCtx)
	require.NoError(t, err)
	return srv, "ws://" + addr.String()
}

func TestServerDiscoverAndCommand(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	info := l1.ControllerInfo{
		Ref:  l1.ControllerRef{Type: "rov", ID: "test"},
		Meta: l1.ControllerMeta{Description: "test vehicle"},
	}
	srv, url := startServer(t, ctx, info)

	connector, err := NewConnector(url)
	require.NoError(t, err)
	infos, err := connector.Discover(ctx)
	require.NoError(t, err)
	require.Equal(t, []l1.ControllerInfo{info}, infos)

	_, err = connector.Connect(ctx, l1.ControllerRef{Type: "rov", ID: "other"})
	require.Error(t, err)

	conn, err := connector.Connect(ctx, info.Ref)
	require.NoError(t, err)
	topside := fx.NewLoop()
	topside.Interval = 10 * time.Millisecond
	topside.Add(conn.(fx.LoopAdder))
	go topside.Run(ctx)

	select {
	case r := <-conn.DoCommand(&msgs.ThrusterStop{}).ResultChan():
		require.NoError(t, r.Err)
		require.IsType(t, &msgs.CommandOK{}, r.Msg)
	case <-time.After(time.Second):
		t.Fatal("command timeout")
	}
	require.Equal(t, 1, srv.Clients())

	select {
	case r := <-conn.DoCommand(&msgs.Blink{DurationMs: 100}).ResultChan():
		require.Error(t, r.Err)
	case <-time.After(time.Second):
		t.Fatal("command timeout")
	}
}

func TestNewConnectorScheme(t *testing.T) {
	_, err := NewConnector("mqtt://localhost:1883")
	require.Error(t, err)
	c, err := NewConnector("wss://rov.local:8443/ignored")
	require.NoError(t, err)
	require.Equal(t, "https://rov.local:8443/info", c.httpURL(InfoPath))
}
