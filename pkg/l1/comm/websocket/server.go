package websocket

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"sync"

	"github.com/golang/glog"
	"golang.org/x/net/websocket"

	fx "github.com/robotalks/rov.go/pkg/framework"
	"github.com/robotalks/rov.go/pkg/l1"
	"github.com/robotalks/rov.go/pkg/l1/comm"
)

// Paths served by Server.
const (
	InfoPath    = "/info"
	MessagePath = "/l1"
)

// Server implements l1.Registrar by accepting websocket clients.
// Each connection gets its own comm.Registrar and events are sent
// to all connections.
type Server struct {
	Addr string
	Info l1.ControllerInfo

	clients  comm.RegistrarMux
	listener net.Listener
	ready    chan struct{}
	once     sync.Once
}

// NewServer creates a Server.
func NewServer(addr string, info l1.ControllerInfo) *Server {
	return &Server{Addr: addr, Info: info}
}

// SendEvent implements Registrar.
func (s *Server) SendEvent(ctx context.Context, msg fx.Message) error {
	return s.clients.SendEvent(ctx, msg)
}

// Clients returns the number of connected clients.
func (s *Server) Clients() int {
	return s.clients.Len()
}

// AddToLoop implements LoopAdder.
func (s *Server) AddToLoop(loop *fx.Loop) {
	loop.AddRunnable(fx.NamedRun("websocket", s))
}

// ListenAddr returns the bound address after Run started listening.
func (s *Server) ListenAddr(ctx context.Context) (net.Addr, error) {
	select {
	case <-s.readyCh():
		return s.listener.Addr(), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (s *Server) readyCh() chan struct{} {
	s.once.Do(func() { s.ready = make(chan struct{}) })
	return s.ready
}

// Run implements Runnable. ctx must carry the loop control.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.Addr)
	if err != nil {
		return err
	}
	s.listener = ln
	close(s.readyCh())
	glog.Infof("websocket registrar listening on %s", ln.Addr())

	mux := http.NewServeMux()
	mux.HandleFunc(InfoPath, s.serveInfo)
	mux.Handle(MessagePath, websocket.Handler(func(conn *websocket.Conn) {
		s.serveConn(ctx, conn)
	}))
	srv := &http.Server{Handler: mux}
	err = fx.RunWithContextCancel(ctx, func() { srv.Close() }, func() error {
		return srv.Serve(ln)
	})
	if err == http.ErrServerClosed {
		err = nil
	}
	return err
}

func (s *Server) serveInfo(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(&s.Info); err != nil {
		glog.Errorf("websocket: write info error: %v", err)
	}
}

func (s *Server) serveConn(ctx context.Context, conn *websocket.Conn) {
	remote := conn.Request().RemoteAddr
	glog.Infof("websocket client %s connected", remote)
	reg := comm.NewRegistrar(New(conn))
	s.clients.Add(reg)
	defer s.clients.Remove(reg)
	err := fx.RunWithContextCloser(ctx, conn, func() error {
		return reg.Run(ctx)
	})
	glog.Infof("websocket client %s disconnected: %v", remote, err)
}
