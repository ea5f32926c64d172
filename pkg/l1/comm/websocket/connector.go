package websocket

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"golang.org/x/net/websocket"

	"github.com/robotalks/rov.go/pkg/l1"
	"github.com/robotalks/rov.go/pkg/l1/comm"
)

// Connector implements l1.Connector for a single vehicle serving websocket.
type Connector struct {
	baseURL url.URL
}

// NewConnector creates a Connector from ws://host:port or wss://host:port.
func NewConnector(rawURL string) (*Connector, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, err
	}
	if u.Scheme != "ws" && u.Scheme != "wss" {
		return nil, fmt.Errorf("unsupported websocket scheme %q", u.Scheme)
	}
	return &Connector{baseURL: url.URL{Scheme: u.Scheme, Host: u.Host}}, nil
}

func (c *Connector) httpURL(path string) string {
	u := c.baseURL
	if u.Scheme == "wss" {
		u.Scheme = "https"
	} else {
		u.Scheme = "http"
	}
	u.Path = path
	return u.String()
}

// Discover implements Connector.
func (c *Connector) Discover(ctx context.Context) ([]l1.ControllerInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.httpURL(InfoPath), nil)
	if err != nil {
		return nil, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("discover: %s", resp.Status)
	}
	var info l1.ControllerInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, err
	}
	return []l1.ControllerInfo{info}, nil
}

// Connect implements Connector.
func (c *Connector) Connect(ctx context.Context, ref l1.ControllerRef) (l1.ControllerConn, error) {
	infos, err := c.Discover(ctx)
	if err != nil {
		return nil, err
	}
	if infos[0].Ref != ref {
		return nil, fmt.Errorf("controller %s not found, server is %s", ref.Name(), infos[0].Ref.Name())
	}
	u := c.baseURL
	u.Path = MessagePath
	config, err := websocket.NewConfig(u.String(), c.httpURL("/"))
	if err != nil {
		return nil, err
	}
	ws, err := config.DialContext(ctx)
	if err != nil {
		return nil, err
	}
	conn := &ControllerConn{}
	conn.Init(New(ws))
	return conn, nil
}

// ControllerConn implements ControllerConn over websocket.
type ControllerConn struct {
	comm.ControllerConn
}
