package mqtt

import (
	"context"
	"encoding/json"
	"time"

	"github.com/golang/glog"

	fx "github.com/robotalks/rov.go/pkg/framework"
	"github.com/robotalks/rov.go/pkg/l1"
	"github.com/robotalks/rov.go/pkg/l1/comm"
)

// ClientIDPrefix prefixes the MQTT client ID of a vehicle.
const ClientIDPrefix = "rov:"

// Registrar implements l1.Registrar using MQTT.
// The vehicle info is published retained on type/id/meta and cleared
// by the will message when the connection drops.
type Registrar struct {
	Queue *Queue
	Info  l1.ControllerInfo

	meta      []byte
	registrar comm.Registrar
}

// NewRegistrar creates a Registrar.
func NewRegistrar(brokerURL string, info l1.ControllerInfo) (*Registrar, error) {
	meta, err := json.Marshal(&info)
	if err != nil {
		return nil, err
	}
	broker, err := ParseBrokerURL(brokerURL)
	if err != nil {
		return nil, err
	}
	broker.Options.SetBinaryWill(broker.TopicPrefix+metaTopic(info.Ref), nil, 1, true)
	if broker.Options.ClientID == "" {
		broker.Options.SetClientID(ClientIDPrefix + info.Ref.Name())
	}
	r := &Registrar{
		Queue: broker.NewQueue(),
		Info:  info,
		meta:  meta,
	}
	r.Queue.OnConnect = func(q *Queue) {
		q.PubWith(metaTopic(r.Info.Ref), r.meta, 1, true)
	}
	r.registrar.Init(NewPacketReadWriter(r.Queue).ForController(info.Ref))
	return r, nil
}

func metaTopic(ref l1.ControllerRef) string {
	return ref.Name() + "/meta"
}

// SendEvent implements Registrar.
func (r *Registrar) SendEvent(ctx context.Context, msg fx.Message) error {
	return r.registrar.SendEvent(ctx, msg)
}

// AddToLoop implements LoopAdder.
func (r *Registrar) AddToLoop(loop *fx.Loop) {
	loop.Add(&r.registrar)
	loop.AddRunnable(fx.NamedRun("mqtt", r))
}

// Run implements Runnable.
func (r *Registrar) Run(ctx context.Context) error {
	// auto reconnect keeps retrying when the broker is not up yet
	if token := r.Queue.Connect(); token.WaitTimeout(5*time.Second) && token.Error() != nil {
		glog.Warningf("mqtt connect error: %v", token.Error())
	}
	<-ctx.Done()
	r.Queue.PubWith(metaTopic(r.Info.Ref), nil, 1, true).WaitTimeout(time.Second)
	r.Queue.Close()
	return ctx.Err()
}
