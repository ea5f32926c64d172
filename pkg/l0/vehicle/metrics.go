package vehicle

import (
	"context"
	"net/http"
	"strconv"

	"github.com/golang/glog"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	fx "github.com/robotalks/rov.go/pkg/framework"
	"github.com/robotalks/rov.go/pkg/l0/comm"
	"github.com/robotalks/rov.go/pkg/l0/thruster"
)

// Metrics exports link, dispatch and thruster state to Prometheus.
// It implements comm.LinkObserver and DispatchObserver.
type Metrics struct {
	Registry *prometheus.Registry

	Frames     *prometheus.CounterVec // labels: result=ok|checksum|error
	Dispatches *prometheus.CounterVec // labels: cmd, reply
	SeqGaps    prometheus.Counter
	PulseUs    *prometheus.GaugeVec // labels: channel
}

// NewMetrics creates Metrics with its own registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := &Metrics{
		Registry: reg,
		Frames: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "rov_link_frames_total",
			Help: "Frames received on the link by decode result.",
		}, []string{"result"}),
		Dispatches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "rov_dispatch_total",
			Help: "Dispatched frames by command and reply.",
		}, []string{"cmd", "reply"}),
		SeqGaps: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "rov_link_seq_gaps_total",
			Help: "Inbound frames whose sequence didn't follow the previous one.",
		}),
		PulseUs: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "rov_thruster_pulse_us",
			Help: "Pulse width written to the ESC in microseconds.",
		}, []string{"channel"}),
	}
	reg.MustRegister(m.Frames, m.Dispatches, m.SeqGaps, m.PulseUs)
	return m
}

// FrameReceived implements comm.LinkObserver.
func (m *Metrics) FrameReceived(comm.Frame) {
	m.Frames.WithLabelValues("ok").Inc()
}

// FrameDropped implements comm.LinkObserver.
func (m *Metrics) FrameDropped(raw []byte, err error) {
	if comm.IsChecksumError(err) {
		m.Frames.WithLabelValues("checksum").Inc()
	} else {
		m.Frames.WithLabelValues("error").Inc()
	}
}

// SeqGap implements comm.LinkObserver.
func (m *Metrics) SeqGap(expected, actual comm.Seq) {
	m.SeqGaps.Inc()
}

// Dispatched implements DispatchObserver.
func (m *Metrics) Dispatched(req, reply comm.Frame) {
	m.Dispatches.WithLabelValues(comm.CommandName(req.Command), comm.CommandName(reply.Command)).Inc()
}

// ObserveChannels records the pulse written for each channel.
func (m *Metrics) ObserveChannels(channels []thruster.Channel, center int) {
	for _, ch := range channels {
		m.PulseUs.WithLabelValues(strconv.Itoa(ch.Index)).Set(float64(ch.Output(center)))
	}
}

// Handler returns the HTTP handler exposing the metrics.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{Registry: m.Registry})
}

// Server returns a Runnable serving /metrics on addr.
func (m *Metrics) Server(addr string) fx.Runnable {
	return fx.NamedRun("metrics", fx.RunFunc(func(ctx context.Context) error {
		mux := http.NewServeMux()
		mux.Handle("/metrics", m.Handler())
		srv := &http.Server{Addr: addr, Handler: mux}
		glog.Infof("metrics on %s/metrics", addr)
		err := fx.RunWithContextCancel(ctx, func() { srv.Close() }, srv.ListenAndServe)
		if err == http.ErrServerClosed {
			err = nil
		}
		return err
	}))
}
