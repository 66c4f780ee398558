// Package metrics publishes operational counters to StatsD.
package metrics

import (
	"fmt"
	"log/slog"

	"github.com/DataDog/datadog-go/v5/statsd"
)

// Recorder counts operational events. Implementations must be safe for use
// from concurrent requests.
type Recorder interface {
	Incr(name string, tags ...string)
	Close() error
}

// StatsdRecorder publishes counters through the DataDog StatsD client.
type StatsdRecorder struct {
	client *statsd.Client
	logger *slog.Logger
}

func NewStatsdRecorder(addr, namespace string, logger *slog.Logger) (*StatsdRecorder, error) {
	if logger == nil {
		logger = slog.Default()
	}

	client, err := statsd.New(addr, statsd.WithNamespace(namespace+"."))
	if err != nil {
		return nil, fmt.Errorf("create statsd client: %w", err)
	}

	logger.Info("statsd recorder initialized", "address", addr, "namespace", namespace)

	return &StatsdRecorder{
		client: client,
		logger: logger.With("component", "statsd"),
	}, nil
}

func (r *StatsdRecorder) Incr(name string, tags ...string) {
	if err := r.client.Incr(name, tags, 1); err != nil {
		r.logger.Debug("statsd incr failed", "metric", name, "error", err)
	}
}

func (r *StatsdRecorder) Close() error {
	return r.client.Close()
}

// NoOp discards every metric. Used when no StatsD address is configured.
type NoOp struct{}

func (NoOp) Incr(name string, tags ...string) {}
func (NoOp) Close() error                     { return nil }

var (
	_ Recorder = (*StatsdRecorder)(nil)
	_ Recorder = NoOp{}
)
