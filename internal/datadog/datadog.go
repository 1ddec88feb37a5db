package datadog

import (
	"github.com/DataDog/datadog-go/statsd"
	"github.com/rs/zerolog/log"
)

// Client is the subset of the DogStatsD client this node uses.
type Client interface {
	Gauge(name string, value float64, tags []string, rate float64) error
	Close() error
}

var dogstatsd Client

func InitMetrics(addr, namespace string, tags []string) {
	client, err := statsd.New(addr,
		statsd.WithNamespace(namespace),
		statsd.WithTags(tags),
	)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to create DogStatsD client")
		return
	}
	dogstatsd = client

	log.Info().
		Str("addr", addr).
		Str("namespace", namespace).
		Strs("tags", tags).
		Msg("Datadog metrics initialized")
}

// SetClient replaces the metrics client; tests pass a recorder, nil disables emission.
func SetClient(c Client) {
	dogstatsd = c
}

func Gauge(name string, value float64, tags ...string) {
	if dogstatsd == nil {
		return
	}
	if err := dogstatsd.Gauge(name, value, tags, 1); err != nil {
		log.Warn().Err(err).Str("metric", name).Msg("Failed to emit gauge metric")
	}
}

// Bool emits a gauge of 1 or 0.
func Bool(name string, value bool, tags ...string) {
	v := 0.0
	if value {
		v = 1.0
	}
	Gauge(name, v, tags...)
}

func Close() {
	if dogstatsd == nil {
		return
	}
	if err := dogstatsd.Close(); err != nil {
		log.Warn().Err(err).Msg("Failed to close DogStatsD client")
	}
	dogstatsd = nil
}
