package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// IncrementalCounter counts labelled events.
type IncrementalCounter interface {
	Increment(val ...string)
}

// Counter wraps a CounterVec registered on a specific registry.
type Counter struct {
	Name string
	Help string

	vec *prometheus.CounterVec
}

// Increment adds one to the series identified by the label values.
func (c *Counter) Increment(val ...string) {
	c.vec.WithLabelValues(val...).Inc()
}

// NewCounterWithRegistry creates a counter and registers it on reg.
func NewCounterWithRegistry(reg prometheus.Registerer, name, help string, labels ...string) *Counter {
	counter := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: name,
		Help: help,
	}, labels)

	reg.MustRegister(counter)

	return &Counter{
		Name: name,
		Help: help,
		vec:  counter,
	}
}

type nopCounter struct{}

func (nopCounter) Increment(...string) {}

// Nop returns a counter that records nothing.
func Nop() IncrementalCounter {
	return nopCounter{}
}
