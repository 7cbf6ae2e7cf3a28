// Package metrics exposes container sizes to Prometheus. Any container in
// this module (and anything else with a Len method) can be registered under
// a name; the collector reports one gauge sample per registered container
// at scrape time.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sasha-s/go-deadlock"
)

// Sizer is the one capability the collector needs. Every container in this
// module satisfies it.
type Sizer interface {
	Len() int
}

// Collector is a prometheus.Collector reporting the entry count of each
// registered container as a gauge labeled with the container's name.
type Collector struct {
	desc *prometheus.Desc

	mu         deadlock.RWMutex
	containers map[string]Sizer
}

// NewCollector constructs a Collector whose metric is named
// <namespace>_container_entries.
func NewCollector(namespace string) *Collector {
	return &Collector{
		desc: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "container_entries"),
			"Number of entries currently held by the container.",
			[]string{"container"},
			nil,
		),
		containers: make(map[string]Sizer),
	}
}

// Register adds a container under name, replacing any container previously
// registered under the same name.
func (c *Collector) Register(name string, s Sizer) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.containers[name] = s
}

// Unregister drops the container registered under name, reporting whether
// one was registered.
func (c *Collector) Unregister(name string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.containers[name]
	delete(c.containers, name)
	return ok
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.desc
}

// Collect implements prometheus.Collector. Each Len call takes the
// container's own lock, so a scrape briefly contends with container users.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for name, s := range c.containers {
		ch <- prometheus.MustNewConstMetric(c.desc, prometheus.GaugeValue, float64(s.Len()), name)
	}
}
