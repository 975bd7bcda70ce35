package catalog

import "fmt"

// Kind distinguishes numeric gauges from info-style facts.
type Kind int

const (
	// Gauge is a numeric point-in-time value.
	Gauge Kind = iota
	// Info attaches a key/value fact to a label set. Exposed as a constant-1
	// gauge named <name>_info with the fact as the final label.
	Info
)

func (k Kind) String() string {
	switch k {
	case Gauge:
		return "gauge"
	case Info:
		return "info"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Metric is one static metric declaration.
type Metric struct {
	Name   string
	Kind   Kind
	Labels []string
	Unit   string
	Help   string
}

// FQName is the name the metric is exposed under: the unit is appended to
// gauges, and info metrics carry the _info suffix.
func (m *Metric) FQName() string {
	name := m.Name
	if m.Unit != "" {
		name += "_" + m.Unit
	}
	if m.Kind == Info {
		name += "_info"
	}
	return name
}

// Label sets shared by every entity metric. Entity-identifying labels come
// first, most specific entity last.
var (
	NetworkLabels = []string{"network_id", "network_name", "network_display_name"}
	EeroLabels    = concat(NetworkLabels, "eero_id", "eero_name")
	ClientLabels  = concat(EeroLabels, "client_mac", "client_hostname", "client_display_name")
)

// Fact is the key/value carried by an Info observation.
type Fact struct {
	Key   string
	Value string
}

// Observation is one emitted value. Label values follow Metric.Labels
// positionally. Info observations carry a Fact and a Value of 1.
type Observation struct {
	Metric *Metric
	Labels []string
	Value  float64
	Fact   *Fact
}

// Gauge builds a gauge observation.
func (m *Metric) Gauge(labels []string, v float64) Observation {
	return Observation{Metric: m, Labels: labels, Value: v}
}

// Info builds an info observation carrying one fact.
func (m *Metric) Info(labels []string, key, value string) Observation {
	return Observation{Metric: m, Labels: labels, Value: 1, Fact: &Fact{Key: key, Value: value}}
}

// Validate checks that the observation matches its metric's declaration.
func (o Observation) Validate() error {
	if o.Metric == nil {
		return fmt.Errorf("catalog: observation without metric")
	}
	if len(o.Labels) != len(o.Metric.Labels) {
		return fmt.Errorf("catalog: %s: got %d label values, schema has %d",
			o.Metric.Name, len(o.Labels), len(o.Metric.Labels))
	}
	if (o.Metric.Kind == Info) != (o.Fact != nil) {
		return fmt.Errorf("catalog: %s: fact presence does not match kind %s", o.Metric.Name, o.Metric.Kind)
	}
	return nil
}

func concat(base []string, extra ...string) []string {
	out := make([]string, 0, len(base)+len(extra))
	out = append(out, base...)
	return append(out, extra...)
}

func gauge(name, help string, labels []string) *Metric {
	m := &Metric{Name: name, Kind: Gauge, Labels: labels, Help: help}
	register(m)
	return m
}

func gaugeUnit(name, unit, help string, labels []string) *Metric {
	m := &Metric{Name: name, Kind: Gauge, Labels: labels, Unit: unit, Help: help}
	register(m)
	return m
}

func info(name, help string, labels []string) *Metric {
	m := &Metric{Name: name, Kind: Info, Labels: labels, Help: help}
	register(m)
	return m
}

var all []*Metric

func register(m *Metric) {
	for _, existing := range all {
		if existing.FQName() == m.FQName() {
			panic("catalog: duplicate metric " + m.FQName())
		}
	}
	all = append(all, m)
}

// All returns every declared metric in declaration order.
func All() []*Metric {
	out := make([]*Metric, len(all))
	copy(out, all)
	return out
}
