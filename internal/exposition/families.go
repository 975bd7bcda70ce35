package exposition

import (
	"fmt"
	"log/slog"
	"strings"

	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/model"
	"google.golang.org/protobuf/proto"

	"github.com/eero-exporter/eero-exporter/internal/catalog"
)

// Families groups observations into metric families.
//
// Families appear in catalog declaration order and samples in the order they
// were observed. An observation whose label set repeats an earlier sample of
// the same family is dropped, so the output never carries duplicate series.
// Families with no samples are left out. An observation that does not fit its
// metric's schema is logged and dropped; the rest of the scrape is unaffected.
func Families(obs []catalog.Observation) []*dto.MetricFamily {
	byMetric := make(map[*catalog.Metric]*dto.MetricFamily)
	seen := make(map[*catalog.Metric]map[string]struct{})
	var extra []*catalog.Metric

	for _, o := range obs {
		m, err := sample(o)
		if err != nil {
			slog.Warn("exposition: dropping invalid observation", "labels", o.Labels, "err", err)
			continue
		}
		mf, ok := byMetric[o.Metric]
		if !ok {
			mf = newFamily(o.Metric)
			byMetric[o.Metric] = mf
			seen[o.Metric] = make(map[string]struct{})
			if !declared(o.Metric) {
				extra = append(extra, o.Metric)
			}
		}

		key := seriesKey(m)
		if _, dup := seen[o.Metric][key]; dup {
			continue
		}
		seen[o.Metric][key] = struct{}{}
		mf.Metric = append(mf.Metric, m)
	}

	out := make([]*dto.MetricFamily, 0, len(byMetric))
	for _, m := range append(catalog.All(), extra...) {
		if mf, ok := byMetric[m]; ok && len(mf.Metric) > 0 {
			out = append(out, mf)
		}
	}
	return out
}

func newFamily(m *catalog.Metric) *dto.MetricFamily {
	return &dto.MetricFamily{
		Name: proto.String(m.FQName()),
		Help: proto.String(m.Help),
		Type: dto.MetricType_GAUGE.Enum(),
	}
}

func sample(o catalog.Observation) (*dto.Metric, error) {
	if err := o.Validate(); err != nil {
		return nil, fmt.Errorf("exposition: %w", err)
	}
	names := o.Metric.Labels
	pairs := make([]*dto.LabelPair, 0, len(names)+1)
	for i, name := range names {
		pairs = append(pairs, &dto.LabelPair{Name: proto.String(name), Value: proto.String(o.Labels[i])})
	}
	if o.Fact != nil {
		if !model.LabelName(o.Fact.Key).IsValid() {
			return nil, fmt.Errorf("exposition: %s: invalid fact key %q", o.Metric.FQName(), o.Fact.Key)
		}
		for _, name := range names {
			if name == o.Fact.Key {
				return nil, fmt.Errorf("exposition: %s: fact key %q shadows a label", o.Metric.FQName(), o.Fact.Key)
			}
		}
		pairs = append(pairs, &dto.LabelPair{Name: proto.String(o.Fact.Key), Value: proto.String(o.Fact.Value)})
	}
	return &dto.Metric{
		Label: pairs,
		Gauge: &dto.Gauge{Value: proto.Float64(o.Value)},
	}, nil
}

func seriesKey(m *dto.Metric) string {
	var b strings.Builder
	for _, lp := range m.GetLabel() {
		b.WriteString(lp.GetName())
		b.WriteByte(0xff)
		b.WriteString(lp.GetValue())
		b.WriteByte(0xff)
	}
	return b.String()
}

var declaredSet = func() map[*catalog.Metric]struct{} {
	s := make(map[*catalog.Metric]struct{})
	for _, m := range catalog.All() {
		s[m] = struct{}{}
	}
	return s
}()

func declared(m *catalog.Metric) bool {
	_, ok := declaredSet[m]
	return ok
}
