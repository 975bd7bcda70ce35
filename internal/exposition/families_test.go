package exposition

import (
	"testing"

	dto "github.com/prometheus/client_model/go"

	"github.com/eero-exporter/eero-exporter/internal/catalog"
)

var netLabels = []string{"42", "HomeNet", ""}

func labelMap(m *dto.Metric) map[string]string {
	out := make(map[string]string)
	for _, lp := range m.GetLabel() {
		out[lp.GetName()] = lp.GetValue()
	}
	return out
}

func TestFamilies_CatalogOrder(t *testing.T) {
	// Submitted out of declaration order.
	obs := []catalog.Observation{
		catalog.NetworkEeroCount.Gauge(netLabels, 2),
		catalog.NetworkSSID.Info(netLabels, "ssid", "HomeNet"),
		catalog.NetworkClientCount.Gauge(netLabels, 14),
	}
	fams := Families(obs)
	want := []string{"eero_network_ssid_info", "eero_network_client_count", "eero_network_eero_count"}
	if len(fams) != len(want) {
		t.Fatalf("got %d families, want %d", len(fams), len(want))
	}
	for i, name := range want {
		if got := fams[i].GetName(); got != name {
			t.Errorf("family[%d] = %q, want %q", i, got, name)
		}
		if fams[i].GetType() != dto.MetricType_GAUGE {
			t.Errorf("family %q type = %v, want GAUGE", name, fams[i].GetType())
		}
	}
}

func TestFamilies_InfoBecomesConstantGauge(t *testing.T) {
	fams := Families([]catalog.Observation{
		catalog.NetworkDHCP.Info(netLabels, "dhcp_mode", "custom"),
		catalog.NetworkDHCP.Info(netLabels, "dhcp_subnet_mask", "255.255.255.0"),
	})
	if len(fams) != 1 {
		t.Fatalf("got %d families, want 1", len(fams))
	}
	mf := fams[0]
	if mf.GetName() != "eero_network_dhcp_info" {
		t.Errorf("name = %q", mf.GetName())
	}
	if len(mf.GetMetric()) != 2 {
		t.Fatalf("samples = %d, want 2", len(mf.GetMetric()))
	}

	first := mf.GetMetric()[0]
	if v := first.GetGauge().GetValue(); v != 1 {
		t.Errorf("info value = %v, want 1", v)
	}
	labels := first.GetLabel()
	if last := labels[len(labels)-1]; last.GetName() != "dhcp_mode" || last.GetValue() != "custom" {
		t.Errorf("final label = %s=%q, want dhcp_mode=custom", last.GetName(), last.GetValue())
	}
	if got := labelMap(mf.GetMetric()[1])["dhcp_subnet_mask"]; got != "255.255.255.0" {
		t.Errorf("second sample dhcp_subnet_mask = %q", got)
	}
}

func TestFamilies_LabelOrderFollowsSchema(t *testing.T) {
	labels := []string{"42", "HomeNet", "", "7", "Office", "11:22:33:44:55:66", "phone", "Phone"}
	fams := Families([]catalog.Observation{catalog.ClientConnected.Gauge(labels, 1)})
	got := fams[0].GetMetric()[0].GetLabel()
	for i, name := range catalog.ClientLabels {
		if got[i].GetName() != name || got[i].GetValue() != labels[i] {
			t.Errorf("label[%d] = %s=%q, want %s=%q", i, got[i].GetName(), got[i].GetValue(), name, labels[i])
		}
	}
}

func TestFamilies_DropsDuplicateSeries(t *testing.T) {
	fams := Families([]catalog.Observation{
		catalog.NetworkClientCount.Gauge(netLabels, 3),
		catalog.NetworkClientCount.Gauge(netLabels, 4),
	})
	ms := fams[0].GetMetric()
	if len(ms) != 1 {
		t.Fatalf("samples = %d, want 1", len(ms))
	}
	if v := ms[0].GetGauge().GetValue(); v != 3 {
		t.Errorf("value = %v, want first observation (3)", v)
	}
}

func TestFamilies_SkipsArityMismatch(t *testing.T) {
	fams := Families([]catalog.Observation{
		catalog.NetworkClientCount.Gauge([]string{"42"}, 1),
		catalog.NetworkClientCount.Gauge(netLabels, 14),
		catalog.NetworkEeroCount.Gauge(netLabels, 2),
	})
	if len(fams) != 2 {
		t.Fatalf("got %d families, want 2", len(fams))
	}
	ms := fams[0].GetMetric()
	if len(ms) != 1 || ms[0].GetGauge().GetValue() != 14 {
		t.Errorf("client_count samples = %v, want the valid sibling only", ms)
	}
}

func TestFamilies_SkipsInvalidFactKey(t *testing.T) {
	fams := Families([]catalog.Observation{
		catalog.NetworkSSID.Info(netLabels, "not a label", "x"),
		catalog.NetworkSSID.Info(netLabels, "network_id", "x"),
		catalog.NetworkSSID.Info(netLabels, "ssid", "HomeNet"),
	})
	if len(fams) != 1 {
		t.Fatalf("got %d families, want 1", len(fams))
	}
	ms := fams[0].GetMetric()
	if len(ms) != 1 {
		t.Fatalf("samples = %d, want 1", len(ms))
	}
	if got := labelMap(ms[0])["ssid"]; got != "HomeNet" {
		t.Errorf("ssid = %q, want HomeNet", got)
	}
}

func TestFamilies_SkipsObservationWithoutMetric(t *testing.T) {
	fams := Families([]catalog.Observation{
		{Labels: netLabels, Value: 1},
		catalog.NetworkEeroCount.Gauge(netLabels, 2),
	})
	if len(fams) != 1 || fams[0].GetName() != "eero_network_eero_count" {
		t.Errorf("families = %v, want eero_count only", fams)
	}
}

func TestFamilies_FamilyWithOnlyInvalidSamplesIsOmitted(t *testing.T) {
	fams := Families([]catalog.Observation{
		catalog.NetworkClientCount.Gauge(nil, 1),
		catalog.NetworkEeroCount.Gauge(netLabels, 2),
	})
	if len(fams) != 1 || fams[0].GetName() != "eero_network_eero_count" {
		t.Errorf("families = %v, want eero_count only", fams)
	}
}

func TestFamilies_Empty(t *testing.T) {
	fams := Families(nil)
	if len(fams) != 0 {
		t.Errorf("got %d families from no observations", len(fams))
	}
}

func TestFamilies_SelfMetricsHaveNoLabels(t *testing.T) {
	fams := Families([]catalog.Observation{catalog.ExporterCollectionDuration.Gauge(nil, 1.5)})
	mf := fams[0]
	if mf.GetName() != "eero_exporter_collection_duration_seconds" {
		t.Errorf("name = %q", mf.GetName())
	}
	if n := len(mf.GetMetric()[0].GetLabel()); n != 0 {
		t.Errorf("labels = %d, want 0", n)
	}
}
