package tree

import (
	"reflect"
	"strings"
	"testing"
)

const sample = `{
  "name": "home",
  "nickname_label": null,
  "count": 3,
  "ratio": 0.5,
  "enabled": true,
  "empty": {},
  "nested": {"inner": {"value": "deep"}},
  "bands": ["2.4GHz", "5GHz", 7],
  "policies": {"malware": true, "ad_block": false}
}`

func mustParse(t *testing.T, s string) Node {
	t.Helper()
	n, err := Parse([]byte(s))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	return n
}

func TestGet_Path(t *testing.T) {
	n := mustParse(t, sample)

	if s, ok := n.Get("nested", "inner", "value").String(); !ok || s != "deep" {
		t.Errorf("nested string = %q, %v; want deep, true", s, ok)
	}
	if !n.Get("nested", "missing", "value").IsNull() {
		t.Error("missing path should be null")
	}
	if !n.Get("name", "not-an-object").IsNull() {
		t.Error("walking through a scalar should be null")
	}
}

func TestHas_DistinguishesNullFromAbsent(t *testing.T) {
	n := mustParse(t, sample)
	if !n.Has("nickname_label") {
		t.Error("Has(nickname_label) = false, want true for explicit null")
	}
	if n.Has("nope") {
		t.Error("Has(nope) = true, want false")
	}
	if !n.Get("nickname_label").IsNull() {
		t.Error("explicit null should be IsNull")
	}
}

func TestScalars(t *testing.T) {
	n := mustParse(t, sample)

	if f, ok := n.Get("count").Float(); !ok || f != 3 {
		t.Errorf("count = %v, %v", f, ok)
	}
	if f, ok := n.Get("ratio").Float(); !ok || f != 0.5 {
		t.Errorf("ratio = %v, %v", f, ok)
	}
	if _, ok := n.Get("name").Float(); ok {
		t.Error("string should not read as float")
	}
	if b, ok := n.Get("enabled").Bool(); !ok || !b {
		t.Errorf("enabled = %v, %v", b, ok)
	}
	if txt, ok := n.Get("count").Text(); !ok || txt != "3" {
		t.Errorf("count text = %q, %v; want 3", txt, ok)
	}
	if _, ok := n.Get("nested").Text(); ok {
		t.Error("object should not render as text")
	}
}

func TestTruthy(t *testing.T) {
	n := mustParse(t, sample)
	tests := []struct {
		key  string
		want bool
	}{
		{"name", true},
		{"nickname_label", false},
		{"count", true},
		{"enabled", true},
		{"empty", false},
		{"nested", true},
		{"absent", false},
	}
	for _, tc := range tests {
		t.Run(tc.key, func(t *testing.T) {
			if got := n.Get(tc.key).Truthy(); got != tc.want {
				t.Errorf("Truthy(%s) = %v, want %v", tc.key, got, tc.want)
			}
		})
	}
}

func TestStrings_SkipsNonStrings(t *testing.T) {
	n := mustParse(t, sample)
	got := n.Get("bands").Strings()
	want := []string{"2.4GHz", "5GHz"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Strings() = %v, want %v", got, want)
	}
	if len(n.Get("bands").List()) != 3 {
		t.Errorf("List() len = %d, want 3", len(n.Get("bands").List()))
	}
}

func TestKeys_Sorted(t *testing.T) {
	n := mustParse(t, sample)
	got := n.Get("policies").Keys()
	want := []string{"ad_block", "malware"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Keys() = %v, want %v", got, want)
	}
	if n.Get("name").Keys() != nil {
		t.Error("Keys() on a scalar should be nil")
	}
}

func TestDecode_Invalid(t *testing.T) {
	if _, err := Decode(strings.NewReader("{not json")); err == nil {
		t.Fatal("expected error for invalid JSON")
	}
}
