package mapper

import (
	"errors"
	"fmt"
	"strings"

	"github.com/eero-exporter/eero-exporter/internal/catalog"
	"github.com/eero-exporter/eero-exporter/internal/tree"
)

// Field policies. Every accessor below uses exactly one of these:
//
//	flag       null/absent -> 0, otherwise 1 if truthy
//	count      null/absent -> 0 (sentinel)
//	optional   null/absent -> observation omitted (second result false)
//	label      null/absent -> "" (label arity stays fixed)
//	timestamp  null/absent -> 0 (sentinel); malformed -> field warning
//	required   null/absent -> entity skipped

var errMissing = errors.New("missing")

func flag(n tree.Node) float64 { return boolGauge(n.Truthy()) }

func count(n tree.Node) float64 {
	v, _ := n.Float()
	return v
}

func optional(n tree.Node) (string, bool) { return n.Text() }

func label(n tree.Node) string {
	s, _ := n.Text()
	return s
}

func timestamp(n tree.Node) (float64, error) {
	if n.IsNull() {
		return 0, nil
	}
	s, ok := n.String()
	if !ok {
		return 0, fmt.Errorf("timestamp is %T, not a string", n.Raw())
	}
	return ParseTimestamp(s)
}

func required(n tree.Node) (string, error) {
	s, ok := n.String()
	if !ok || s == "" {
		return "", errMissing
	}
	return s, nil
}

func joined(n tree.Node) (string, bool) {
	if n.IsNull() {
		return "", false
	}
	return strings.Join(n.Strings(), ", "), true
}

// networkView reads one network from its account summary entry and its
// detail document.
type networkView struct {
	summary tree.Node
	details tree.Node
}

// ID is required: /2.2/networks/{id}.
func (v networkView) ID() (string, error) {
	u, err := required(v.summary.Get("url"))
	if err != nil {
		return "", err
	}
	return ResourceID(u)
}

func (v networkView) Name() string { return label(v.summary.Get("name")) }

// DisplayName falls back to the network name when no nickname is set.
func (v networkView) DisplayName() string {
	if nick, ok := v.summary.Get("nickname_label").Text(); ok {
		return nick
	}
	return v.Name()
}

func (v networkView) SSID() (string, bool) { return optional(v.summary.Get("name")) }

type capability struct {
	name      string
	supported bool
}

// Capabilities lists every capability the network reports. Supported means
// capable, regardless of whether the feature is switched on.
func (v networkView) Capabilities() []capability {
	caps := v.details.Get("capabilities")
	var out []capability
	for _, k := range caps.Keys() {
		out = append(out, capability{name: k, supported: caps.Get(k, "capable").Truthy()})
	}
	return out
}

func (v networkView) WANIP() (string, bool)          { return optional(v.details.Get("wan_ip")) }
func (v networkView) ConnectionMode() (string, bool) { return optional(v.details.Get("connection", "mode")) }
func (v networkView) DHCPMode() (string, bool)       { return optional(v.details.Get("dhcp", "mode")) }

// CustomDHCP reports whether the network runs a non-automatic DHCP config,
// in which case the custom subnet fields are meaningful.
func (v networkView) CustomDHCP() bool {
	mode, ok := v.DHCPMode()
	return ok && mode != "automatic"
}

func (v networkView) DHCPSubnetMask() (string, bool) {
	return optional(v.details.Get("dhcp", "custom", "subnet_mask"))
}

func (v networkView) DHCPSubnetIP() (string, bool) {
	return optional(v.details.Get("dhcp", "custom", "subnet_ip"))
}

func (v networkView) DNSMode() (string, bool) { return optional(v.details.Get("dns", "mode")) }

// DNSCaching is rendered as "true"/"false"; null reads as false.
func (v networkView) DNSCaching() string {
	if v.details.Get("dns", "caching").Truthy() {
		return "true"
	}
	return "false"
}

// DNSServers joins the custom servers when DNS mode is custom, otherwise
// the upstream (parent) servers.
func (v networkView) DNSServers() (string, bool) {
	src := "parent"
	if mode, _ := v.DNSMode(); mode == "custom" {
		src = "custom"
	}
	return joined(v.details.Get("dns", src, "ips"))
}

func (v networkView) Feature(key string) float64 { return flag(v.details.Get(key)) }
func (v networkView) ClientCount() float64       { return count(v.details.Get("clients", "count")) }

// UploadBps and DownloadBps are omitted until a speed test has run.
func (v networkView) UploadBps() (float64, bool)   { return v.speed("up") }
func (v networkView) DownloadBps() (float64, bool) { return v.speed("down") }

func (v networkView) speed(dir string) (float64, bool) {
	mb, ok := v.details.Get("speed", dir, "value").Float()
	return mb * mbps, ok
}

func (v networkView) SpeedTestedAt() (float64, error) { return timestamp(v.details.Get("speed", "date")) }

func (v networkView) TargetFirmware() (string, bool) {
	return optional(v.details.Get("updates", "target_firmware"))
}

func (v networkView) HasUpdate() float64 { return flag(v.details.Get("updates", "has_update")) }

func (v networkView) LastUpdateStarted() (float64, error) {
	return timestamp(v.details.Get("updates", "last_update_started"))
}

func (v networkView) InternetUp() float64 { return v.connected("internet") }
func (v networkView) MeshUp() float64     { return v.connected("eero_network") }

func (v networkView) connected(component string) float64 {
	s, _ := v.details.Get("health", component, "status").String()
	return boolGauge(s == "connected")
}

func (v networkView) PublicIP() (string, bool) { return optional(v.details.Get("ip_settings", "public_ip")) }
func (v networkView) DoubleNAT() float64       { return flag(v.details.Get("ip_settings", "double_nat")) }

func (v networkView) PremiumDNSEnabled() float64 {
	return flag(v.details.Get("premium_dns", "dns_policies_enabled"))
}

// PremiumDNSPolicies returns the names of enabled policies in sorted order.
func (v networkView) PremiumDNSPolicies() []string {
	policies := v.details.Get("premium_dns", "dns_policies")
	var out []string
	for _, k := range policies.Keys() {
		if policies.Get(k).Truthy() {
			out = append(out, k)
		}
	}
	return out
}

func (v networkView) LastReboot() (float64, error) { return timestamp(v.details.Get("last_reboot")) }

// Homekit reports nothing when the network has no homekit block.
func (v networkView) Homekit() (enabled, managed float64, ok bool) {
	hk := v.details.Get("homekit")
	if hk.IsNull() {
		return 0, 0, false
	}
	return flag(hk.Get("enabled")), flag(hk.Get("managedNetworkEnabled")), true
}

func (v networkView) GuestEnabled() float64        { return flag(v.details.Get("guest_network", "enabled")) }
func (v networkView) GuestSSID() (string, bool)    { return optional(v.details.Get("guest_network", "name")) }
func (v networkView) DDNSEnabled() float64         { return flag(v.details.Get("ddns", "enabled")) }
func (v networkView) DDNSSubdomain() (string, bool) { return optional(v.details.Get("ddns", "subdomain")) }
func (v networkView) EeroCount() float64           { return count(v.details.Get("eeros", "count")) }
func (v networkView) Eeros() []tree.Node           { return v.details.Get("eeros", "data").List() }

// eeroView reads one eero device from network.eeros.data.
type eeroView struct {
	n tree.Node
}

// ID is required: /2.2/eeros/{id}.
func (v eeroView) ID() (string, error) {
	u, err := required(v.n.Get("url"))
	if err != nil {
		return "", err
	}
	return ResourceID(u)
}

func (v eeroView) Name() string                 { return label(v.n.Get("location")) }
func (v eeroView) Model() (string, bool)        { return optional(v.n.Get("model")) }
func (v eeroView) ModelNumber() (string, bool)  { return optional(v.n.Get("model_number")) }

// MeshQuality is the bar count scaled to 0..1; null reads as 0.
func (v eeroView) MeshQuality() float64 { return count(v.n.Get("mesh_quality_bars")) / 5 }

// ConnectionType substitutes DISCONNECTED for null.
func (v eeroView) ConnectionType() string {
	if s, ok := v.n.Get("connection_type").Text(); ok {
		return s
	}
	return "DISCONNECTED"
}

func (v eeroView) Gateway() float64 { return flag(v.n.Get("gateway")) }

func (v eeroView) StatusGreen() float64 {
	s, _ := v.n.Get("status").String()
	return boolGauge(s == "green")
}

func (v eeroView) ClientCount() float64            { return count(v.n.Get("connected_clients_count")) }
func (v eeroView) Heartbeat() float64              { return flag(v.n.Get("heartbeat_ok")) }
func (v eeroView) LastHeartbeat() (float64, error) { return timestamp(v.n.Get("last_heartbeat")) }
func (v eeroView) ProvidesWifi() float64           { return flag(v.n.Get("provides_wifi")) }
func (v eeroView) Bands() (string, bool)           { return joined(v.n.Get("bands")) }

// MACs is the union of wired and wireless addresses, omitted only when both
// lists are absent.
func (v eeroView) MACs() (string, bool) {
	eth, wifi := v.n.Get("ethernet_addresses"), v.n.Get("wifi_bssids")
	if eth.IsNull() && wifi.IsNull() {
		return "", false
	}
	return strings.Join(append(eth.Strings(), wifi.Strings()...), ", "), true
}

func (v eeroView) IPv4() (string, bool) { return optional(v.n.Get("ip_address")) }

func (v eeroView) IPv6() (string, bool) {
	list := v.n.Get("ipv6_addresses")
	if list.IsNull() {
		return "", false
	}
	var addrs []string
	for _, a := range list.List() {
		if s, ok := a.Get("address").String(); ok {
			addrs = append(addrs, s)
		}
	}
	return strings.Join(addrs, ", "), true
}

func (v eeroView) OS() (string, bool)            { return optional(v.n.Get("os")) }
func (v eeroView) LastReboot() (float64, error) { return timestamp(v.n.Get("last_reboot")) }

// clientView reads one client device from the network's device list.
type clientView struct {
	n tree.Node
}

func (v clientView) MAC() (string, error) { return required(v.n.Get("mac")) }

// EeroID identifies the eero the client is attached through; required.
func (v clientView) EeroID() (string, error) {
	u, err := required(v.n.Get("source", "url"))
	if err != nil {
		return "", err
	}
	return ResourceID(u)
}

func (v clientView) EeroName() string    { return label(v.n.Get("source", "location")) }
func (v clientView) Hostname() string    { return label(v.n.Get("hostname")) }
func (v clientView) DisplayName() string { return label(v.n.Get("display_name")) }

func (v clientView) Manufacturer() (string, bool) { return optional(v.n.Get("manufacturer")) }
func (v clientView) IPs() []string                { return v.n.Get("ips").Strings() }
func (v clientView) Connected() float64           { return flag(v.n.Get("connected")) }
func (v clientView) ConnectionType() (string, bool) {
	return optional(v.n.Get("connection_type"))
}
func (v clientView) LastActive() (float64, error) { return timestamp(v.n.Get("last_active")) }

// Wireless selects which connectivity block is read.
func (v clientView) Wireless() bool { return v.n.Get("wireless").Truthy() }

// Signal is omitted when null; a malformed value is a field warning.
func (v clientView) Signal() (float64, bool, error) {
	s, ok := v.n.Get("connectivity", "signal").String()
	if !ok {
		return 0, false, nil
	}
	dbm, err := ParseSignal(s)
	return dbm, err == nil, err
}

func (v clientView) Score() (float64, bool)     { return v.n.Get("connectivity", "score").Float() }
func (v clientView) Frequency() (float64, bool) { return v.n.Get("connectivity", "frequency").Float() }

// RxRate and TxRate read rate_bps; null reads as 0.
func (v clientView) RxRate() float64 { return count(v.n.Get("connectivity", "rx_rate_info", "rate_bps")) }
func (v clientView) TxRate() float64 { return count(v.n.Get("connectivity", "tx_rate_info", "rate_bps")) }

// RxDetails and TxDetails return every non-null scalar sub-key of the rate
// block except rate_bps, prefixed with the direction.
func (v clientView) RxDetails() []catalog.Fact { return v.rateDetails("rx") }
func (v clientView) TxDetails() []catalog.Fact { return v.rateDetails("tx") }

func (v clientView) rateDetails(dir string) []catalog.Fact {
	info := v.n.Get("connectivity", dir+"_rate_info")
	var out []catalog.Fact
	for _, k := range info.Keys() {
		if k == "rate_bps" {
			continue
		}
		val, ok := info.Get(k).Text()
		if !ok {
			continue
		}
		out = append(out, catalog.Fact{Key: labelName(dir + "_" + k), Value: val})
	}
	return out
}

func (v clientView) Auth() (string, bool)     { return optional(v.n.Get("auth")) }
func (v clientView) Channel() (float64, bool) { return v.n.Get("channel").Float() }

// WiredBps is omitted when the link speed is null; malformed is a field warning.
func (v clientView) WiredBps() (float64, bool, error) {
	s, ok := v.n.Get("connectivity", "ethernet_status", "speed").Text()
	if !ok {
		return 0, false, nil
	}
	bps, err := ParseLinkSpeed(s)
	return bps, err == nil, err
}

// Blacklisted and Paused are tri-state upstream; absent reads as false.
func (v clientView) Blacklisted() float64 { return flag(v.n.Get("blacklisted")) }
func (v clientView) Paused() float64      { return flag(v.n.Get("paused")) }
func (v clientView) Guest() float64       { return flag(v.n.Get("is_guest")) }

// Homekit reports the protection mode of a registered client.
func (v clientView) Homekit() (mode string, ok bool) {
	hk := v.n.Get("homekit")
	if !hk.Get("registered").Truthy() {
		return "", false
	}
	return label(hk.Get("protection_mode")), true
}
