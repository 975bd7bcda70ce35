package mapper

import (
	"github.com/eero-exporter/eero-exporter/internal/catalog"
	"github.com/eero-exporter/eero-exporter/internal/tree"
)

// Result is the output of mapping one or more entities.
type Result struct {
	Observations []catalog.Observation

	// Warnings holds *EntityError and *FieldError values describing what was
	// skipped. A non-empty Warnings never invalidates Observations.
	Warnings []error
}

func (r *Result) merge(o Result) {
	r.Observations = append(r.Observations, o.Observations...)
	r.Warnings = append(r.Warnings, o.Warnings...)
}

// Map maps one network and everything under it: the network itself, then
// its eeros, then its clients, each in API order. A malformed eero or client
// is skipped with a warning; a malformed network yields no observations.
func Map(summary, details tree.Node, clients []tree.Node) Result {
	labels, res, err := MapNetwork(summary, details)
	if err != nil {
		return Result{Warnings: []error{err}}
	}
	for _, e := range (networkView{details: details}).Eeros() {
		er, err := MapEero(e, labels)
		if err != nil {
			res.Warnings = append(res.Warnings, err)
			continue
		}
		res.merge(er)
	}
	for _, c := range clients {
		cr, err := MapClient(c, labels)
		if err != nil {
			res.Warnings = append(res.Warnings, err)
			continue
		}
		res.merge(cr)
	}
	return res
}

// MapNetwork maps the network-level fields and returns the network label
// values for nesting eero and client observations under it.
func MapNetwork(summary, details tree.Node) ([]string, Result, error) {
	v := networkView{summary: summary, details: details}
	id, err := v.ID()
	if err != nil {
		return nil, Result{}, &EntityError{Entity: "network", Field: "url", Err: err}
	}
	labels := []string{id, v.Name(), v.DisplayName()}
	e := emitter{entity: "network", id: id, labels: labels}

	if ssid, ok := v.SSID(); ok {
		e.info(catalog.NetworkSSID, "ssid", ssid)
	}
	for _, c := range v.Capabilities() {
		e.gaugeWith(catalog.NetworkFeatureSupported, boolGauge(c.supported), c.name)
	}
	if ip, ok := v.WANIP(); ok {
		e.info(catalog.NetworkWANIP, "wan_ip", ip)
	}
	if mode, ok := v.ConnectionMode(); ok {
		e.info(catalog.NetworkConnection, "connection", mode)
	}
	if mode, ok := v.DHCPMode(); ok {
		e.info(catalog.NetworkDHCP, "dhcp_mode", mode)
	}
	if v.CustomDHCP() {
		if mask, ok := v.DHCPSubnetMask(); ok {
			e.info(catalog.NetworkDHCP, "dhcp_subnet_mask", mask)
		}
		if ip, ok := v.DHCPSubnetIP(); ok {
			e.info(catalog.NetworkDHCP, "dhcp_subnet_ip", ip)
		}
	}
	if mode, ok := v.DNSMode(); ok {
		e.info(catalog.NetworkDNS, "dns_mode", mode)
	}
	e.info(catalog.NetworkDNS, "dns_caching", v.DNSCaching())
	if servers, ok := v.DNSServers(); ok {
		e.info(catalog.NetworkDNS, "dns_server", servers)
	}
	for _, f := range catalog.NetworkFeatures {
		e.gauge(f.Metric, v.Feature(f.Key))
	}
	e.gauge(catalog.NetworkClientCount, v.ClientCount())
	if bps, ok := v.UploadBps(); ok {
		e.gauge(catalog.NetworkUploadBandwidth, bps)
	}
	if bps, ok := v.DownloadBps(); ok {
		e.gauge(catalog.NetworkDownloadBandwidth, bps)
	}
	e.timestamp(catalog.NetworkBandwidthLastTest, "speed.date", v.SpeedTestedAt)
	if fw, ok := v.TargetFirmware(); ok {
		e.info(catalog.NetworkUpdateVersion, "version", fw)
	}
	e.gauge(catalog.NetworkUpdateAvailable, v.HasUpdate())
	e.timestamp(catalog.NetworkUpdateDate, "updates.last_update_started", v.LastUpdateStarted)
	e.gauge(catalog.NetworkInternetUp, v.InternetUp())
	e.gauge(catalog.NetworkUp, v.MeshUp())
	if ip, ok := v.PublicIP(); ok {
		e.info(catalog.NetworkPublicIP, "ip", ip)
	}
	e.gauge(catalog.NetworkDoubleNAT, v.DoubleNAT())
	e.gauge(catalog.NetworkPremiumDNSEnabled, v.PremiumDNSEnabled())
	for _, p := range v.PremiumDNSPolicies() {
		e.info(catalog.NetworkPremiumDNSPolicy, "policy", p)
	}
	if enabled, managed, ok := v.Homekit(); ok {
		e.gauge(catalog.NetworkHomekitEnabled, enabled)
		e.gauge(catalog.NetworkHomekitManaged, managed)
	}
	e.gauge(catalog.NetworkGuestSSIDEnabled, v.GuestEnabled())
	if ssid, ok := v.GuestSSID(); ok {
		e.info(catalog.NetworkGuestSSID, "ssid", ssid)
	}
	e.timestamp(catalog.NetworkLastRestart, "last_reboot", v.LastReboot)
	e.gauge(catalog.NetworkDDNSEnabled, v.DDNSEnabled())
	if domain, ok := v.DDNSSubdomain(); ok {
		e.info(catalog.NetworkDDNSSubdomain, "domain", domain)
	}
	e.gauge(catalog.NetworkEeroCount, v.EeroCount())

	return labels, e.result(), nil
}

// MapEero maps one eero device under the given network labels.
func MapEero(n tree.Node, network []string) (Result, error) {
	v := eeroView{n: n}
	id, err := v.ID()
	if err != nil {
		return Result{}, &EntityError{Entity: "eero", Field: "url", Err: err}
	}
	e := emitter{entity: "eero", id: id, labels: with(network, id, v.Name())}

	if model, ok := v.Model(); ok {
		e.info(catalog.EeroModel, "model", model)
	}
	if num, ok := v.ModelNumber(); ok {
		e.info(catalog.EeroModel, "model_number", num)
	}
	e.gauge(catalog.EeroMeshConnectionQuality, v.MeshQuality())
	e.info(catalog.EeroMeshConnectionType, "connection", v.ConnectionType())
	e.gauge(catalog.EeroGateway, v.Gateway())
	e.gauge(catalog.EeroStatus, v.StatusGreen())
	e.gauge(catalog.EeroClientCount, v.ClientCount())
	e.gauge(catalog.EeroHeartbeat, v.Heartbeat())
	e.timestamp(catalog.EeroLastHeartbeat, "last_heartbeat", v.LastHeartbeat)
	e.gauge(catalog.EeroWifiEnabled, v.ProvidesWifi())
	if bands, ok := v.Bands(); ok {
		e.info(catalog.EeroWifiBands, "band", bands)
	}
	if macs, ok := v.MACs(); ok {
		e.info(catalog.EeroMAC, "mac_address", macs)
	}
	if ip, ok := v.IPv4(); ok {
		e.info(catalog.EeroIPv4, "ipv4_address", ip)
	}
	if ip, ok := v.IPv6(); ok {
		e.info(catalog.EeroIPv6, "ipv6_address", ip)
	}
	if os, ok := v.OS(); ok {
		e.info(catalog.EeroVersion, "version", os)
	}
	e.timestamp(catalog.EeroLastRestart, "last_reboot", v.LastReboot)

	return e.result(), nil
}

// MapClient maps one client device under the given network labels. The eero
// labels come from the client's own source reference.
func MapClient(n tree.Node, network []string) (Result, error) {
	v := clientView{n: n}
	mac, err := v.MAC()
	if err != nil {
		return Result{}, &EntityError{Entity: "client", Field: "mac", Err: err}
	}
	eeroID, err := v.EeroID()
	if err != nil {
		return Result{}, &EntityError{Entity: "client", ID: mac, Field: "source.url", Err: err}
	}
	e := emitter{
		entity: "client",
		id:     mac,
		labels: with(network, eeroID, v.EeroName(), mac, v.Hostname(), v.DisplayName()),
	}

	if m, ok := v.Manufacturer(); ok {
		e.info(catalog.ClientDetails, "manufacturer", m)
	}
	for _, ip := range v.IPs() {
		e.info(catalog.ClientIP, "ip", ip)
	}
	e.gauge(catalog.ClientConnected, v.Connected())
	if ct, ok := v.ConnectionType(); ok {
		e.info(catalog.ClientConnectionType, "connection", ct)
	}
	e.timestamp(catalog.ClientLastActive, "last_active", v.LastActive)

	if v.Wireless() {
		dbm, ok, err := v.Signal()
		switch {
		case err != nil:
			e.warn("connectivity.signal", err)
		case ok:
			e.gauge(catalog.ClientConnectionStrength, dbm)
		}
		if score, ok := v.Score(); ok {
			e.gauge(catalog.ClientConnectionQuality, score)
		}
		if freq, ok := v.Frequency(); ok {
			e.gauge(catalog.ClientConnectionFrequency, freq)
		}
		e.gauge(catalog.ClientRxBandwidth, v.RxRate())
		e.gauge(catalog.ClientTxBandwidth, v.TxRate())
		for _, f := range v.RxDetails() {
			e.info(catalog.ClientConnectionDetails, f.Key, f.Value)
		}
		for _, f := range v.TxDetails() {
			e.info(catalog.ClientConnectionDetails, f.Key, f.Value)
		}
		if auth, ok := v.Auth(); ok {
			e.info(catalog.ClientConnectionAuth, "auth", auth)
		}
		if ch, ok := v.Channel(); ok {
			e.gauge(catalog.ClientConnectionChannel, ch)
		}
	} else {
		bps, ok, err := v.WiredBps()
		switch {
		case err != nil:
			e.warn("connectivity.ethernet_status.speed", err)
		case ok:
			e.gauge(catalog.ClientWiredBandwidth, bps)
		}
	}

	e.gauge(catalog.ClientBlacklisted, v.Blacklisted())
	e.gauge(catalog.ClientPaused, v.Paused())
	e.gauge(catalog.ClientGuest, v.Guest())
	if mode, ok := v.Homekit(); ok {
		e.gaugeWith(catalog.ClientHomekit, 1, mode)
	}

	return e.result(), nil
}

// emitter accumulates observations for one entity. Every observation gets a
// private copy of the entity labels.
type emitter struct {
	entity string
	id     string
	labels []string
	obs    []catalog.Observation
	warns  []error
}

func (e *emitter) gauge(m *catalog.Metric, v float64) {
	e.obs = append(e.obs, m.Gauge(with(e.labels), v))
}

// gaugeWith appends non-entity label values after the entity labels.
func (e *emitter) gaugeWith(m *catalog.Metric, v float64, extra ...string) {
	e.obs = append(e.obs, m.Gauge(with(e.labels, extra...), v))
}

func (e *emitter) info(m *catalog.Metric, key, value string) {
	e.obs = append(e.obs, m.Info(with(e.labels), key, value))
}

// timestamp emits a timestamp gauge, or a field warning when the value is
// present but unparsable.
func (e *emitter) timestamp(m *catalog.Metric, field string, read func() (float64, error)) {
	ts, err := read()
	if err != nil {
		e.warn(field, err)
		return
	}
	e.gauge(m, ts)
}

func (e *emitter) warn(field string, err error) {
	e.warns = append(e.warns, &FieldError{Entity: e.entity, ID: e.id, Field: field, Err: err})
}

func (e *emitter) result() Result {
	return Result{Observations: e.obs, Warnings: e.warns}
}

func with(base []string, extra ...string) []string {
	out := make([]string, 0, len(base)+len(extra))
	out = append(out, base...)
	return append(out, extra...)
}
