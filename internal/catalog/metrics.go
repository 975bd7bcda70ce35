package catalog

// Network metrics.
var (
	NetworkSSID             = info("eero_network_ssid", "Current Eero Network SSID and Nickname, will always output 1 if detected", NetworkLabels)
	NetworkFeatureSupported = gauge("eero_network_feature_supported", "If the Eero Network can support feature, output 1 if supported", concat(NetworkLabels, "feature"))
	NetworkWANIP            = info("eero_network_wan_ip", "WAN IP for the Eero Network, should be your Public IP if you are in a double nat", NetworkLabels)
	NetworkConnection       = info("eero_network_connection", "What the Eero Network is connected to", NetworkLabels)
	NetworkDHCP             = info("eero_network_dhcp", "Configured DHCP Settings for the Eero Network", NetworkLabels)
	NetworkDNS              = info("eero_network_dns", "Configured DNS Settings for the Eero Network", NetworkLabels)
)

// NetworkFeature pairs a network-level switch with its gauge.
type NetworkFeature struct {
	Key    string
	Metric *Metric
}

// NetworkFeatures are the enabled/disabled switches reported on the network
// object, keyed by their field name.
var NetworkFeatures = []NetworkFeature{
	feature("upnp"),
	feature("ipv6"),
	feature("thread"),
	feature("sqm"),
	feature("band_steering"),
	feature("wpa3"),
	feature("amazon_account_linked"),
	feature("alexa_skill"),
	feature("amazon_device_nickname"),
	feature("backup_internet_enabled"),
	feature("power_saving"),
}

func feature(key string) NetworkFeature {
	return NetworkFeature{
		Key:    key,
		Metric: gauge("eero_network_"+key, "If "+key+" is enabled, output 1 if enabled", NetworkLabels),
	}
}

var (
	NetworkClientCount       = gauge("eero_network_client_count", "Total amount of clients connected to network", NetworkLabels)
	NetworkUploadBandwidth   = gaugeUnit("eero_network_upload_bandwidth", "bps", "Upload Speed in Bits per Second", NetworkLabels)
	NetworkDownloadBandwidth = gaugeUnit("eero_network_download_bandwidth", "bps", "Download Speed in Bits per Second", NetworkLabels)
	NetworkBandwidthLastTest = gauge("eero_network_bandwidth_last_test", "Last time that bandwidth test was performed", NetworkLabels)
	NetworkUpdateVersion     = info("eero_network_update_version", "Current Eero version of network", NetworkLabels)
	NetworkUpdateAvailable   = gauge("eero_network_update_available", "Eero network has available update, 1 if true", NetworkLabels)
	NetworkUpdateDate        = gauge("eero_network_update_date", "Datetime of last Eero update", NetworkLabels)
	NetworkInternetUp        = gauge("eero_network_internet_up", "1 if Eero reporting successful internet connection", NetworkLabels)
	NetworkUp                = gauge("eero_network_up", "1 if Eero network reporting healthy", NetworkLabels)
	NetworkPublicIP          = info("eero_network_public_ip", "Public IP address of Eero network", NetworkLabels)
	NetworkDoubleNAT         = gauge("eero_network_double_nat", "1 if Eero detects that it is behind an existing NAT", NetworkLabels)
	NetworkPremiumDNSEnabled = gauge("eero_network_premium_dns_enabled", "1 if Eero Secure Plus DNS settings are enabled", NetworkLabels)
	NetworkPremiumDNSPolicy  = info("eero_network_premium_dns_policies", "Premium DNS policies enabled on network", NetworkLabels)
	NetworkHomekitEnabled    = gauge("eero_network_homekit_enabled", "1 if Eero connected to Apple Homekit", NetworkLabels)
	NetworkHomekitManaged    = gauge("eero_network_homekit_managed_network_enabled", "1 if Homekit Managed Network is enabled on Eero Routers", NetworkLabels)
	NetworkGuestSSIDEnabled  = gauge("eero_network_guest_ssid_enabled", "1 if Guest Network is enabled", NetworkLabels)
	NetworkGuestSSID         = info("eero_network_guest_ssid", "SSID of Guest Network", NetworkLabels)
	NetworkLastRestart       = gauge("eero_network_last_restart", "Time of last full network restart", NetworkLabels)
	NetworkDDNSEnabled       = gauge("eero_network_ddns_enabled", "1 if Dynamic DNS is enabled", NetworkLabels)
	NetworkDDNSSubdomain     = info("eero_network_ddns_subdomain", "Unique domain with public IP as A record", NetworkLabels)
	NetworkEeroCount         = gauge("eero_network_eero_count", "Amount of Eeros connected to network", NetworkLabels)
)

// Eero device metrics.
var (
	EeroModel                 = info("eero_network_eero_model", "Eero Model Name and Number", EeroLabels)
	EeroMAC                   = info("eero_network_eero_mac", "Eero Router MAC Addresses", EeroLabels)
	EeroMeshConnectionQuality = gauge("eero_network_eero_mesh_connection_quality", "Connection quality of Eeros to mesh network as a fraction of 5 bars, gateway Eero will always be 1", EeroLabels)
	EeroMeshConnectionType    = info("eero_network_eero_mesh_connection_type", "If the connection type is either Wired or Wireless, Gateway Eero will always be WIRED", EeroLabels)
	EeroGateway               = gauge("eero_network_eero_gateway", "Outputs 1 if Gateway Eero", EeroLabels)
	EeroStatus                = gauge("eero_network_eero_status", "Outputs 1 if Eero is in a Good (green) Status", EeroLabels)
	EeroClientCount           = gauge("eero_network_eero_client_count", "The amount of clients connected to Eero Router", EeroLabels)
	EeroHeartbeat             = gauge("eero_network_eero_heartbeat", "1 if Eero is passing heartbeat checks", EeroLabels)
	EeroLastHeartbeat         = gauge("eero_network_eero_last_heartbeat", "Date and Time in Epoch of last successful Heartbeat", EeroLabels)
	EeroWifiEnabled           = gauge("eero_network_eero_wifi_enabled", "If wireless connectivity is enabled on the Eero, 1 if enabled", EeroLabels)
	EeroWifiBands             = info("eero_network_eero_wifi_bands", "Enabled Wireless Bands of Eero", EeroLabels)
	EeroIPv4                  = info("eero_network_eero_ipv4", "Eero Router IPv4 Address", EeroLabels)
	EeroIPv6                  = info("eero_network_eero_ipv6", "Eero Router IPv6 Address", EeroLabels)
	EeroVersion               = info("eero_network_eero_version", "Current OS version of Eero", EeroLabels)
	EeroLastRestart           = gauge("eero_network_eero_last_restart", "Last restart of eero device, value does not update with full network restarts (see eero_network_last_restart)", EeroLabels)
)

// Client metrics.
var (
	ClientDetails             = info("eero_network_client_details", "miscellaneous collected details of connected clients", ClientLabels)
	ClientIP                  = info("eero_network_client_ip", "ip addresses of connected clients", ClientLabels)
	ClientConnected           = gauge("eero_network_client_connected", "if client is currently connected to the network", ClientLabels)
	ClientConnectionType      = info("eero_network_client_connection_type", "how the client is connected to the network, generally either wired or wireless", ClientLabels)
	ClientLastActive          = gauge("eero_network_client_last_active", "time when client was last active", ClientLabels)
	ClientConnectionStrength  = gaugeUnit("eero_network_client_connection_strength", "dBm", "connection strength in dBm", ClientLabels)
	ClientConnectionQuality   = gauge("eero_network_client_connection_quality", "connection quality score reported by the eero, wired connections will not appear", ClientLabels)
	ClientConnectionFrequency = gauge("eero_network_client_connection_frequency", "wireless frequency client is connected via", ClientLabels)
	ClientRxBandwidth         = gaugeUnit("eero_network_client_rx_bandwidth", "bps", "client receive bandwidth in bits per second", ClientLabels)
	ClientTxBandwidth         = gaugeUnit("eero_network_client_tx_bandwidth", "bps", "client transmit bandwidth in bits per second", ClientLabels)
	ClientConnectionDetails   = info("eero_network_client_connection_details", "miscellaneous collected client receive (rx_) and transmit (tx_) connection details", ClientLabels)
	ClientConnectionAuth      = info("eero_network_client_connection_auth", "authentication method of the wireless device", ClientLabels)
	ClientConnectionChannel   = gauge("eero_network_client_connection_channel", "wireless channel that client is connected via", ClientLabels)
	ClientWiredBandwidth      = gaugeUnit("eero_network_client_wired_bandwidth", "bps", "bandwidth of wired client in bits per second", ClientLabels)
	ClientBlacklisted         = gauge("eero_network_client_blacklisted", "if client is blocked from connecting to the network, 1 if true", ClientLabels)
	ClientPaused              = gauge("eero_network_client_paused", "if client is temporarily blocked from connecting to the network, 1 if true", ClientLabels)
	ClientGuest               = gauge("eero_network_client_guest", "1 if client is connected to guest network", ClientLabels)
	ClientHomekit             = gauge("eero_network_client_homekit", "1 if client is registered with homekit secure router network", concat(ClientLabels, "protection_mode"))
)
