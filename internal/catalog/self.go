package catalog

// Exporter self metrics, emitted by the collector once per pass.
var (
	ExporterCollectionSuccess  = gauge("eero_exporter_collection_success", "1 if the last collection pass completed", nil)
	ExporterSuccessRatio       = gauge("eero_exporter_collection_success_ratio", "Fraction of the last 20 collection passes that completed", nil)
	ExporterCollectionDuration = gaugeUnit("eero_exporter_collection_duration", "seconds", "Duration of the last collection pass", nil)
	ExporterLastCollection     = gaugeUnit("eero_exporter_last_collection_timestamp", "seconds", "Unix time of the last successful collection pass", nil)
	ExporterAuthRequired       = gauge("eero_exporter_auth_required", "1 while the stored session is rejected and eero-login must be run again", nil)
	ExporterMappingWarnings    = gauge("eero_exporter_mapping_warnings", "Entities or fields skipped during the last collection pass", nil)
	ExporterNetworks           = gauge("eero_exporter_networks", "Networks mapped during the last collection pass", nil)
)
