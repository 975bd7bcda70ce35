// Package catalog declares every metric the exporter can emit and the
// Observation value the mapper produces for them.
//
// Metrics are package-level *Metric values registered at init time in
// declaration order; All() returns them in that order so exposition output
// is stable. Each Metric fixes its label schema: network labels first, then
// eero, then client, then any non-entity dimension (feature,
// protection_mode). Info metrics expose as <name>_info with value 1 and the
// fact appended as the last label; a unit, when declared, is appended to the
// exposed name (eero_network_upload_bandwidth_bps).
package catalog
