// Package collector runs the poll loop.
//
// Each pass fetches the account, then every network's details and client
// devices, maps them through the mapper package and publishes one batch of
// observations per network. Passes never overlap and are bounded by a
// timeout. Any fetch error aborts the pass; the metrics from the last good
// pass keep being served until the sink's staleness window runs out.
// An auth failure is surfaced as eero_exporter_auth_required=1 and an error
// log asking the operator to run eero-login.
//
// Run takes an injectable ticker and clock so tests can drive the schedule.
package collector
