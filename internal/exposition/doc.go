// Package exposition is the metrics sink: it holds the observations of the
// most recent collection pass and serves them in the Prometheus exposition
// format.
//
// Observations are converted to client_model metric families at scrape time
// and encoded with expfmt according to the scraper's Accept header. Info
// observations become constant-1 gauges with the fact as the final label.
package exposition
