// Package mapper turns eero API response trees into catalog observations.
//
// Map(summary, details, clients) handles one network: network fields first,
// then each eero in details.eeros.data, then each client, all in API order.
// The functions are pure; problems are returned as warnings rather than
// logged:
//
//   - *EntityError: a required field (network url, eero url, client mac or
//     source url) is missing, so that one entity is skipped.
//   - *FieldError: one field had the wrong shape (unparsable timestamp,
//     signal or link speed), so that one observation is dropped.
//
// Field reads go through the networkView, eeroView and clientView accessors
// in views.go. Each accessor applies one fixed null policy (sentinel 0,
// empty label, or omit), so a field is treated the same way for every
// entity.
//
// Conversions: speed test results and wired link speed are Mbps scaled to
// bits per second; signal strength drops the four-character " dBm" suffix;
// timestamps in either second or microsecond precision become Unix seconds.
// Dynamic maps (capabilities, DNS policies, rate info) are walked in sorted
// key order so repeated passes over the same input are identical.
package mapper
