// Package session is the credential store for the eero API session token.
//
// The token lives in a YAML file with a single `session:` key, written by
// eero-login and refreshed by the API client. SetToken replaces the file
// atomically (temp file, fsync, rename, directory fsync) and returns only
// once the new token is durable. Watch uses fsnotify to pick up tokens
// written by another process.
package session
