// Package eero is a small client for the eero cloud API.
//
// Every response is wrapped in a {"meta": {"code", "error"}, "data"} envelope;
// the client unwraps it and hands back the data as a tree.Node. Requests carry
// the session token as the "s" cookie. When the API reports that a session
// needs refreshing, the client exchanges it for a new one, persists it through
// the CredentialStore and retries the request once. Any other rejection is
// ErrAuthRequired, which only an interactive login (cmd/eero-login) clears.
package eero
