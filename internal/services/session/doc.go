// Package session owns the wallet session.
//
// It connects through the wallet connector, derives an immutable Session
// from the provider, checks the reported chain against the expected one,
// and keeps the session in sync with provider lifecycle events. Listeners
// are registered when a session starts and removed when it ends.
package session
