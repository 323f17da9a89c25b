// Package domain defines core data models and interfaces shared across the app.
// It contains plain types (session, draft, notices, events) and contracts
// (connector, provider, signer, services) only.
package domain
