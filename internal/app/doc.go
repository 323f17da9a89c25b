// Package app wires application dependencies for the CLI.
//
// It loads Config, builds the file store, wallet connector, session and
// transfer services and metrics from it, and exposes them via App for
// commands and the terminal UI to use.
package app
