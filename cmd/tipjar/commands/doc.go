// Package commands defines the tipjar CLI and wires dependencies for subcommands.
//
// Commands
//
//   - ui             Interactive two-screen tipping UI (default)
//   - connect        Connect a wallet and print the session
//   - pay            Send one tip to the configured recipient
//   - disconnect     Forget the cached wallet choice
//   - vault import   Store a BIP-39 mnemonic encrypted with the passphrase
//   - accounts       List wallet options and keystore accounts
//
// # Implementation
//
// The root command loads <home>/config.yaml, configures logging and builds
// the dependency graph (file store, wallet connector, session and transfer
// services, metrics) before any subcommand runs. The interactive UI logs to
// <home>/tipjar.log and receives notices on a channel; every other command
// logs to stderr and prints notices to stdout.
package commands
