// Package transfer submits tips through the active wallet session.
package transfer
