// Package api is the typed remote-call layer for the trading backend. It
// owns request and response shapes, authentication, and the normalization
// of error payloads into messages a screen can display.
package api
