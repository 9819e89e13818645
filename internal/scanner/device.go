// Package scanner drives a capture device and funnels its raw payloads
// through the check-in pipeline, one at a time.
package scanner

// Device is a capture source delivering raw decoded payloads, e.g. a QR
// camera or a keyboard-wedge barcode reader. Payloads are opaque strings;
// all interpretation happens downstream.
type Device interface {
	// Scans returns the payload stream. The channel closes when the device
	// shuts down.
	Scans() <-chan string
	// Pause stops delivery without losing the device. Payloads captured
	// while paused are dropped, not queued.
	Pause()
	// Resume re-enables delivery after a Pause.
	Resume()
	// Close releases the device.
	Close() error
}
