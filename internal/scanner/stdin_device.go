package scanner

import (
	"bufio"
	"io"
	"strings"
	"sync/atomic"
)

// StdinDevice adapts a line-oriented reader into a Device. Keyboard-wedge
// QR and barcode readers present as a keyboard and emit one line per scan,
// so stdin is the natural capture source for a kiosk binary.
type StdinDevice struct {
	scans  chan string
	paused atomic.Bool
	done   chan struct{}
}

// NewStdinDevice starts reading lines from r immediately.
func NewStdinDevice(r io.Reader) *StdinDevice {
	d := &StdinDevice{
		scans: make(chan string),
		done:  make(chan struct{}),
	}
	go d.readLoop(r)
	return d
}

func (d *StdinDevice) readLoop(r io.Reader) {
	defer close(d.scans)
	reader := bufio.NewScanner(r)
	for reader.Scan() {
		line := strings.TrimSpace(reader.Text())
		if line == "" {
			continue
		}
		// Frames arriving while paused are dropped, matching hardware
		// scanners whose trigger is disabled during processing.
		if d.paused.Load() {
			continue
		}
		select {
		case d.scans <- line:
		case <-d.done:
			return
		}
	}
}

// Scans implements Device.
func (d *StdinDevice) Scans() <-chan string {
	return d.scans
}

// Pause implements Device.
func (d *StdinDevice) Pause() {
	d.paused.Store(true)
}

// Resume implements Device.
func (d *StdinDevice) Resume() {
	d.paused.Store(false)
}

// Close implements Device.
func (d *StdinDevice) Close() error {
	select {
	case <-d.done:
	default:
		close(d.done)
	}
	return nil
}
