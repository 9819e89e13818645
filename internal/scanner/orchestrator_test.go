package scanner

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/checkin-service/internal/service"
)

type fakeDevice struct {
	scans chan string

	mu      sync.Mutex
	paused  bool
	pauses  int
	resumes int

	closeOnce sync.Once
}

func newFakeDevice(buffer int) *fakeDevice {
	return &fakeDevice{scans: make(chan string, buffer)}
}

func (d *fakeDevice) Scans() <-chan string { return d.scans }

func (d *fakeDevice) Pause() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.paused = true
	d.pauses++
}

func (d *fakeDevice) Resume() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.paused = false
	d.resumes++
}

func (d *fakeDevice) Close() error {
	d.closeOnce.Do(func() { close(d.scans) })
	return nil
}

func (d *fakeDevice) isPaused() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.paused
}

func (d *fakeDevice) pauseCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pauses
}

// stubProcessor records payloads and can hold processing open so tests can
// observe the in-flight state.
type stubProcessor struct {
	started chan struct{}
	release chan struct{}
	result  *service.ScanResult
	err     error

	mu       sync.Mutex
	payloads []string
}

func (p *stubProcessor) ProcessScan(_ context.Context, payload, _ string) (*service.ScanResult, error) {
	p.mu.Lock()
	p.payloads = append(p.payloads, payload)
	p.mu.Unlock()

	if p.started != nil {
		p.started <- struct{}{}
	}
	if p.release != nil {
		<-p.release
	}
	return p.result, p.err
}

func (p *stubProcessor) seen() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string{}, p.payloads...)
}

type capturedResult struct {
	result *service.ScanResult
	err    error
}

func TestOrchestrator_PausesDeviceWhileProcessing(t *testing.T) {
	device := newFakeDevice(1)
	processor := &stubProcessor{
		started: make(chan struct{}),
		release: make(chan struct{}),
		result:  &service.ScanResult{Status: service.ScanAccepted, Day: 1},
	}
	results := make(chan capturedResult, 1)
	onResult := func(result *service.ScanResult, err error) {
		results <- capturedResult{result, err}
	}

	orch := NewOrchestrator(device, processor, "gate-a", 5*time.Millisecond, onResult, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- orch.Run(ctx) }()

	device.scans <- "payload-1"
	<-processor.started

	assert.Equal(t, StateProcessing, orch.State())
	assert.True(t, device.isPaused(), "device must be paused while a scan is in flight")

	close(processor.release)

	captured := <-results
	require.NoError(t, captured.err)
	assert.Equal(t, service.ScanAccepted, captured.result.Status)

	require.Eventually(t, func() bool {
		return orch.State() == StateIdle && !device.isPaused()
	}, time.Second, time.Millisecond, "device must resume after the cooldown")

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}

func TestOrchestrator_ProcessesScansSequentially(t *testing.T) {
	device := newFakeDevice(3)
	processor := &stubProcessor{result: &service.ScanResult{Status: service.ScanAccepted, Day: 1}}

	var mu sync.Mutex
	var delivered int
	onResult := func(*service.ScanResult, error) {
		mu.Lock()
		delivered++
		mu.Unlock()
	}

	orch := NewOrchestrator(device, processor, "gate-a", 0, onResult, zap.NewNop())

	device.scans <- "first"
	device.scans <- "second"
	device.scans <- "third"
	require.NoError(t, device.Close())

	require.NoError(t, orch.Run(context.Background()))

	assert.Equal(t, []string{"first", "second", "third"}, processor.seen())
	assert.Equal(t, 3, delivered)
	assert.Equal(t, 3, device.pauseCount())
	assert.Equal(t, StateIdle, orch.State())
}

func TestOrchestrator_SurfacesProcessorErrors(t *testing.T) {
	device := newFakeDevice(1)
	processor := &stubProcessor{err: errors.New("api unreachable")}

	results := make(chan capturedResult, 1)
	orch := NewOrchestrator(device, processor, "gate-a", 0, func(result *service.ScanResult, err error) {
		results <- capturedResult{result, err}
	}, zap.NewNop())

	device.scans <- "payload-1"
	require.NoError(t, device.Close())
	require.NoError(t, orch.Run(context.Background()))

	captured := <-results
	require.Error(t, captured.err)
	assert.Nil(t, captured.result)

	// Error or not, the device comes back so the operator can retry.
	assert.False(t, device.isPaused())
}

func TestOrchestrator_RunStopsOnDeviceClose(t *testing.T) {
	device := newFakeDevice(0)
	orch := NewOrchestrator(device, &stubProcessor{}, "gate-a", 0, nil, zap.NewNop())

	require.NoError(t, device.Close())
	assert.NoError(t, orch.Run(context.Background()))
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "idle", StateIdle.String())
	assert.Equal(t, "processing", StateProcessing.String())
	assert.Equal(t, "cooldown", StateCooldown.String())
}
