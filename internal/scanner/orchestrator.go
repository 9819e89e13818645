package scanner

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/checkin-service/internal/service"
)

// State is the orchestrator's processing state. The device is paused from
// the moment a payload is picked up until the cooldown ends, so the same
// physical code cannot be submitted twice while a result is pending. This is
// debouncing only; duplicate protection is the ledger's job.
type State int

const (
	StateIdle State = iota
	StateProcessing
	StateCooldown
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateProcessing:
		return "processing"
	case StateCooldown:
		return "cooldown"
	default:
		return "unknown"
	}
}

// ResultFunc surfaces each scan outcome to the operator. err is non-nil
// only for transient storage failures, which are safe to retry by
// re-presenting the same code.
type ResultFunc func(result *service.ScanResult, err error)

// Orchestrator consumes payloads from a capture device and processes them
// strictly one at a time.
type Orchestrator struct {
	device    Device
	processor service.ScanProcessor
	scannerID string
	cooldown  time.Duration
	onResult  ResultFunc
	logger    *zap.Logger

	mu    sync.Mutex
	state State
}

// NewOrchestrator builds an orchestrator. cooldown is how long the device
// stays paused after a result is surfaced; zero disables the cooldown.
func NewOrchestrator(device Device, processor service.ScanProcessor, scannerID string, cooldown time.Duration, onResult ResultFunc, logger *zap.Logger) *Orchestrator {
	return &Orchestrator{
		device:    device,
		processor: processor,
		scannerID: scannerID,
		cooldown:  cooldown,
		onResult:  onResult,
		logger:    logger,
		state:     StateIdle,
	}
}

// State reports the current processing state.
func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

func (o *Orchestrator) setState(s State) {
	o.mu.Lock()
	o.state = s
	o.mu.Unlock()
}

// Run consumes the device until the context is canceled or the device's
// stream closes. It returns the context error on cancellation, nil on a
// clean device shutdown.
func (o *Orchestrator) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case payload, ok := <-o.device.Scans():
			if !ok {
				return nil
			}
			o.handle(ctx, payload)
		}
	}
}

func (o *Orchestrator) handle(ctx context.Context, payload string) {
	o.device.Pause()
	o.setState(StateProcessing)

	result, err := o.processor.ProcessScan(ctx, payload, o.scannerID)
	if err != nil {
		o.logger.Error("scan processing failed", zap.Error(err))
	} else {
		o.logger.Info("scan processed",
			zap.String("status", string(result.Status)),
			zap.Int("day", result.Day),
		)
	}
	if o.onResult != nil {
		o.onResult(result, err)
	}

	o.setState(StateCooldown)
	if o.cooldown > 0 {
		select {
		case <-ctx.Done():
		case <-time.After(o.cooldown):
		}
	}

	o.device.Resume()
	o.setState(StateIdle)
}
