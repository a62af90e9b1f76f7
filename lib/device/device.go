package device

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ValentinKolb/dPB/lib/interp"
	"github.com/ValentinKolb/dPB/lib/outqueue"
	"github.com/ValentinKolb/dPB/lib/store"
	"github.com/lni/dragonboat/v4/logger"
)

var Logger = logger.GetLogger("device")

// DefaultInputSize is the maximum command line length used when none is configured
const DefaultInputSize = 1024

// Options configures a device
type Options struct {
	QueueSize int // Output queue capacity in bytes (0 = outqueue.DefaultCapacity)
	InputSize int // Maximum command line length in bytes (0 = DefaultInputSize)
}

// DefaultOptions returns the default device options
func DefaultOptions() *Options {
	return &Options{
		QueueSize: outqueue.DefaultCapacity,
		InputSize: DefaultInputSize,
	}
}

// deviceImpl couples a store, an interpreter and an output queue.
//
// Locking: storeMu serializes command execution (one command is fully
// applied and its output queued before the next one starts). queueMu guards
// the output queue, so Drain never waits for a running command.
type deviceImpl struct {
	name      string
	inputSize int

	storeMu sync.Mutex
	store   store.IStore
	interp  *interp.Interpreter

	queueMu sync.Mutex
	queue   *outqueue.Queue

	closed  atomic.Bool
	records atomic.Int64
	queued  atomic.Int64

	metrics *deviceMetrics
}

// NewDevice creates a new device with an empty store created by factory.
// The name identifies the device in logs and metrics (e.g. the shard ID).
func NewDevice(name string, factory store.Factory, opts *Options) IDevice {
	if opts == nil {
		opts = DefaultOptions()
	}
	inputSize := opts.InputSize
	if inputSize < 1 {
		inputSize = DefaultInputSize
	}

	d := &deviceImpl{
		name:      name,
		inputSize: inputSize,
		store:     factory(),
		queue:     outqueue.New(opts.QueueSize),
	}
	d.interp = interp.New(d.store, &lockedOutput{d: d})
	d.metrics = newDeviceMetrics(d)

	Logger.Infof("created device %s (queue %d bytes, input %d bytes)", name, d.queue.Cap(), inputSize)
	return d
}

// --------------------------------------------------------------------------
// Interface Methods (docu see device/interface.go)
// --------------------------------------------------------------------------

func (d *deviceImpl) Submit(line []byte) error {
	if d.closed.Load() {
		return NewError(RetCClosed, fmt.Sprintf("device %s is closed", d.name))
	}

	if len(line) > d.inputSize {
		d.metrics.rejected.Inc()
		Logger.Warningf("device %s: input too large: %d bytes", d.name, len(line))
		return NewError(RetCInputTooLarge, fmt.Sprintf("input too large: %d bytes (max %d)", len(line), d.inputSize))
	}

	start := time.Now()

	d.storeMu.Lock()
	if d.closed.Load() {
		d.storeMu.Unlock()
		return NewError(RetCClosed, fmt.Sprintf("device %s is closed", d.name))
	}
	outcome := d.interp.Execute(line)
	d.records.Store(int64(d.store.Len()))
	d.storeMu.Unlock()

	d.metrics.observe(outcome, start)
	Logger.Debugf("device %s: %s (%d bytes) took %s", d.name, outcome, len(line), time.Since(start))
	return nil
}

func (d *deviceImpl) Drain(max int) ([]byte, error) {
	if d.closed.Load() {
		return nil, NewError(RetCClosed, fmt.Sprintf("device %s is closed", d.name))
	}
	if max < 0 {
		return nil, NewError(RetCInvalidArgument, fmt.Sprintf("invalid drain size %d", max))
	}

	d.queueMu.Lock()
	defer d.queueMu.Unlock()

	data := d.queue.Drain(max)
	d.queued.Store(int64(d.queue.Len()))
	return data, nil
}

func (d *deviceImpl) Stats() (Stats, error) {
	if d.closed.Load() {
		return Stats{}, NewError(RetCClosed, fmt.Sprintf("device %s is closed", d.name))
	}

	d.queueMu.Lock()
	defer d.queueMu.Unlock()

	return Stats{
		Records:   int(d.records.Load()),
		Queued:    d.queue.Len(),
		Capacity:  d.queue.Cap(),
		Dropped:   d.queue.Dropped(),
		InputSize: d.inputSize,
	}, nil
}

func (d *deviceImpl) Close() error {
	d.storeMu.Lock()
	defer d.storeMu.Unlock()

	if d.closed.Swap(true) {
		return nil
	}

	n := d.store.Len()
	d.store.Clear()
	d.records.Store(0)
	d.metrics.unregister()

	Logger.Infof("closed device %s, released %d records", d.name, n)
	return nil
}

// --------------------------------------------------------------------------
// Helper Types
// --------------------------------------------------------------------------

// lockedOutput is the interp.Output of a device. It pushes a complete command
// output under the queue lock, so a concurrent Drain never sees half of it.
type lockedOutput struct {
	d *deviceImpl
}

func (o *lockedOutput) PushString(s string) {
	o.d.queueMu.Lock()
	before := o.d.queue.Dropped()
	o.d.queue.PushString(s)
	dropped := o.d.queue.Dropped() - before
	o.d.queued.Store(int64(o.d.queue.Len()))
	o.d.queueMu.Unlock()

	if dropped > 0 {
		o.d.metrics.dropped.Add(int(dropped))
		Logger.Debugf("device %s: output queue overflow, %d bytes overwritten", o.d.name, dropped)
	}
}
