package device

import (
	"bytes"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/ValentinKolb/dPB/lib/store/lstore"
	"github.com/VictoriaMetrics/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const janeDump = "first name: Jane\nlast name: Doe\nage: 30\nphone number: 555-1234\nemail: jane@x.io\n"

func newTestDevice(t *testing.T, opts *Options) IDevice {
	t.Helper()
	d := NewDevice(t.Name(), lstore.Factory, opts)
	t.Cleanup(func() { _ = d.Close() })
	return d
}

func drainAll(t *testing.T, d IDevice) string {
	t.Helper()
	var out bytes.Buffer
	for {
		chunk, err := d.Drain(7)
		require.NoError(t, err)
		if len(chunk) == 0 {
			return out.String()
		}
		out.Write(chunk)
	}
}

func TestSubmitDrain(t *testing.T) {
	d := newTestDevice(t, nil)

	require.NoError(t, d.Submit([]byte("insert Jane Doe 30 555-1234 jane@x.io")))
	require.NoError(t, d.Submit([]byte("get Doe")))
	assert.Equal(t, janeDump, drainAll(t, d))

	require.NoError(t, d.Submit([]byte("get Nobody")))
	assert.Equal(t, "Nothing found\n", drainAll(t, d))
}

func TestSubmitUnknownCommand(t *testing.T) {
	d := newTestDevice(t, nil)

	require.NoError(t, d.Submit([]byte("bogus foo bar")), "unknown commands are silent")
	assert.Empty(t, drainAll(t, d))

	stats, err := d.Stats()
	require.NoError(t, err)
	assert.Equal(t, 0, stats.Records)
}

func TestDrainEmptyDoesNotBlock(t *testing.T) {
	d := newTestDevice(t, nil)

	data, err := d.Drain(1024)
	require.NoError(t, err)
	assert.Empty(t, data)

	data, err = d.Drain(0)
	require.NoError(t, err)
	assert.Empty(t, data)

	_, err = d.Drain(-1)
	assert.True(t, HasCode(err, RetCInvalidArgument))
}

func TestInputTooLarge(t *testing.T) {
	d := newTestDevice(t, &Options{InputSize: 32})

	// exactly at the limit is accepted
	line := "insert A Doe 1 2 " + strings.Repeat("x", 32-len("insert A Doe 1 2 "))
	require.Len(t, line, 32)
	require.NoError(t, d.Submit([]byte(line)))

	err := d.Submit([]byte(line + "y"))
	require.Error(t, err)
	assert.True(t, HasCode(err, RetCInputTooLarge))
	assert.Contains(t, err.Error(), "33 bytes")

	stats, err := d.Stats()
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Records, "rejected input must not reach the store")
}

func TestOutputOverflow(t *testing.T) {
	d := newTestDevice(t, &Options{QueueSize: 16})

	require.NoError(t, d.Submit([]byte("get Nobody"))) // 14 bytes
	require.NoError(t, d.Submit([]byte("get Nobody"))) // 28 bytes, 12 overwritten

	stats, err := d.Stats()
	require.NoError(t, err)
	assert.Equal(t, 16, stats.Queued)
	assert.Equal(t, uint64(12), stats.Dropped)

	assert.Equal(t, ("Nothing found\n" + "Nothing found\n")[12:], drainAll(t, d))
}

func TestStats(t *testing.T) {
	d := newTestDevice(t, &Options{QueueSize: 100, InputSize: 50})

	require.NoError(t, d.Submit([]byte("insert Jane Doe 30 555-1234 jane@x.io")))
	require.NoError(t, d.Submit([]byte("insert John Doe 41 555-9876 john@x.io")))
	require.NoError(t, d.Submit([]byte("get Nobody")))

	stats, err := d.Stats()
	require.NoError(t, err)
	assert.Equal(t, Stats{Records: 2, Queued: 14, Capacity: 100, Dropped: 0, InputSize: 50}, stats)
}

func TestClose(t *testing.T) {
	d := NewDevice(t.Name(), lstore.Factory, nil)
	require.NoError(t, d.Submit([]byte("insert Jane Doe 30 555-1234 jane@x.io")))

	require.NoError(t, d.Close())
	require.NoError(t, d.Close(), "closing twice is a no-op")

	assert.True(t, HasCode(d.Submit([]byte("get Doe")), RetCClosed))
	_, err := d.Drain(10)
	assert.True(t, HasCode(err, RetCClosed))
	_, err = d.Stats()
	assert.True(t, HasCode(err, RetCClosed))
}

func TestConcurrentSubmit(t *testing.T) {
	d := newTestDevice(t, &Options{QueueSize: 1 << 20})

	const workers = 8
	const perWorker = 50

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				line := fmt.Sprintf("insert F%d L%d-%d 1 2 e@x", i, w, i)
				assert.NoError(t, d.Submit([]byte(line)))
				assert.NoError(t, d.Submit([]byte(fmt.Sprintf("get L%d-%d", w, i))))
			}
		}(w)
	}
	wg.Wait()

	stats, err := d.Stats()
	require.NoError(t, err)
	assert.Equal(t, workers*perWorker, stats.Records)

	// every dump must be complete: outputs of concurrent commands never interleave
	out := drainAll(t, d)
	assert.Equal(t, workers*perWorker, strings.Count(out, "first name: "))
	for _, dump := range strings.SplitAfter(out, "email: e@x\n") {
		if dump == "" {
			continue
		}
		assert.True(t, strings.HasPrefix(dump, "first name: F"), "interleaved output: %q", dump)
	}
}

func TestMetricsExported(t *testing.T) {
	d := newTestDevice(t, nil)
	require.NoError(t, d.Submit([]byte("get Nobody")))
	require.NoError(t, d.Submit([]byte("bogus")))

	var buf bytes.Buffer
	metrics.WritePrometheus(&buf, false)
	out := buf.String()

	name := t.Name()
	assert.Contains(t, out, fmt.Sprintf(`dpb_commands_total{device=%q,outcome="not_found"} 1`, name))
	assert.Contains(t, out, fmt.Sprintf(`dpb_commands_total{device=%q,outcome="ignored"} 1`, name))
	assert.Contains(t, out, fmt.Sprintf(`dpb_output_queued_bytes{device=%q} 14`, name))
}

func TestErrorString(t *testing.T) {
	err := NewError(RetCInputTooLarge, "input too large: 2000 bytes (max 1024)")
	assert.Equal(t, "DeviceError (code InputTooLarge): input too large: 2000 bytes (max 1024)", err.Error())
	assert.False(t, HasCode(fmt.Errorf("plain"), RetCInputTooLarge))
	assert.True(t, HasCode(fmt.Errorf("wrapped: %w", err), RetCInputTooLarge))
}
