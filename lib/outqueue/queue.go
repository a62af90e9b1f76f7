package outqueue

// DefaultCapacity is the queue size used when no capacity is configured
const DefaultCapacity = 1024

// Queue is a fixed-capacity circular byte buffer.
//
// Writes never block and never fail: when the queue is full, the oldest
// unread byte is overwritten and the read cursor moves forward with it.
// The number of overwritten bytes is available via Dropped.
//
// Thread-safety: Queue is not thread-safe.
type Queue struct {
	buf     []byte
	begin   int    // read cursor
	end     int    // write cursor
	length  int    // number of unread bytes, tells full and empty apart when begin == end
	dropped uint64 // bytes lost to overwrites
}

// New creates a queue holding at most capacity bytes.
// A capacity < 1 falls back to DefaultCapacity.
func New(capacity int) *Queue {
	if capacity < 1 {
		capacity = DefaultCapacity
	}
	return &Queue{
		buf: make([]byte, capacity),
	}
}

// Push writes one byte at the write cursor.
func (q *Queue) Push(b byte) {
	q.buf[q.end] = b
	q.end = q.next(q.end)

	if q.length == len(q.buf) {
		// overwrote the oldest unread byte
		q.begin = q.next(q.begin)
		q.dropped++
		return
	}
	q.length++
}

// PushString writes every byte of s in order.
func (q *Queue) PushString(s string) {
	for i := 0; i < len(s); i++ {
		q.Push(s[i])
	}
}

// Drain removes and returns up to max unread bytes, oldest first.
// It returns an empty slice if the queue is empty or max < 1.
func (q *Queue) Drain(max int) []byte {
	n := q.length
	if max < n {
		n = max
	}
	if n <= 0 {
		return []byte{}
	}

	out := make([]byte, n)
	first := copy(out, q.buf[q.begin:min(q.begin+n, len(q.buf))])
	copy(out[first:], q.buf[:n-first])

	q.begin = (q.begin + n) % len(q.buf)
	q.length -= n
	return out
}

// Len returns the number of unread bytes
func (q *Queue) Len() int {
	return q.length
}

// Cap returns the capacity of the queue
func (q *Queue) Cap() int {
	return len(q.buf)
}

// Dropped returns the total number of bytes overwritten before they were read
func (q *Queue) Dropped() uint64 {
	return q.dropped
}

// next returns the cursor position after i
func (q *Queue) next(i int) int {
	i++
	if i == len(q.buf) {
		return 0
	}
	return i
}
