package record

// --------------------------------------------------------------------------
// Cursor
// --------------------------------------------------------------------------

// Cursor is a read position inside a command line.
// The underlying bytes are never modified; every field returned by ParseField
// is an independent copy.
type Cursor struct {
	data []byte
	pos  int
}

// NewCursor creates a cursor at the start of data.
// A NUL byte marks the end of the input, everything after it is ignored.
func NewCursor(data []byte) *Cursor {
	for i, b := range data {
		if b == 0 {
			data = data[:i]
			break
		}
	}
	return &Cursor{data: data}
}

// Rest returns the unread bytes (without copying)
func (c *Cursor) Rest() []byte {
	return c.data[c.pos:]
}

// SkipSpace advances the cursor past any whitespace
func (c *Cursor) SkipSpace() {
	for c.pos < len(c.data) && IsSpace(c.data[c.pos]) {
		c.pos++
	}
}

// AtEnd reports whether all bytes have been consumed
func (c *Cursor) AtEnd() bool {
	return c.pos >= len(c.data)
}

// --------------------------------------------------------------------------
// Tokenizer
// --------------------------------------------------------------------------

// IsSpace reports whether b is a field separator: ASCII space or one of the
// control codes 9-13 (\t \n \v \f \r).
func IsSpace(b byte) bool {
	return (b >= 9 && b <= 13) || b == 32
}

// ParseField skips leading whitespace and returns the following maximal run
// of non-whitespace bytes as a newly allocated string. The cursor is advanced
// past the field.
//
// The boolean is false if no non-whitespace byte is left. This means both
// "end of input" and "empty field"; callers treat it as a parse failure.
func ParseField(c *Cursor) (string, bool) {
	c.SkipSpace()

	start := c.pos
	for c.pos < len(c.data) && !IsSpace(c.data[c.pos]) {
		c.pos++
	}

	if c.pos == start {
		return "", false
	}
	return string(c.data[start:c.pos]), true
}
