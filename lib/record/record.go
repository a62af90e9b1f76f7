package record

import (
	"errors"
	"fmt"
	"strings"
)

// --------------------------------------------------------------------------
// Record Structure
// --------------------------------------------------------------------------

// Record is a single phone book entry.
// All fields are non-empty and contain no whitespace. Age and PhoneNumber are
// opaque strings, they are never parsed as numbers.
type Record struct {
	FirstName   string `json:"first_name" yaml:"first_name"`
	LastName    string `json:"last_name" yaml:"last_name"`
	Age         string `json:"age" yaml:"age"`
	PhoneNumber string `json:"phone_number" yaml:"phone_number"`
	Email       string `json:"email" yaml:"email"`
}

// fieldNames is the fixed field order used by the parser and the dump format
var fieldNames = [5]string{"first name", "last name", "age", "phone number", "email"}

// fields returns pointers to the record fields in protocol order
func (r *Record) fields() [5]*string {
	return [5]*string{&r.FirstName, &r.LastName, &r.Age, &r.PhoneNumber, &r.Email}
}

// --------------------------------------------------------------------------
// Errors
// --------------------------------------------------------------------------

var (
	// ErrMissingField is returned if the input ends before all five fields were read
	ErrMissingField = errors.New("missing field")
	// ErrTrailingData is returned if there are tokens left after the fifth field
	ErrTrailingData = errors.New("unexpected trailing data")
	// ErrInvalidField is returned by Validate for empty fields or fields containing whitespace
	ErrInvalidField = errors.New("invalid field")
)

// --------------------------------------------------------------------------
// Parsing
// --------------------------------------------------------------------------

// Parse reads exactly five fields (first name, last name, age, phone number,
// email) from the cursor. After the fifth field only whitespace may follow.
//
// The record is built as a local value and only returned on success, so a
// failed parse never leaks a partially filled record.
func Parse(c *Cursor) (Record, error) {
	var candidate Record

	for i, field := range candidate.fields() {
		value, ok := ParseField(c)
		if !ok {
			return Record{}, fmt.Errorf("%w: %s", ErrMissingField, fieldNames[i])
		}
		*field = value
	}

	c.SkipSpace()
	if !c.AtEnd() {
		return Record{}, fmt.Errorf("%w: %q", ErrTrailingData, c.Rest())
	}

	return candidate, nil
}

// ParseBytes is a shorthand for Parse(NewCursor(data))
func ParseBytes(data []byte) (Record, error) {
	return Parse(NewCursor(data))
}

// Validate checks that every field is a single non-empty token.
// Records built by Parse are always valid; this is used for records from other
// sources (e.g. import files).
func (r Record) Validate() error {
	for i, field := range r.fields() {
		if *field == "" {
			return fmt.Errorf("%w: %s is empty", ErrInvalidField, fieldNames[i])
		}
		for j := 0; j < len(*field); j++ {
			if IsSpace((*field)[j]) || (*field)[j] == 0 {
				return fmt.Errorf("%w: %s contains whitespace", ErrInvalidField, fieldNames[i])
			}
		}
	}
	return nil
}

// --------------------------------------------------------------------------
// Formatting
// --------------------------------------------------------------------------

// String returns the labelled dump of the record, one field per line, each
// line terminated by a newline:
//
//	first name: Jane
//	last name: Doe
//	age: 30
//	phone number: 555-1234
//	email: jane@x.io
func (r Record) String() string {
	var sb strings.Builder
	r.Format(&sb)
	return sb.String()
}

// Format appends the labelled dump of the record to sb
func (r Record) Format(sb *strings.Builder) {
	for i, field := range r.fields() {
		sb.WriteString(fieldNames[i])
		sb.WriteString(": ")
		sb.WriteString(*field)
		sb.WriteByte('\n')
	}
}

// InsertLine returns the protocol command that inserts this record
func (r Record) InsertLine() string {
	return strings.Join([]string{"insert", r.FirstName, r.LastName, r.Age, r.PhoneNumber, r.Email}, " ")
}
