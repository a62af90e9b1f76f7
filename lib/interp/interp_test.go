package interp

import (
	"strings"
	"testing"

	"github.com/ValentinKolb/dPB/lib/outqueue"
	"github.com/ValentinKolb/dPB/lib/record"
	"github.com/ValentinKolb/dPB/lib/store"
	"github.com/ValentinKolb/dPB/lib/store/lstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const janeDump = "first name: Jane\nlast name: Doe\nage: 30\nphone number: 555-1234\nemail: jane@x.io\n"

// setup creates an interpreter with a fresh store and output queue
func setup() (*Interpreter, store.IStore, *outqueue.Queue) {
	s := lstore.NewLocalStore()
	q := outqueue.New(outqueue.DefaultCapacity)
	return New(s, q), s, q
}

// drain returns everything queued so far
func drain(q *outqueue.Queue) string {
	return string(q.Drain(q.Cap()))
}

func TestInsertThenGet(t *testing.T) {
	i, s, q := setup()

	assert.Equal(t, OutcomeInserted, i.Execute([]byte("insert Jane Doe 30 555-1234 jane@x.io")))
	assert.Equal(t, 1, s.Len())
	assert.Empty(t, drain(q), "insert must not produce output")

	assert.Equal(t, OutcomeFound, i.Execute([]byte("get Doe")))
	assert.Equal(t, janeDump, drain(q))
}

func TestGetNothingFound(t *testing.T) {
	i, _, q := setup()

	assert.Equal(t, OutcomeNotFound, i.Execute([]byte("get Nobody")))
	assert.Equal(t, "Nothing found\n", drain(q))
}

func TestUnknownCommand(t *testing.T) {
	i, s, q := setup()
	i.Execute([]byte("insert Jane Doe 30 555-1234 jane@x.io"))

	for _, line := range []string{"bogus foo bar", "GET Doe", "Get Doe", "insertJane", "gets Doe", "", "   \n", "\x00get Doe"} {
		t.Run(line, func(t *testing.T) {
			assert.Equal(t, OutcomeIgnored, i.Execute([]byte(line)))
			assert.Empty(t, drain(q))
			assert.Equal(t, 1, s.Len(), "store must be unchanged")
		})
	}
}

func TestMalformedCommands(t *testing.T) {
	tests := []struct {
		name string
		line string
	}{
		{name: "get without key", line: "get"},
		{name: "get with whitespace only", line: "get   \t\n"},
		{name: "remove without key", line: "remove"},
		{name: "insert without fields", line: "insert"},
		{name: "insert four fields", line: "insert Jane Doe 30 555-1234"},
		{name: "insert six fields", line: "insert Jane Doe 30 555-1234 jane@x.io extra"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			i, s, q := setup()

			assert.Equal(t, OutcomeMalformed, i.Execute([]byte(tt.line)))
			assert.Empty(t, drain(q))
			assert.Equal(t, 0, s.Len())
		})
	}
}

func TestRoundTripFieldOrder(t *testing.T) {
	i, _, q := setup()
	want := record.Record{FirstName: "Ada", LastName: "Lovelace", Age: "36", PhoneNumber: "+44-20-0000", Email: "ada@engine.org"}

	require.Equal(t, OutcomeInserted, i.Execute([]byte(want.InsertLine()+"\n")))
	require.Equal(t, OutcomeFound, i.Execute([]byte("get Lovelace\n")))

	// the dump must parse back into the same values, in label order
	got, err := record.ParseBytes([]byte(stripLabels(drain(q))))
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestDuplicateLastNameNewestWins(t *testing.T) {
	i, _, q := setup()

	i.Execute([]byte("insert Jane Doe 30 555-1234 jane@x.io"))
	i.Execute([]byte("insert John Doe 41 555-9876 john@x.io"))

	i.Execute([]byte("get Doe"))
	assert.Contains(t, drain(q), "first name: John\n")
}

func TestRemoveAtMostOne(t *testing.T) {
	i, s, q := setup()

	i.Execute([]byte("insert Jane Doe 30 555-1234 jane@x.io"))
	i.Execute([]byte("insert John Doe 41 555-9876 john@x.io"))

	assert.Equal(t, OutcomeRemoved, i.Execute([]byte("remove Doe")))
	assert.Empty(t, drain(q), "remove must not produce output")
	assert.Equal(t, 1, s.Len())

	i.Execute([]byte("get Doe"))
	assert.Equal(t, janeDump, drain(q))

	assert.Equal(t, OutcomeRemoved, i.Execute([]byte("remove Doe")))
	assert.Equal(t, OutcomeNoMatch, i.Execute([]byte("remove Doe")))
	assert.Empty(t, drain(q), "remove of a missing record must not produce output")

	i.Execute([]byte("get Doe"))
	assert.Equal(t, NothingFound, drain(q))
}

func TestGetIgnoresExtraTokens(t *testing.T) {
	i, _, q := setup()
	i.Execute([]byte("insert Jane Doe 30 555-1234 jane@x.io"))

	assert.Equal(t, OutcomeFound, i.Execute([]byte("get Doe Smith")))
	assert.Equal(t, janeDump, drain(q))
}

func TestKeyIsCaseSensitive(t *testing.T) {
	i, _, q := setup()
	i.Execute([]byte("insert Jane Doe 30 555-1234 jane@x.io"))

	assert.Equal(t, OutcomeNotFound, i.Execute([]byte("get doe")))
	assert.Equal(t, NothingFound, drain(q))
}

func TestOutputAccumulates(t *testing.T) {
	i, _, q := setup()
	i.Execute([]byte("insert Jane Doe 30 555-1234 jane@x.io"))

	i.Execute([]byte("get Nobody"))
	i.Execute([]byte("get Doe"))
	assert.Equal(t, NothingFound+janeDump, drain(q))
}

func TestOutcomeCommand(t *testing.T) {
	assert.Equal(t, CmdGet, OutcomeFound.Command())
	assert.Equal(t, CmdGet, OutcomeNotFound.Command())
	assert.Equal(t, CmdInsert, OutcomeInserted.Command())
	assert.Equal(t, CmdRemove, OutcomeRemoved.Command())
	assert.Equal(t, CmdRemove, OutcomeNoMatch.Command())
	assert.Equal(t, "", OutcomeIgnored.Command())
	assert.Equal(t, "", OutcomeMalformed.Command())
	assert.Equal(t, "not_found", OutcomeNotFound.String())
}

// stripLabels turns a record dump back into the five field values
func stripLabels(dump string) string {
	for _, label := range []string{"first name: ", "last name: ", "age: ", "phone number: ", "email: "} {
		dump = strings.Replace(dump, label, "", 1)
	}
	return dump
}
