package interp

import (
	"github.com/ValentinKolb/dPB/lib/record"
	"github.com/ValentinKolb/dPB/lib/store"
)

// Protocol command names (case-sensitive)
const (
	CmdGet    = "get"
	CmdInsert = "insert"
	CmdRemove = "remove"
)

// NothingFound is written by get if no record matches
const NothingFound = "Nothing found\n"

// Output receives the formatted result of a command.
// Each call carries the complete output of one command.
type Output interface {
	PushString(s string)
}

// Interpreter executes protocol command lines against a store.
// It holds no state of its own between calls.
//
// Thread-safety: Interpreter is not thread-safe, it is exactly as safe as the
// store and output it was created with.
type Interpreter struct {
	store  store.IStore
	output Output
}

// New creates an interpreter operating on the given store and output
func New(s store.IStore, out Output) *Interpreter {
	return &Interpreter{
		store:  s,
		output: out,
	}
}

// Execute runs a single command line.
//
// Malformed or unknown commands are dropped silently: nothing is written to
// the output and the store is not changed. The returned Outcome tells the
// caller what happened, it is never written to the output.
func (i *Interpreter) Execute(line []byte) Outcome {
	c := record.NewCursor(line)

	cmd, ok := record.ParseField(c)
	if !ok {
		return OutcomeIgnored
	}

	switch cmd {
	case CmdGet:
		return i.get(c)
	case CmdInsert:
		return i.insert(c)
	case CmdRemove:
		return i.remove(c)
	default:
		return OutcomeIgnored
	}
}

// --------------------------------------------------------------------------
// Command Handlers
// --------------------------------------------------------------------------

// get writes the newest record with the given last name or NothingFound.
// Tokens after the key are ignored.
func (i *Interpreter) get(c *record.Cursor) Outcome {
	key, ok := record.ParseField(c)
	if !ok {
		return OutcomeMalformed
	}

	r, found := i.store.FindByLastName(key)
	if !found {
		i.output.PushString(NothingFound)
		return OutcomeNotFound
	}

	i.output.PushString(r.String())
	return OutcomeFound
}

// insert parses the remainder as a record and adds it to the store
func (i *Interpreter) insert(c *record.Cursor) Outcome {
	r, err := record.Parse(c)
	if err != nil {
		return OutcomeMalformed
	}

	i.store.Insert(r)
	return OutcomeInserted
}

// remove deletes the newest record with the given last name. It never writes output.
func (i *Interpreter) remove(c *record.Cursor) Outcome {
	key, ok := record.ParseField(c)
	if !ok {
		return OutcomeMalformed
	}

	if i.store.RemoveByLastName(key) {
		return OutcomeRemoved
	}
	return OutcomeNoMatch
}
