// Package interp implements the command interpreter of the phone book
// line protocol.
//
// Protocol:
//
//	insert <first_name> <last_name> <age> <phone_number> <email>
//	    Adds a record. No output.
//	get <last_name>
//	    Writes the newest matching record as five labelled lines, or
//	    "Nothing found\n".
//	remove <last_name>
//	    Removes the newest matching record. No output.
//
// Tokens are separated by whitespace, command names are case-sensitive. Any
// other first token, a missing key or a malformed record drops the command
// without output and without changing the store. Execute returns an Outcome
// so callers can count or log these cases; the wire behavior is unaffected.
package interp
