// Package record implements the phone book record and the tokenizer used to
// read it from a command line.
//
// A field is a maximal run of non-whitespace bytes, whitespace being ASCII
// space and the control codes 9-13. There is no quoting or escaping, so a
// field can never contain whitespace. A NUL byte ends the input.
//
// Key Components:
//
//   - Cursor / ParseField: a read position over a byte slice and the
//     tokenizer that returns the next field as an owned string.
//
//   - Record / Parse: a five-field entry (first name, last name, age, phone
//     number, email). Parse succeeds only for exactly five fields; on failure
//     no partial record is returned.
//
//   - Format / String: the labelled multi-line dump written by the get
//     command.
//
//   - LoadYAML: reads contact files used by the import command.
package record
