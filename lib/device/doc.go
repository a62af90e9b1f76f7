/*
Package device couples a phone book store with a command interpreter and a
bounded output queue, exposing the whole thing as a byte-stream device.

Writers submit one command line per Submit call:

	insert <first> <last> <age> <phone> <email>
	get <last>
	remove <last>

Readers pull formatted results with Drain. Output that is not drained in time
is overwritten oldest-first once the queue is full; Stats reports how many
bytes were lost that way.

A device is safe for concurrent use. Commands are applied one at a time and
the output of a single command is queued atomically, so concurrent readers
never observe a partial record dump.

Every device exports VictoriaMetrics counters labeled with its name
(dpb_commands_total, dpb_input_rejected_total, dpb_output_dropped_bytes_total,
dpb_command_duration_seconds) and the gauges dpb_records and
dpb_output_queued_bytes.
*/
package device
