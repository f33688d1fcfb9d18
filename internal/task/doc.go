// Package task defines the task record, its status lanes, and the codec
// that turns a task collection into the single string kept in storage.
//
// The persisted format is a compact JSON array in insertion order:
//
//	[
//	  {"id":0,"name":"Write report","type":"Work","status":"To Do"},
//	  {"id":1,"name":"Buy milk","type":"Personal","status":"In Progress"}
//	]
//
// (shown indented here; Encode writes it on one line with no HTML
// escaping and with U+2028/U+2029 left unescaped, matching snapshots
// written by the browser version of the board).
//
// # Status Values
//
//   - "To Do": the task has not been started (every new task)
//   - "In Progress": the task is being worked on
//   - "Completed": the task is finished
//
// Status is a closed enumeration in Go; the labels above are only used on
// the wire and for display. ParseStatus also accepts the short aliases
// todo, doing, in-progress, and done.
//
// # Validation
//
// Decode validates the document against an embedded JSON Schema
// (draft 2020-12) before converting it:
//   - the document is an array of objects
//   - id, name, type, and status are required
//   - id is a non-negative integer below the largest int
//   - name and type are not blank after strings.TrimSpace
//   - status is one of the three labels
//
// Identifiers must also be pairwise distinct. Any failure is reported as
// a *DecodeError; an empty, absent, or "null" value decodes to an empty
// collection.
package task
