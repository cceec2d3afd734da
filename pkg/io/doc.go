// Package io reads and writes nests and runs in their text and report formats.
//
// # Nest Format
//
// A nest file is line oriented. Blank lines and lines starting with # are
// skipped:
//
//	f=5
//	S1 { 2 }
//	S2
//	Sv - S1
//	S1 - S2
//	S2 - Sd
//
// Each remaining line is one of:
//
//   - f=<n>: the number of ants
//   - <room> { <capacity> }: a room with the given capacity
//   - <room>: a room with capacity 1
//   - <a> - <b>: a tunnel, split at the first dash
//
// Room names are word characters only. The source Sv and the sink Sd are
// implicit: they exist whether or not the file declares them, and a capacity
// given for either is ignored.
//
// Use [ImportNest] to read a file (the nest is named after the file stem) or
// [ReadNest] for any io.Reader. [WriteNest] emits the same format.
//
// # Solution Format
//
// [WriteSolution] prints the moves of a run one step at a time:
//
//	# simple: 2 ants
//	+++ E1 +++
//	f1 - Sv - S1
//	+++ E2 +++
//	f1 - S1 - Sd
//	f2 - Sv - S1
//	+++ E3 +++
//	f2 - S1 - Sd
//	# delivered in 3 steps
//
// # Reports
//
// [WriteJSON], [WriteYAML], [ReadJSON] and [ReadYAML] handle the structured
// [graph.Report] form of a run.
//
// [graph.Report]: github.com/matzehuels/antnest/pkg/graph.Report
package io
