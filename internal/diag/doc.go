// Package diag defines the diagnostic model used to report tolerated anomalies
// found while merging a source tree.
//
// # Purpose
//
// Fatal problems (malformed include directives, unresolvable internal headers,
// I/O failures) abort a merge through ordinary error returns. Everything the
// merge tolerates but a maintainer should know about is reported as a
// Diagnostic instead:
//
//   - an internal include left in a body file and replaced by a comment;
//   - a header never reached from the root header;
//   - a declaration rewritten to file-local linkage.
//
// # Data model
//
// Diagnostic is the central record. It contains:
//
//   - Severity – tri-level enum (Info, Warning, Error) defined in severity.go.
//   - Code – compact numeric identifier (see codes.go) with stable string form.
//   - Message – human oriented text; keep it short and actionable.
//   - Pos – origin file base name and 1-based line.
//
// Producers emit through a Reporter; BagReporter aggregates into a Bag, which
// supports sorting and filtering. Package diag does no IO and no formatting
// beyond the one-line Format helper used by the CLI.
package diag
