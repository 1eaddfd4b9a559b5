// Package trace provides structured tracing for amalgam runs.
//
// A merge is a short batch job, so tracing is mostly about seeing which phase
// did what: how many files were loaded, which headers were flattened and in
// what order, where duplicate includes were skipped.
//
// # Usage
//
//	amalgam merge --trace=- --trace-level=detail src/ out.c
//
// # Levels
//
//   - LevelOff: No tracing
//   - LevelError: Only ring dumps on failure
//   - LevelPhase: Driver and pass boundaries (load, classify, expand, emit)
//   - LevelDetail: Per-file events (header flattened, body emitted)
//   - LevelDebug: Everything
//
// # Context Propagation
//
// Tracers travel through context:
//
//	ctx = trace.WithTracer(ctx, tracer)
//	t := trace.FromContext(ctx)
//
//	span := trace.Begin(t, trace.ScopePass, "expand", parentID)
//	defer span.End("")
package trace
