// Package trace records what the lazy front end is doing: driver commands,
// passes (tokenize, parse, load) and per-module loads.
//
// Enable it from the command line:
//
//	lazyc diag --trace=- --trace-level=detail app.lazy
//
// Tracers:
//
//   - Nop: disabled tracing, zero overhead
//   - StreamTracer: writes every event as it happens
//   - RingTracer: keeps the last N events for a dump after a failure
//   - MultiTracer: fans out to several tracers
//
// Levels pick the coarsest scope that is still emitted: phase keeps
// driver and pass events, detail adds modules, debug adds everything.
//
// The tracer and the current span travel in a context.Context:
//
//	ctx = trace.WithTracer(ctx, tracer)
//	span := trace.Begin(trace.FromContext(ctx), trace.ScopePass, "parse", trace.CurrentSpan(ctx).SpanID)
//	defer span.End("")
package trace
