// Package drawbot implements a stateful, stack-based 2D drawing engine.
//
// A Context accumulates drawing state (paths, colors, gradients, shadows,
// text styles) and dispatches draw calls to a pluggable RenderBackend.
// Backends turn the accumulated state into concrete output: a recorded
// command log, a trace stream, a raster preview image, or a PDF document.
//
//	be := record.New()
//	ctx := drawbot.New(be)
//	ctx.Size(400, 400)
//	ctx.NewPage(0, 0)
//	ctx.SetFill(drawbot.RGB(1, 0, 0))
//	ctx.Rect(10, 10, 100, 100)
//
// The engine is single-threaded: a Context and its state must not be
// mutated concurrently. Structural misuse (path operations without a path,
// restore without save, drawing without a page) fails fast with a sentinel
// error; font substitution produces non-fatal warnings instead.
package drawbot
