// Package render samples a viewport into a raster of colors.
//
// [Render] enumerates every pixel of the (optionally supersampled) raster,
// partitions the rows into batches and evaluates the batches on a fixed
// pool of goroutines. Each pixel is mapped to the complex plane, solved
// for its escape time and colored by a [palette.Mapper].
//
// # Thread Safety
//
// Every batch writes a disjoint range of rows, so the raster is shared
// without locks. The output does not depend on worker count, batch size
// or completion order. [Progress] implementations are called from worker
// goroutines and must be safe for concurrent use.
//
// # Failure
//
// A failing batch (error or panic) cancels the remaining batches and the
// render returns no raster. Rendering is deterministic, so callers can
// simply retry.
package render
