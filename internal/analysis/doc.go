// Package analysis summarizes the escape-time distribution of a render.
//
//   - [Summarize]: interior fraction and escape-time extremes
//   - [Histogram]: bucketed escape times of the escaping points
//
// Both work on the per-pixel counts returned by render.Result, so the
// statistics describe the sampled (pre-downsampling) raster.
package analysis
