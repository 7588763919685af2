// Package palette maps escape-time results to colors.
//
// Every strategy implements [Mapper]. The set is closed:
//
//   - [Grayscale]: linear gray ramp, black interior
//   - [Gradient]: piecewise-linear HSV ramp with a cyclic designer palette
//
// Constructors are looked up by key with [New]; "bw" and "gradient" are
// the registered names.
package palette
