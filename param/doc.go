// Package param implements typed trace parameters: the tagged value variant
// over the parameter type set, the insertion-ordered parameter map, and the
// definition map that drives the layout of the unframed per-trace blob.
package param
