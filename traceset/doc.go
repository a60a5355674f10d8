// Package traceset implements the two trace set lifecycles: the
// random-access Reader over a sliding memory-mapped window, and the
// streaming Writer that binds its layout from the first appended trace and
// patches the header on close.
package traceset
