// Package series shapes raw sensor samples into plot-ready frames.
//
// Every function is pure: inputs are never mutated and each result is a
// freshly allocated frame owned by the caller.
package series
