// Package writers turns a solved pair into serialized output.
//
// Design:
//   • Writers own all presentation choices (text lines, JSON, indentation).
//   • core/probpair stays domain-only; solveapp stays orchestration-only.
//   • JSON goes through pkg/api (v1) for a stable wire format.
package writers
