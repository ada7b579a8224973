// Package model defines the domain types shared across the vut CLI:
// the per-tree aggregate reconstructed from filesystem artifacts, the
// lifecycle status derived from which artifacts exist, and the CLIError
// type that carries process exit codes from domain code up to main.
//
// There is no persistent state of our own — everything in this package
// is a transient view over a viral_usher_trees checkout on disk.
package model
