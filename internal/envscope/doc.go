// Package envscope reads persisted environment variables and gives access to
// the live process environment.
//
// A persisted value lives outside the running process: in the Windows
// registry, or in environment files on other platforms. Child processes such
// as package managers write persisted values, but those writes never reach the
// parent's in-memory environment. This package provides the two views needed
// to reconcile them:
//
//   - Reader reads a variable at one Scope, or concatenates it across several.
//   - LiveEnv gets and sets the in-memory value of the current process.
//
// Reads are best effort. A scope that is unset, or that cannot be read, yields
// the empty string rather than an error.
package envscope
