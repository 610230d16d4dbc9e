// Package fakes provides test doubles for the ghenv store and platform
// interfaces.
//
// Fakes are manually implemented (not generated) in-memory stand-ins
// that behave like the real gh-backed stores, including GitHub's
// name upper-casing, so engine and command tests run without spawning
// subprocesses.
//
// Usage:
//
//	store := fakes.NewFakeStore("variables", github.ReadWrite).
//	    WithEntry("LOG_LEVEL", "info")
//	platform := fakes.NewFakePlatform("acme/widgets")
//	// Drive the engine against them...
package fakes
