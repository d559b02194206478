// Package testutil provides deterministic fixtures shared by package tests:
// a recording Processor and an in-memory method signature.
//
// testutil depends only on cil and ir so that engine tests can use it
// without an import cycle.
package testutil
