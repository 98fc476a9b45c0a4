// Package testutil provides instrumented element types and fault injection
// for exercising construction, rollback and teardown.
package testutil
