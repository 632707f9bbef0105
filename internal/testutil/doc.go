// Package testutil provides deterministic time and ID sources for tests
// that persist timestamps and generated identifiers.
package testutil
