// Package experiments persists analyzed titration runs in SQLite so they can
// be listed, reloaded, re-reported, and deleted later.
//
// A Record keeps the raw volume/pH series next to the end point computed when
// it was saved and the chart layout in effect at the time. The derived
// difference series are not stored; callers rerun titration.Calculate on the
// saved series when they need them.
//
// Schema changes bump schemaVersion in schema.go. Databases created with a
// different version are rejected with ErrSchemaMismatch rather than migrated.
package experiments
