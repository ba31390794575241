// Package main hosts the titrate CLI entrypoint and command graph.
//
// The Cobra command tree reads volume/pH data from files or stdin, runs the
// analyzer, and renders tables, reports, and exports. Saved runs live in the
// experiment history database; the interactive worksheet persists between
// invocations so cells can be overridden one command at a time.
//
// Keep this package thin: parsing, analysis, storage, and rendering belong in
// internal packages, and commands here only wire flags to them.
package main
