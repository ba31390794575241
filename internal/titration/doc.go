// Package titration turns ordered (volume, pH) samples into a titration
// curve analysis.
//
// Calculate derives the first-difference series, locates the end point at
// the steepest interval, and classifies the titration from the end-point pH.
// Recompute serves the interactive path: callers hand back either edited
// series (every delta is regenerated) or edited deltas (kept verbatim) and
// receive a fresh Result. Nothing in this package holds state between calls;
// a Result is a snapshot owned by whoever retains it.
package titration
