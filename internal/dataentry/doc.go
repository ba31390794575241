// Package dataentry turns typed or pasted measurement text into the volume
// and pH series the titration engine consumes.
//
// Pasted blocks are split per line on tab, then comma, then whitespace, so a
// spreadsheet selection, a CSV export, and hand-typed columns all parse the
// same way. Header lines and other non-numeric rows are skipped rather than
// rejected.
package dataentry
