// Package report renders analyzed titrations as plain-text summaries and
// difference tables.
//
// Numbers go through a Formatter so a configured locale and precision apply
// everywhere a value is printed. The end-point interval is starred in the
// difference table and optionally highlighted with ANSI color.
package report
