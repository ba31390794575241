// Package worksheet holds an editable copy of an analyzed run so volume, pH,
// and difference cells can be overridden one at a time and previewed before
// they are committed.
//
// Series edits (SetVolume, SetPH) rederive every difference and discard any
// earlier manual delta edits. Delta edits (SetDeltaPH, SetDeltaV) keep the
// supplied differences verbatim and only rerun the slope, end point, and
// classification. Neither path validates; Apply is the only gate.
//
// The CLI keeps one worksheet on disk between invocations. Load and Save go
// through Update, which holds an advisory file lock for the whole
// read-modify-write so two shells editing the same sheet serialize.
package worksheet
