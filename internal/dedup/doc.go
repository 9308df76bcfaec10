// Package dedup finds items that share a fingerprint and remembers which of
// them are duplicates.
//
// Collector is a terminal stage that groups items by fingerprint in
// first-seen order. RecordDuplicates persists one Record per duplicate item
// (never for the original) under (partition, "duplicate", axis, id), and the
// Filter stage drops or keeps items according to those records until Forget
// removes them. The axis names the dimension of comparison, so one item set
// can carry several independent classifications.
package dedup
