// Package output decodes completed-request records and renders the
// fixed-width trace lines.
//
// Decoding is pure: request flags become the compact rwbs label, the
// device number resolves through the partitions registry, and times
// are normalized against the first record seen in this run.
package output
