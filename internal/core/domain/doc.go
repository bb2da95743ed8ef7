// Package domain holds the types every other layer talks in: corpus
// records and their chunks, poll answers, the hard filters derived from
// them, the tagged retrieval outcome and the final recommendation with its
// Result wrapper.
//
// The package imports nothing outside the standard library. Adapters and
// services depend on it; it depends on none of them.
package domain
