// Package lowdata converts decoded request bodies into ordered command
// batches ("low-data chunks") for submission to the runner.
//
// A body mapping expands positionally: list-valued fields must agree on a
// common length N and produce N chunks, scalar fields are broadcast into
// every chunk. Fields are opaque to the gateway - agents define what
// "fun", "tgt", "arg" and friends mean. Ill-paired lists fail the whole
// decode with a *PairingError; partial chunks are never submitted.
package lowdata
