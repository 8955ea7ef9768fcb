// Package pipeline provides an ordered operation queue and the executor that replays it.
//
// A Queue is built first: entries are appended to its tail or inserted at its front, each entry
// pairing a label with an operation that takes a handle and returns the handle to give to the
// next entry. Once construction is over the queue is sealed into a Pipeline, which is immutable
// and can therefore be shared by many runs at the same time.
//
// A run applies every entry strictly in queue order and stops on the first failure. No entry is
// ever retried since operations are not assumed to be idempotent, and the handle may already have
// been modified by the failing entry.
//
// RunAll runs one job per input, each job with its own handle, with a bounded number of jobs in
// flight. A failing job does not stop its siblings; every failure is reported in a BatchError.
package pipeline
