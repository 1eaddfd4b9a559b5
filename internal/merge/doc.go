// Package merge combines a tree of C sources into one translation unit.
//
// The root header is expanded in place: every internal include is replaced by
// the content of the named header, the first time it is seen, and by a
// placeholder comment afterwards. Body files follow in priority order with any
// remaining internal includes removed. Each emitted line keeps its origin,
// which the emitter turns into #line markers where the input is not
// contiguous.
package merge
