// Package pagestore provides reference implementations of pagekv's
// PageCache collaborator. Neither implementation here is a real
// log-structured write-ahead store -- they exist so the core is
// runnable and testable end-to-end.
package pagestore

import "errors"

// ErrPageNotFound is returned when a PageId has never been allocated (or
// has been deallocated) by the store being asked about it.
var ErrPageNotFound = errors.New("pagestore: page not found")
