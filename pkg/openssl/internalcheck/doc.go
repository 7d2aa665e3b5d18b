// Package internalcheck holds repository policy tests. They load the
// wrapper packages with go/packages and fail on patterns the code review
// checklist would reject: hex-formatting of potentially sensitive buffers,
// and cgo usage outside the backend package.
package internalcheck
