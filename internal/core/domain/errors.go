package domain

import "errors"

// Domain errors represent pipeline step failures.
// Adapters wrap these so the orchestrator and tests can classify
// failures with errors.Is without depending on adapter packages.
var (
	// ErrFetch indicates the record store was unreachable or rejected the query.
	ErrFetch = errors.New("record fetch failed")

	// ErrSerialization indicates CSV encoding failed.
	// Data-shape issues (missing fields) are tolerated and never raise this.
	ErrSerialization = errors.New("csv serialization failed")

	// ErrTunnel indicates the publisher could not establish a public endpoint.
	ErrTunnel = errors.New("tunnel establishment failed")

	// ErrLayerSync indicates the map platform returned a non-success
	// status or a malformed response for list, create or refresh.
	ErrLayerSync = errors.New("layer sync failed")

	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")
)
