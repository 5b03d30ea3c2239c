package domain

// Layer is a named data layer on the external map platform. The
// platform owns its lifecycle; mapsync only creates or refreshes it,
// never deletes it.
type Layer struct {
	// ID is the platform-assigned opaque identifier.
	ID string

	// Name is the human-readable layer name. Exactly one layer exists
	// per distinct name per map.
	Name string
}
