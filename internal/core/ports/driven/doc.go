// Package driven defines the interfaces the core services require from
// infrastructure adapters: the record store, the transient publisher,
// the map platform and the run history store.
package driven
