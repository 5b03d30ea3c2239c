// Package services contains the core pipeline logic: CSV projection,
// layer synchronisation and the run orchestrator. Services depend only
// on domain types and driven ports, never on adapter packages.
package services
