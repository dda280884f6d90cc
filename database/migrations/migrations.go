// Package migrations holds the schema migrations. Each file registers
// itself from init(); cmd/rewear imports the package for the side
// effect so `rewear migrate` sees every migration.
package migrations
