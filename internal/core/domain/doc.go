// Package domain defines the core business entities for medmart.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - FilterState: Price/duration/template/sort criteria chosen by the user
//   - QueryParameterSet: The serialised location (address bar) state
//   - ButtonWindow: The visible slice of page-selector buttons
//   - DoctorService, ServiceTemplate: Catalog entries offered by doctors
//   - User, Session: Account and authentication state
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
