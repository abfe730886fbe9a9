// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - CatalogAPI: Service listings and templates on the marketplace backend
//   - AuthAPI: Login and signup
//   - UserAPI: Profile of the signed-in user
//   - SessionStore: Persisted authentication session
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - LocationStore: Location history. Without it, --last and history are unavailable.
//   - BookmarkStore: Saved locations. Without it, bookmarks are unavailable.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
