// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - PostStore: Post persistence, including atomic batch saves
//   - SiteStore: Site configuration persistence
//   - SessionStore: Writing session persistence
//   - SecretStore: Site passwords and application tokens
//   - RemoteClient: The blog's REST API
//   - ConfigStore: Application configuration
//   - LogSink: Diagnostic messages
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or connector package
package driven
