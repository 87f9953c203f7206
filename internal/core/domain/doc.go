// Package domain defines the core business entities for Quill.
//
// This package is part of the hexagonal architecture's innermost layer
// and defines the fundamental types:
//
//   - Post: A blog post with its sync baseline
//   - SiteConfiguration: The connected remote site
//   - WritingSession: Words written on one day
//   - Settings: Typed application configuration
//   - RemotePost: A post as reported by the remote API
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. All other packages depend on
// domain, never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library, internal/normalisers/html (pure string
//     transforms used by the content hash)
//   - Cannot Import: Any other internal/ package
package domain
