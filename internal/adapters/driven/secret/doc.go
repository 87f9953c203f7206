// Package secret provides driven.SecretStore implementations.
//
// Site passwords and application tokens never enter the database or
// config.toml. They are kept either in the macOS keychain (through the
// security command line tool) or in a 0600 TOML file in the application
// directory.
package secret
