// Package file provides file-based implementations of driven port interfaces.
// These adapters persist data under the application directory (~/.quill or $QUILL_HOME).
//
// Adapters:
//   - ConfigStore: TOML-based configuration storage
package file
