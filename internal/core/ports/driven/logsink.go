package driven

import "github.com/quill-editor/quill/internal/core/domain"

// LogSink receives structured diagnostic messages from core services.
// How they are displayed or stored is up to the implementation.
type LogSink interface {
	Log(level domain.LogLevel, source, message string)
}
