package driven

// MarkdownConverter turns a Markdown document into post HTML.
type MarkdownConverter interface {
	// Convert renders source and returns the title taken from its first
	// level-one heading, if any, and the sanitised HTML of the rest.
	Convert(source []byte) (title, content string, err error)
}
