package blocks

import "strings"

// Command is an entry of the slash-command palette.
type Command struct {
	Name        string
	Type        Type
	Description string
}

// Commands is the fixed slash-command palette, in display order.
var Commands = []Command{
	{Name: "Paragraph", Type: TypeParagraph, Description: "Plain text"},
	{Name: "Heading 1", Type: TypeHeading1, Description: "Large section heading"},
	{Name: "Heading 2", Type: TypeHeading2, Description: "Medium section heading"},
	{Name: "Heading 3", Type: TypeHeading3, Description: "Small section heading"},
	{Name: "Bulleted List", Type: TypeList, Description: "Unordered list"},
	{Name: "Numbered List", Type: TypeOrderedList, Description: "Ordered list"},
	{Name: "Code", Type: TypeCode, Description: "Preformatted code"},
	{Name: "Quote", Type: TypeQuote, Description: "Block quotation"},
	{Name: "Pullquote", Type: TypePullquote, Description: "Highlighted quotation"},
	{Name: "Image", Type: TypeImage, Description: "Image from a URL"},
}

// FilterCommands returns the commands whose name contains query,
// ignoring case. An empty query matches everything.
func FilterCommands(query string) []Command {
	query = strings.ToLower(strings.TrimSpace(query))
	var out []Command
	for _, c := range Commands {
		if strings.Contains(strings.ToLower(c.Name), query) {
			out = append(out, c)
		}
	}
	return out
}

// MenuState is the state of the slash-command menu.
type MenuState int

// Menu states.
const (
	MenuIdle MenuState = iota
	MenuSuggesting
)

// SlashMenu tracks the slash-command affordance for the focused block.
//
//	Idle --text starts with "/"--> Suggesting(query)
//	Suggesting --more typing--> Suggesting(query')
//	Suggesting --other text | Cancel | command run--> Idle
//
// The zero value is Idle.
type SlashMenu struct {
	state    MenuState
	query    string
	selected int
}

// State returns the current state.
func (m SlashMenu) State() MenuState {
	return m.state
}

// Active returns true while suggestions are shown.
func (m SlashMenu) Active() bool {
	return m.state == MenuSuggesting
}

// Query returns the text typed after the slash.
func (m SlashMenu) Query() string {
	return m.query
}

// TextChanged re-evaluates the menu against the block's new text.
func (m *SlashMenu) TextChanged(text string) {
	if !strings.HasPrefix(text, "/") {
		m.Cancel()
		return
	}

	query := strings.TrimPrefix(text, "/")
	if m.state != MenuSuggesting || query != m.query {
		m.selected = 0
	}
	m.state = MenuSuggesting
	m.query = query
}

// Cancel dismisses the menu.
func (m *SlashMenu) Cancel() {
	m.state = MenuIdle
	m.query = ""
	m.selected = 0
}

// Suggestions returns the filtered commands, or nil when idle.
func (m SlashMenu) Suggestions() []Command {
	if m.state != MenuSuggesting {
		return nil
	}
	return FilterCommands(m.query)
}

// SelectedIndex returns the highlighted suggestion.
func (m SlashMenu) SelectedIndex() int {
	return m.selected
}

// Selected returns the highlighted command.
func (m SlashMenu) Selected() (Command, bool) {
	suggestions := m.Suggestions()
	if len(suggestions) == 0 {
		return Command{}, false
	}
	return suggestions[clamp(m.selected, 0, len(suggestions)-1)], true
}

// SelectNext moves the highlight down, wrapping around.
func (m *SlashMenu) SelectNext() {
	if n := len(m.Suggestions()); n > 0 {
		m.selected = (clamp(m.selected, 0, n-1) + 1) % n
	}
}

// SelectPrev moves the highlight up, wrapping around.
func (m *SlashMenu) SelectPrev() {
	if n := len(m.Suggestions()); n > 0 {
		m.selected = (clamp(m.selected, 0, n-1) + n - 1) % n
	}
}
