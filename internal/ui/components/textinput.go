package components

import (
	"path/filepath"
	"slices"
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/circlez/internal/ui/theme"
)

// FileInput is a one-line filename prompt that only accepts a fixed set
// of extensions.
type FileInput struct {
	Model      textinput.Model
	Extensions []string
	errMsg     string
}

// NewFileInput creates a focused prompt prefilled with name.
func NewFileInput(name string, extensions ...string) FileInput {
	ti := textinput.New()
	ti.Prompt = "Save as: "
	ti.Placeholder = name
	ti.CharLimit = 255
	ti.SetValue(name)
	ti.CursorEnd()
	ti.Focus()
	return FileInput{Model: ti, Extensions: extensions}
}

// Init returns the cursor blink command.
func (f FileInput) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages.
func (f FileInput) Update(msg tea.Msg) (FileInput, tea.Cmd) {
	var cmd tea.Cmd
	f.Model, cmd = f.Model.Update(msg)
	f.errMsg = ""
	return f, cmd
}

// Value returns the trimmed input.
func (f FileInput) Value() string {
	return strings.TrimSpace(f.Model.Value())
}

// Validate checks the extension and records an error to show next to the
// input. It reports whether the value is acceptable.
func (f *FileInput) Validate() bool {
	v := f.Value()
	ext := strings.ToLower(filepath.Ext(v))
	if v == "" || !slices.Contains(f.Extensions, ext) {
		f.errMsg = "use " + strings.Join(f.Extensions, " or ")
		return false
	}
	return true
}

// View renders the input.
func (f FileInput) View() string {
	view := f.Model.View()
	if f.errMsg != "" {
		view += "  " + lipgloss.NewStyle().Foreground(theme.Error).Render("✗ "+f.errMsg)
	}
	return view
}
