// Package list provides list display components for the TUI.
package list

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/unisearch/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/unisearch/internal/core/domain"
)

// SourceList displays the citations behind an answer in a navigable list.
type SourceList struct {
	sources  []domain.Citation
	selected int
	styles   *styles.Styles
	width    int
	height   int
}

// NewSourceList creates a new source list component.
func NewSourceList(s *styles.Styles) *SourceList {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &SourceList{
		styles: s,
		width:  80,
		height: 10,
	}
}

// Init initialises the list.
func (l *SourceList) Init() tea.Cmd {
	return nil
}

// Update handles list navigation messages.
func (l *SourceList) Update(msg tea.Msg) (*SourceList, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "up", "k":
			l.MoveUp()
		case "down", "j":
			l.MoveDown()
		}
	}
	return l, nil
}

// View renders the list. The selected source shows its excerpt.
func (l *SourceList) View() string {
	if len(l.sources) == 0 {
		return l.styles.Muted.Render("No sources")
	}

	lines := make([]string, 0, len(l.sources)+3)
	lines = append(lines, l.styles.Subtitle.Render(fmt.Sprintf("Sources (%d)", len(l.sources))), "")

	// Two lines per unselected source, more for the expanded one.
	visible := (l.height - 4) / 2
	if visible < 1 {
		visible = 1
	}
	start := 0
	if l.selected >= visible {
		start = l.selected - visible + 1
	}
	end := min(start+visible, len(l.sources))

	for i := start; i < end; i++ {
		lines = append(lines, l.renderSource(i, &l.sources[i]))
	}

	return strings.Join(lines, "\n")
}

func (l *SourceList) renderSource(index int, src *domain.Citation) string {
	name := src.DisplayName
	if name == "" {
		name = src.SourceName
	}
	name = truncate(name, max(l.width-8, 10))

	if index != l.selected {
		return l.styles.Normal.Render(fmt.Sprintf("  [%d] %s", index+1, name))
	}

	line := l.styles.Selected.Render(fmt.Sprintf("> [%d] %s", index+1, name))
	if src.SourceName != "" && src.SourceName != name {
		line += "\n" + l.styles.Citation.Render("      "+src.SourceName)
	}
	if src.Excerpt != "" {
		line += "\n" + l.styles.Muted.Render("      "+truncate(src.Excerpt, max(l.width-8, 20)))
	}
	return line
}

// truncate shortens s to n runes with a trailing ellipsis.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-3]) + "..."
}

// SetSources replaces the list contents and resets the selection.
func (l *SourceList) SetSources(sources []domain.Citation) {
	l.sources = sources
	l.selected = 0
}

// Sources returns the current sources.
func (l *SourceList) Sources() []domain.Citation {
	return l.sources
}

// Selected returns the index of the selected source.
func (l *SourceList) Selected() int {
	return l.selected
}

// SelectedSource returns the currently selected source, or nil if none.
func (l *SourceList) SelectedSource() *domain.Citation {
	if l.selected < 0 || l.selected >= len(l.sources) {
		return nil
	}
	return &l.sources[l.selected]
}

// MoveUp moves selection up.
func (l *SourceList) MoveUp() {
	if l.selected > 0 {
		l.selected--
	}
}

// MoveDown moves selection down.
func (l *SourceList) MoveDown() {
	if l.selected < len(l.sources)-1 {
		l.selected++
	}
}

// SetDimensions sets the component dimensions.
func (l *SourceList) SetDimensions(width, height int) {
	l.width = width
	l.height = height
}

// Count returns the number of sources.
func (l *SourceList) Count() int {
	return len(l.sources)
}
