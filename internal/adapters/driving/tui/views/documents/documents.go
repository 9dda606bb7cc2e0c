// Package documents provides the document inventory view for the TUI.
package documents

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/unisearch/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/unisearch/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/unisearch/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/unisearch/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/unisearch/internal/core/domain"
	"github.com/custodia-labs/unisearch/internal/core/ports/driving"
)

// ErrNoDocumentService indicates that no document service was provided.
var ErrNoDocumentService = errors.New("document service is required")

const (
	timeFormat     = "2006-01-02 15:04"
	previewLength  = 400
	sectionPreview = 120
)

// View lists the loaded documents and shows one in detail.
type View struct {
	styles          *styles.Styles
	keymap          *keymap.KeyMap
	statusbar       *status.Bar
	documentService driving.DocumentService
	ctx             context.Context

	inventory     domain.Inventory
	selected      int
	scrollOffset  int
	detail        *domain.Document
	confirmRemove bool
	width         int
	height        int
	ready         bool
	err           error
}

// NewView creates a new documents view.
func NewView(s *styles.Styles, km *keymap.KeyMap, documentService driving.DocumentService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	bar := status.NewBar(s, km)
	bar.SetState(status.StateBrowsing)

	return &View{
		styles:          s,
		keymap:          km,
		statusbar:       bar,
		documentService: documentService,
		ctx:             context.Background(),
		width:           80,
		height:          24,
	}
}

// WithContext sets the context for the view.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init loads the inventory.
func (v *View) Init() tea.Cmd {
	return v.loadInventory()
}

func (v *View) loadInventory() tea.Cmd {
	return func() tea.Msg {
		if v.documentService == nil {
			return messages.ErrorOccurred{Err: ErrNoDocumentService}
		}
		return messages.InventoryLoaded{Inventory: v.documentService.List(v.ctx)}
	}
}

func (v *View) loadDocument(id string) tea.Cmd {
	return func() tea.Msg {
		if v.documentService == nil {
			return messages.ErrorOccurred{Err: ErrNoDocumentService}
		}
		doc, err := v.documentService.Get(v.ctx, id)
		return messages.DocumentLoaded{Document: doc, Err: err}
	}
}

func (v *View) removeSource(sourceName string) tea.Cmd {
	return func() tea.Msg {
		if v.documentService == nil {
			return messages.ErrorOccurred{Err: ErrNoDocumentService}
		}
		removed := v.documentService.Remove(v.ctx, sourceName)
		return messages.SourceRemoved{SourceName: sourceName, Removed: removed}
	}
}

// Update handles messages for the documents view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.InventoryLoaded:
		v.inventory = msg.Inventory
		v.err = nil
		if v.selected >= len(v.inventory.Documents) {
			v.selected = max(len(v.inventory.Documents)-1, 0)
		}
		v.adjustScroll()
		v.statusbar.SetMessage(fmt.Sprintf("%d document(s)", v.inventory.TotalDocuments))
		return v, nil

	case messages.DocumentLoaded:
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		doc := msg.Document
		v.detail = &doc
		return v, nil

	case messages.SourceRemoved:
		if !msg.Removed {
			v.err = fmt.Errorf("no documents found for source: %s", msg.SourceName)
			return v, nil
		}
		v.statusbar.SetMessage("Removed " + msg.SourceName)
		return v, v.loadInventory()

	case messages.ErrorOccurred:
		v.err = msg.Err
		return v, nil
	}

	return v, nil
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	keyStr := msg.String()

	if v.confirmRemove {
		v.confirmRemove = false
		if keyStr == "y" {
			if doc := v.SelectedDocument(); doc != nil {
				return v, v.removeSource(doc.SourceName)
			}
		}
		return v, nil
	}

	if v.detail != nil {
		if keymap.Matches(keyStr, v.keymap.Back) {
			v.detail = nil
		}
		return v, nil
	}

	switch {
	case keymap.Matches(keyStr, v.keymap.Back):
		return v, changeView(messages.ViewMenu)
	case keymap.Matches(keyStr, v.keymap.SwitchView):
		return v, changeView(messages.ViewAsk)
	case keymap.Matches(keyStr, v.keymap.Up):
		if v.selected > 0 {
			v.selected--
			v.adjustScroll()
		}
	case keymap.Matches(keyStr, v.keymap.Down):
		if v.selected < len(v.inventory.Documents)-1 {
			v.selected++
			v.adjustScroll()
		}
	case keymap.Matches(keyStr, v.keymap.Select):
		if doc := v.SelectedDocument(); doc != nil {
			return v, v.loadDocument(doc.ID)
		}
	case keymap.Matches(keyStr, v.keymap.Remove):
		if v.SelectedDocument() != nil {
			v.confirmRemove = true
		}
	case keymap.Matches(keyStr, v.keymap.Reload):
		return v, v.loadInventory()
	}

	return v, nil
}

func changeView(view messages.ViewType) tea.Cmd {
	return func() tea.Msg {
		return messages.ViewChanged{View: view}
	}
}

// adjustScroll keeps the selected item visible.
func (v *View) adjustScroll() {
	visible := v.visibleItemCount()
	if v.selected < v.scrollOffset {
		v.scrollOffset = v.selected
	} else if v.selected >= v.scrollOffset+visible {
		v.scrollOffset = v.selected - visible + 1
	}
}

func (v *View) visibleItemCount() int {
	// Title, separator, help and status.
	return max(v.height-8, 1)
}

// View renders the documents view.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render(fmt.Sprintf("Documents (%d)", v.inventory.TotalDocuments)))
	b.WriteString("\n\n")

	if v.err != nil {
		b.WriteString(v.styles.Error.Render("Error: " + v.err.Error()))
		b.WriteString("\n\n")
	}

	switch {
	case v.detail != nil:
		b.WriteString(v.renderDetail(v.detail))
	case len(v.inventory.Documents) == 0:
		b.WriteString(v.styles.Muted.Render("No documents loaded. Add one with 'unisearch add <file>'."))
	default:
		b.WriteString(v.renderList())
	}

	b.WriteString("\n\n")
	if v.confirmRemove {
		if doc := v.SelectedDocument(); doc != nil {
			b.WriteString(v.styles.Warning.Render(fmt.Sprintf("Remove every document of %s? [y/N]", doc.SourceName)))
			b.WriteString("\n")
		}
	}
	b.WriteString(v.statusbar.View())

	return b.String()
}

func (v *View) renderList() string {
	var b strings.Builder
	nameWidth := max(v.width/2-4, 10)
	docs := v.inventory.Documents
	visible := v.visibleItemCount()

	for i := v.scrollOffset; i < len(docs) && i < v.scrollOffset+visible; i++ {
		doc := docs[i]
		name := doc.DisplayName
		if name == "" {
			name = doc.ID
		}
		if len([]rune(name)) > nameWidth {
			name = string([]rune(name)[:nameWidth-3]) + "..."
		}
		info := fmt.Sprintf("%s  %d words", doc.ID, doc.WordCount)

		if i == v.selected {
			b.WriteString(v.styles.Selected.Render(fmt.Sprintf("> %-*s  %s", nameWidth, name, info)))
		} else {
			b.WriteString(v.styles.Normal.Render(fmt.Sprintf("  %-*s  ", nameWidth, name)))
			b.WriteString(v.styles.Muted.Render(info))
		}
		b.WriteString("\n")
	}

	if len(docs) > visible {
		b.WriteString(v.styles.Muted.Render(fmt.Sprintf("  [%d-%d of %d]",
			v.scrollOffset+1, min(v.scrollOffset+visible, len(docs)), len(docs))))
	}

	return b.String()
}

func (v *View) renderDetail(doc *domain.Document) string {
	var b strings.Builder

	b.WriteString(v.styles.Subtitle.Render(doc.DisplayName))
	b.WriteString("\n")
	b.WriteString(v.styles.Muted.Render(fmt.Sprintf("%s · %s · %d words · updated %s",
		doc.ID, doc.SourceName, doc.WordCount, doc.LastUpdated.Local().Format(timeFormat))))
	b.WriteString("\n\n")

	sections := []struct {
		label string
		text  string
	}{
		{"Fees", doc.Sections.Fees},
		{"Admissions", doc.Sections.Admissions},
		{"Programs", doc.Sections.Programs},
		{"Accommodation", doc.Sections.Accommodation},
		{"Contact", doc.Sections.Contact},
		{"Application process", doc.Sections.ApplicationProcess},
	}
	for _, sec := range sections {
		if sec.text == "" {
			continue
		}
		b.WriteString(v.styles.Citation.Render(sec.label + ": "))
		b.WriteString(v.styles.Normal.Render(shorten(sec.text, sectionPreview)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(v.styles.Answer.Width(max(v.width-4, 20)).Render(shorten(doc.Content, previewLength)))
	b.WriteString("\n\n")
	b.WriteString(v.styles.Help.Render("[esc] back to list"))

	return b.String()
}

// shorten collapses whitespace and caps s at n runes.
func shorten(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
	v.statusbar.SetWidth(width)
}

// Inventory returns the loaded inventory.
func (v *View) Inventory() domain.Inventory {
	return v.inventory
}

// SelectedIndex returns the currently selected document index.
func (v *View) SelectedIndex() int {
	return v.selected
}

// SelectedDocument returns the summary of the selected document.
func (v *View) SelectedDocument() *domain.DocumentSummary {
	if v.selected < 0 || v.selected >= len(v.inventory.Documents) {
		return nil
	}
	return &v.inventory.Documents[v.selected]
}

// Detail returns the document shown in the detail pane, or nil.
func (v *View) Detail() *domain.Document {
	return v.detail
}

// ConfirmingRemove reports whether a remove prompt is showing.
func (v *View) ConfirmingRemove() bool {
	return v.confirmRemove
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}
