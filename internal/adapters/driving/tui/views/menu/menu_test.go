package menu

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/unisearch/internal/adapters/driving/tui/messages"
)

func keyRune(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestNewView(t *testing.T) {
	v := NewView(nil)

	require.NotNil(t, v)
	assert.Equal(t, 0, v.Selected())
	require.Len(t, v.Items(), 4)
	assert.Equal(t, messages.ViewAsk, v.Items()[0].View)
	assert.True(t, v.Items()[3].Quit)
}

func TestView_Navigation(t *testing.T) {
	v := NewView(nil)

	v.Update(keyRune('k'))
	assert.Equal(t, 0, v.Selected())

	v.Update(keyRune('j'))
	v.Update(tea.KeyMsg{Type: tea.KeyDown})
	v.Update(tea.KeyMsg{Type: tea.KeyDown})
	v.Update(tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 3, v.Selected())

	v.Update(tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, 2, v.Selected())
}

func TestView_EnterChangesView(t *testing.T) {
	v := NewView(nil)
	v.Update(keyRune('j'))

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})

	require.NotNil(t, cmd)
	assert.Equal(t, messages.ViewChanged{View: messages.ViewDocuments}, cmd())
}

func TestView_QuitItem(t *testing.T) {
	v := NewView(nil)
	for range 3 {
		v.Update(keyRune('j'))
	}

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})

	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestView_QKeyQuits(t *testing.T) {
	_, cmd := NewView(nil).Update(keyRune('q'))

	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestView_Render(t *testing.T) {
	v := NewView(nil)
	assert.Equal(t, "Initialising...", v.View())

	v.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	view := v.View()

	assert.Contains(t, view, "unisearch")
	assert.Contains(t, view, "> Ask")
	assert.Contains(t, view, "Documents")
}
