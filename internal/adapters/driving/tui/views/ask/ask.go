// Package ask provides the question and answer view for the TUI.
package ask

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/unisearch/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/unisearch/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/unisearch/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/unisearch/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/unisearch/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/unisearch/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/unisearch/internal/core/domain"
	"github.com/custodia-labs/unisearch/internal/core/ports/driving"
)

// View is the ask view: a question input, the answer and its sources.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	input     *input.QuestionInput
	sources   *list.SourceList
	statusbar *status.Bar

	answerService driving.AnswerService
	ctx           context.Context

	width      int
	height     int
	ready      bool
	err        error
	focusInput bool // true while typing, false while reading an answer
	asking     bool
	question   string
	result     *domain.AnswerResult
}

// NewView creates a new ask view.
func NewView(s *styles.Styles, km *keymap.KeyMap, answerService driving.AnswerService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &View{
		styles:        s,
		keymap:        km,
		input:         input.NewQuestionInput(s),
		sources:       list.NewSourceList(s),
		statusbar:     status.NewBar(s, km),
		answerService: answerService,
		ctx:           context.Background(),
		width:         80,
		height:        24,
		focusInput:    true,
	}
}

// WithContext sets the context for the view.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return v.input.Init()
}

// Update handles messages for the ask view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.AskCompleted:
		v.handleAskCompleted(msg)
		return v, nil

	case messages.ErrorOccurred:
		v.asking = false
		v.err = msg.Err
		v.statusbar.SetState(status.StateError)
		v.statusbar.SetMessage(msg.Err.Error())
		return v, nil
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch {
	case keymap.Matches(msg.String(), v.keymap.Back):
		return v, changeView(messages.ViewMenu)
	case keymap.Matches(msg.String(), v.keymap.SwitchView):
		return v, changeView(messages.ViewDocuments)
	}

	if v.asking {
		return v, nil
	}

	if v.focusInput {
		if msg.Type == tea.KeyEnter {
			question := strings.TrimSpace(v.input.Value())
			if question == "" {
				return v, nil
			}
			v.asking = true
			v.question = question
			v.err = nil
			v.statusbar.SetState(status.StateAsking)
			v.statusbar.SetMessage("")
			v.focusInput = false
			v.input.Blur()
			return v, v.performAsk(question)
		}
		var cmd tea.Cmd
		v.input, cmd = v.input.Update(msg)
		return v, cmd
	}

	switch {
	case keymap.Matches(msg.String(), v.keymap.NewQuestion):
		v.focusInput = true
		v.input.SetValue("")
		return v, v.input.Focus()
	case keymap.Matches(msg.String(), v.keymap.Up):
		v.sources.MoveUp()
	case keymap.Matches(msg.String(), v.keymap.Down):
		v.sources.MoveDown()
	}
	return v, nil
}

// performAsk runs the question through the answer service off the UI loop.
func (v *View) performAsk(question string) tea.Cmd {
	return func() tea.Msg {
		if v.answerService == nil {
			return messages.ErrorOccurred{Err: ErrNoAnswerService}
		}
		result := v.answerService.SearchWithAI(v.ctx, question, domain.SearchOptions{})
		return messages.AskCompleted{Question: question, Result: result}
	}
}

func (v *View) handleAskCompleted(msg messages.AskCompleted) {
	v.asking = false
	v.err = nil
	result := msg.Result
	v.result = &result
	v.sources.SetSources(result.Sources)
	v.statusbar.SetSourceCount(len(result.Sources))
	v.statusbar.SetMessage("")

	switch result.Outcome {
	case domain.OutcomeAnswered:
		v.statusbar.SetState(status.StateAnswered)
	case domain.OutcomeNoData:
		v.statusbar.SetState(status.StateAnswered)
		v.statusbar.SetMessage("No documents loaded")
	case domain.OutcomeNoMatch:
		v.statusbar.SetState(status.StateAnswered)
		v.statusbar.SetMessage("No matching documents")
	case domain.OutcomeModelError:
		v.statusbar.SetState(status.StateError)
		v.statusbar.SetMessage(string(result.ErrorKind))
	}

	v.focusInput = false
	v.input.Blur()
}

func changeView(view messages.ViewType) tea.Cmd {
	return func() tea.Msg {
		return messages.ViewChanged{View: view}
	}
}

// View renders the ask view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	sections := make([]string, 0, 10)
	sections = append(sections, v.styles.Title.Render("unisearch"), "", v.input.View(), "")

	if v.err != nil {
		sections = append(sections, v.styles.Error.Render("Error: "+v.err.Error()), "")
	}

	switch {
	case v.asking:
		sections = append(sections, v.styles.Muted.Render("Reading prospectuses for: "+v.question))
	case v.result != nil:
		answerWidth := max(v.width-4, 20)
		sections = append(sections,
			v.styles.Subtitle.Render(v.question),
			v.styles.Answer.Width(answerWidth).Render(v.result.Answer),
			"",
			v.sources.View(),
		)
	default:
		sections = append(sections, v.styles.Muted.Render("Ask about fees, admissions, programmes, residences or how to apply."))
	}

	sections = append(sections, "", v.statusbar.View())
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true

	v.input.SetWidth(width)
	v.sources.SetDimensions(width, height/2)
	v.statusbar.SetWidth(width)
}

// Question returns the last question asked.
func (v *View) Question() string {
	return v.question
}

// Input returns the current contents of the question field.
func (v *View) Input() string {
	return v.input.Value()
}

// Result returns the last answer, or nil before the first question.
func (v *View) Result() *domain.AnswerResult {
	return v.result
}

// Asking reports whether a question is in flight.
func (v *View) Asking() bool {
	return v.asking
}

// SelectedSource returns the highlighted source of the current answer.
func (v *View) SelectedSource() *domain.Citation {
	return v.sources.SelectedSource()
}

// Err returns the current error, if any.
func (v *View) Err() error {
	return v.err
}

// InputFocused returns whether the input has focus.
func (v *View) InputFocused() bool {
	return v.focusInput
}

// Reset returns the view to an empty question.
func (v *View) Reset() {
	v.focusInput = true
	v.asking = false
	v.input.Focus()
	v.input.SetValue("")
	v.question = ""
	v.result = nil
	v.sources.SetSources(nil)
	v.err = nil
	v.statusbar.Clear()
}
