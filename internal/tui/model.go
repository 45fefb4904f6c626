// Package tui renders the task list and the create/edit form in the terminal.
// The screens are thin: all state lives in the view controllers, whose change
// notifications are forwarded into the bubbletea program as messages.
package tui

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"taskman/internal/service"
	"taskman/internal/view"
)

// stateChangedMsg asks for a redraw after a controller mutation.
type stateChangedMsg struct{}

// navigateMsg moves to another screen.
type navigateMsg struct {
	route view.Route
}

// confirmMsg opens the delete confirmation modal.
type confirmMsg struct {
	req *confirmRequest
}

type confirmRequest struct {
	prompt string
	reply  chan bool
}

// Model is the root bubbletea model.
type Model struct {
	ctx    context.Context
	svc    service.Service
	policy view.Policy
	log    *slog.Logger
	send   func(tea.Msg)

	keys   keyMap
	styles styles

	start           view.Route
	route           view.Route
	list            *view.ListController
	form            *view.FormController
	unsubscribeForm func()

	cursor      int
	searching   bool
	search      textinput.Model
	title       textinput.Model
	titleSynced bool

	confirm *confirmRequest
	width   int
}

// New creates the model on the list screen. A nil logger discards diagnostics.
func New(ctx context.Context, svc service.Service, policy view.Policy, logger *slog.Logger) *Model {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	search := textinput.New()
	search.Placeholder = "Search tasks..."
	search.CharLimit = 100

	title := textinput.New()
	title.Placeholder = "Task title"
	title.CharLimit = 200

	m := &Model{
		ctx:    ctx,
		svc:    svc,
		policy: policy,
		log:    logger,
		keys:   defaultKeyMap(),
		styles: newStyles(),
		start:  view.ListRoute(),
		route:  view.ListRoute(),
		search: search,
		title:  title,
	}
	m.list = view.NewListController(svc, policy, view.ConfirmFunc(m.askConfirm), logger)
	m.list.Subscribe(func() { m.post(stateChangedMsg{}) })
	return m
}

// post delivers msg to the running program. It never blocks the caller, which
// may be the program's own update loop.
func (m *Model) post(msg tea.Msg) {
	if m.send == nil {
		return
	}
	go m.send(msg)
}

// askConfirm runs on a command goroutine and waits for the modal's answer.
func (m *Model) askConfirm(prompt string) bool {
	if m.send == nil {
		return false
	}
	req := &confirmRequest{prompt: prompt, reply: make(chan bool, 1)}
	m.post(confirmMsg{req: req})
	select {
	case ok := <-req.reply:
		return ok
	case <-m.ctx.Done():
		return false
	}
}

// Init loads the list, or opens the form when started on a form route.
func (m *Model) Init() tea.Cmd {
	if m.start.Kind != view.RouteList {
		return m.navigate(m.start)
	}
	return m.loadList
}

func (m *Model) loadList() tea.Msg {
	// Failures are recorded or logged by the controller according to the policy.
	_ = m.list.Load(m.ctx)
	return stateChangedMsg{}
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case stateChangedMsg:
		m.syncForm()
		m.clampCursor()
		return m, nil

	case navigateMsg:
		return m, m.navigate(msg.route)

	case confirmMsg:
		m.confirm = msg.req
		return m, nil

	case tea.KeyMsg:
		if m.confirm != nil {
			return m.updateConfirm(msg)
		}
		if m.route.Kind == view.RouteList {
			return m.updateList(msg)
		}
		return m.updateForm(msg)
	}

	return m, nil
}

func (m *Model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Yes):
		m.confirm.reply <- true
		m.confirm = nil
	case key.Matches(msg, m.keys.No):
		m.confirm.reply <- false
		m.confirm = nil
	}
	return m, nil
}

func (m *Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Typing in the search box: keys go to the input, not to hotkeys
	if m.searching {
		switch msg.Type {
		case tea.KeyEsc, tea.KeyEnter:
			m.searching = false
			m.search.Blur()
			return m, nil
		}
		var cmd tea.Cmd
		m.search, cmd = m.search.Update(msg)
		m.list.SetSearchTerm(m.search.Value())
		m.cursor = 0
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.list.State().Filtered)-1 {
			m.cursor++
		}
		return m, nil

	case key.Matches(msg, m.keys.Search):
		m.searching = true
		return m, m.search.Focus()

	case key.Matches(msg, m.keys.New):
		return m, m.navigate(view.NewRoute())

	case key.Matches(msg, m.keys.Edit):
		if task, ok := m.selected(); ok && task.HasID() {
			return m, m.navigate(view.EditRoute(*task.ID))
		}
		return m, nil

	case key.Matches(msg, m.keys.Delete):
		if task, ok := m.selected(); ok {
			return m, func() tea.Msg {
				_, _ = m.list.Delete(m.ctx, task)
				return stateChangedMsg{}
			}
		}
		return m, nil

	case key.Matches(msg, m.keys.Reload):
		return m, m.loadList
	}

	return m, nil
}

func (m *Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	st := m.form.State()

	switch {
	case msg.Type == tea.KeyCtrlC:
		return m, tea.Quit

	case key.Matches(msg, m.keys.Back):
		// Without cancel in the policy, esc does nothing.
		_ = m.form.Cancel()
		return m, nil

	case key.Matches(msg, m.keys.Toggle):
		m.form.SetCompleted(!st.Task.Completed)
		return m, nil

	case key.Matches(msg, m.keys.Submit):
		if st.Loading || !m.form.Valid() {
			return m, nil
		}
		form := m.form
		return m, func() tea.Msg {
			_ = form.Submit(m.ctx)
			return stateChangedMsg{}
		}
	}

	if st.Loading {
		return m, nil
	}
	var cmd tea.Cmd
	m.title, cmd = m.title.Update(msg)
	m.form.SetTitle(m.title.Value())
	return m, cmd
}

// navigate switches screens. Entering the list reloads it; entering the form
// builds a fresh form controller for the route.
func (m *Model) navigate(r view.Route) tea.Cmd {
	if m.unsubscribeForm != nil {
		m.unsubscribeForm()
		m.unsubscribeForm = nil
	}
	m.route = r
	m.form = nil
	m.title.Blur()

	if r.Kind == view.RouteList {
		return m.loadList
	}

	nav := view.NavigatorFunc(func(to view.Route) { m.post(navigateMsg{route: to}) })
	form := view.NewFormController(m.svc, m.policy, nav, m.log)
	m.form = form
	m.unsubscribeForm = form.Subscribe(func() { m.post(stateChangedMsg{}) })
	m.title.SetValue("")
	m.titleSynced = r.Kind == view.RouteNew

	return tea.Batch(m.title.Focus(), m.initForm(form, r))
}

func (m *Model) initForm(form *view.FormController, r view.Route) tea.Cmd {
	return func() tea.Msg {
		_ = form.Init(m.ctx, r)
		return stateChangedMsg{}
	}
}

// syncForm copies a freshly loaded task into the title input once.
func (m *Model) syncForm() {
	if m.form == nil || m.titleSynced {
		return
	}
	st := m.form.State()
	if !st.IsEditMode || st.Loading {
		return
	}
	m.title.SetValue(st.Task.Title)
	m.title.CursorEnd()
	m.titleSynced = true
}

func (m *Model) clampCursor() {
	n := len(m.list.State().Filtered)
	if m.cursor >= n {
		m.cursor = max(0, n-1)
	}
}

func (m *Model) selected() (service.Task, bool) {
	tasks := m.list.State().Filtered
	if m.cursor < 0 || m.cursor >= len(tasks) {
		return service.Task{}, false
	}
	return tasks[m.cursor], true
}

// View renders the current screen.
func (m *Model) View() string {
	var body string
	if m.route.Kind == view.RouteList {
		body = m.viewList()
	} else {
		body = m.viewForm()
	}
	if m.confirm != nil {
		modal := m.styles.Modal.Render(m.confirm.prompt + "\n\n" + m.styles.HelpKey.Render("y") + " yes  " + m.styles.HelpKey.Render("n") + " no")
		body = lipgloss.JoinVertical(lipgloss.Left, body, modal)
	}
	return body
}

func (m *Model) viewList() string {
	st := m.list.State()

	var b strings.Builder
	b.WriteString(m.styles.Title.Render("Tasks"))
	b.WriteString("\n")

	if m.searching || st.SearchTerm != "" {
		b.WriteString(m.search.View())
		b.WriteString("\n\n")
	}

	switch {
	case st.Loading:
		b.WriteString(m.styles.Muted.Render("Loading tasks..."))
		b.WriteString("\n")
	case st.Error != "":
		b.WriteString(m.styles.Error.Render(st.Error))
		b.WriteString("\n")
	case len(st.Filtered) == 0:
		b.WriteString(m.styles.Muted.Render("no tasks found"))
		b.WriteString("\n")
	}

	if !st.Loading {
		for i, task := range st.Filtered {
			b.WriteString(m.renderTask(task, i == m.cursor))
			b.WriteString("\n")
		}
	}

	k := m.keys
	b.WriteString(m.help(k.Up, k.Down, k.Search, k.New, k.Edit, k.Delete, k.Reload, k.Quit))
	return b.String()
}

func (m *Model) renderTask(task service.Task, selected bool) string {
	box := "[ ]"
	if task.Completed {
		box = "[x]"
	}
	title := task.Title
	if task.Completed {
		title = m.styles.Done.Render(title)
	}
	line := fmt.Sprintf("%s %4d  %s", box, task.IDValue(), title)
	if selected {
		return m.styles.Selected.Render("> " + line)
	}
	return "  " + line
}

func (m *Model) viewForm() string {
	st := m.form.State()

	heading := "New task"
	if st.IsEditMode {
		heading = fmt.Sprintf("Edit task #%d", st.TaskID)
	}

	var b strings.Builder
	b.WriteString(m.styles.Title.Render(heading))
	b.WriteString("\n")

	if st.Loading {
		b.WriteString(m.styles.Muted.Render("Loading task..."))
		b.WriteString("\n")
	}

	b.WriteString("Title: ")
	b.WriteString(m.title.View())
	b.WriteString("\n")
	if !m.form.Valid() {
		b.WriteString(m.styles.Muted.Render(fmt.Sprintf("at least %d characters", m.policy.MinTitleLength)))
		b.WriteString("\n")
	}

	done := "[ ]"
	if st.Task.Completed {
		done = "[x]"
	}
	b.WriteString(done + " completed\n")

	if st.Error != "" {
		b.WriteString(m.styles.Error.Render(st.Error))
		b.WriteString("\n")
	}

	bindings := []key.Binding{m.keys.Submit, m.keys.Toggle}
	if m.policy.EnableCancel {
		bindings = append(bindings, m.keys.Back)
	}
	b.WriteString(m.help(bindings...))
	return b.String()
}

func (m *Model) help(bindings ...key.Binding) string {
	parts := make([]string, len(bindings))
	for i, b := range bindings {
		h := b.Help()
		parts[i] = m.styles.HelpKey.Render(h.Key) + " " + h.Desc
	}
	return m.styles.Help.Render(strings.Join(parts, "  "))
}
