package tui

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/arthur-debert/chezui/pkg/chezmoi"
	"github.com/arthur-debert/chezui/pkg/coordinator"
	"github.com/arthur-debert/chezui/pkg/errors"
	"github.com/arthur-debert/chezui/pkg/logging"
	"github.com/arthur-debert/chezui/pkg/parser"
	"github.com/arthur-debert/chezui/pkg/service"
	"github.com/arthur-debert/chezui/pkg/style"
	"github.com/arthur-debert/chezui/pkg/ui/terminal"
	"github.com/arthur-debert/chezui/pkg/ui/views"
	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"
)

type tab int

const (
	tabStatus tab = iota
	tabManaged
	tabDiff
	tabData
	tabDoctor
)

var tabs = []tab{tabStatus, tabManaged, tabDiff, tabData, tabDoctor}

func (t tab) String() string {
	switch t {
	case tabStatus:
		return "Status"
	case tabManaged:
		return "Managed"
	case tabDiff:
		return "Diff"
	case tabData:
		return "Data"
	case tabDoctor:
		return "Doctor"
	default:
		return "Unknown"
	}
}

type page struct {
	content  string
	loading  bool
	handleID uint64
}

// resultMsg carries a finished handle back into the update loop
type resultMsg struct {
	tab   tab
	id    uint64
	state coordinator.State
	value interface{}
	err   error
}

type applyMsg struct {
	dryRun bool
	output string
	err    error
}

// changeMsg reports a finished add or remove
type changeMsg struct {
	op   string
	path string
	err  error
}

type flashMsg string

type promptKind int

const (
	promptNone promptKind = iota
	promptAdd
	promptRemove
)

// SourceChangedMsg tells the model the source directory changed on disk
type SourceChangedMsg struct{}

// Model is the bubbletea model for the interactive view
type Model struct {
	svc    *service.Service
	logger zerolog.Logger

	active   tab
	pages    map[tab]*page
	viewport viewport.Model
	ready    bool
	width    int
	height   int

	confirmApply  bool
	confirmRemove string
	prompt        promptKind
	input         textinput.Model
	flash         string
	lastDiff      string

	copy func(string) error
}

// New creates the model. Nothing is loaded until Init.
func New(svc *service.Service) Model {
	pages := make(map[tab]*page, len(tabs))
	for _, t := range tabs {
		pages[t] = &page{}
	}
	input := textinput.New()
	input.Placeholder = "~/path/to/file"
	input.CharLimit = 4096
	_ = input.Cursor.SetMode(cursor.CursorStatic)
	return Model{
		svc:    svc,
		logger: logging.GetLogger("tui"),
		pages:  pages,
		input:  input,
		copy:   clipboard.WriteAll,
	}
}

// Init loads the status tab and the managed list
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.load(tabStatus), m.load(tabManaged))
}

// Update implements tea.Model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		h := msg.Height - lipgloss.Height(m.header()) - 1
		if h < 1 {
			h = 1
		}
		if !m.ready {
			m.viewport = viewport.New(msg.Width, h)
			m.ready = true
		} else {
			m.viewport.Width, m.viewport.Height = msg.Width, h
		}
		m.viewport.SetContent(m.pages[m.active].content)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case resultMsg:
		return m.handleResult(msg), nil

	case applyMsg:
		if msg.err != nil {
			if errors.IsUserVisible(msg.err) {
				m.flash = "apply failed: " + errors.UserMessage(msg.err)
			} else {
				m.flash = "apply cancelled"
			}
			return m, nil
		}
		p := m.pages[tabStatus]
		p.content = m.render(&views.OutputView{Operation: "apply", DryRun: msg.dryRun, Output: msg.output})
		m.flash = "apply finished"
		m.switchTo(tabStatus)
		if msg.dryRun {
			return m, nil
		}
		cmd := tea.Batch(m.load(tabDiff), m.load(tabManaged))
		return m, cmd

	case changeMsg:
		switch {
		case msg.err == nil:
			m.flash = pastTense(msg.op) + " " + msg.path
		case errors.IsUserVisible(msg.err):
			m.flash = msg.op + " failed: " + errors.UserMessage(msg.err)
			return m, nil
		default:
			m.flash = msg.op + " cancelled"
			return m, nil
		}
		cmd := tea.Batch(m.load(tabManaged), m.load(tabStatus))
		return m, cmd

	case flashMsg:
		m.flash = string(msg)
		return m, nil

	case SourceChangedMsg:
		m.flash = "source changed, refreshing"
		cmd := tea.Batch(m.load(m.active), m.load(tabManaged))
		return m, cmd
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.prompt != promptNone {
		return m.handlePrompt(msg)
	}
	if m.confirmRemove != "" {
		path := m.confirmRemove
		m.confirmRemove = ""
		if key.Matches(msg, keys.Confirm) {
			m.flash = "removing " + path + "..."
			return m, m.change("remove", path, m.svc.Remove(path))
		}
		m.flash = "remove cancelled"
		return m, nil
	}
	if m.confirmApply {
		switch {
		case key.Matches(msg, keys.Confirm):
			m.confirmApply = false
			m.flash = "applying..."
			return m, m.apply(false)
		case key.Matches(msg, keys.Cancel), key.Matches(msg, keys.Quit):
			m.confirmApply = false
			m.flash = "apply cancelled"
		}
		return m, nil
	}

	var cmd tea.Cmd
	switch {
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, keys.NextTab):
		cmd = m.switchTo((m.active + 1) % tab(len(tabs)))
		return m, cmd
	case key.Matches(msg, keys.PrevTab):
		cmd = m.switchTo((m.active + tab(len(tabs)) - 1) % tab(len(tabs)))
		return m, cmd
	case key.Matches(msg, keys.Refresh):
		cmd = m.load(m.active)
		return m, cmd
	case key.Matches(msg, keys.Apply):
		m.confirmApply = true
		m.flash = "apply all pending changes? (y/n)"
		return m, nil
	case key.Matches(msg, keys.DryRun):
		m.flash = "running dry run..."
		return m, m.apply(true)
	case key.Matches(msg, keys.Copy):
		return m, m.copyDiff()
	case key.Matches(msg, keys.Export):
		return m, m.exportDiff()
	case m.active == tabManaged && key.Matches(msg, keys.Add):
		return m.openPrompt(promptAdd), nil
	case m.active == tabManaged && key.Matches(msg, keys.Remove):
		return m.openPrompt(promptRemove), nil
	}

	if s := msg.String(); len(s) == 1 && s[0] >= '1' && int(s[0]-'1') < len(tabs) {
		cmd = m.switchTo(tab(s[0] - '1'))
		return m, cmd
	}

	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) openPrompt(kind promptKind) Model {
	m.prompt = kind
	m.flash = ""
	if kind == promptAdd {
		m.input.Prompt = "add: "
	} else {
		m.input.Prompt = "remove: "
	}
	m.input.Reset()
	m.input.Focus()
	return m
}

func (m Model) closePrompt() Model {
	m.prompt = promptNone
	m.input.Blur()
	m.input.Reset()
	return m
}

// handlePrompt owns every key while the path prompt is open
func (m Model) handlePrompt(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return m, tea.Quit
	case tea.KeyEsc:
		m = m.closePrompt()
		m.flash = "cancelled"
		return m, nil
	case tea.KeyEnter:
		kind, path := m.prompt, strings.TrimSpace(m.input.Value())
		m = m.closePrompt()
		if path == "" {
			m.flash = "no path given"
			return m, nil
		}
		if kind == promptRemove {
			m.confirmRemove = path
			m.flash = "stop managing " + path + "? (y/n)"
			return m, nil
		}
		// a conflict is known before anything is dispatched
		h, err := m.svc.Add(path, chezmoi.AddOptions{})
		if err != nil {
			m.flash = "add failed: " + errors.UserMessage(err)
			return m, nil
		}
		m.flash = "adding " + path + "..."
		return m, m.change("add", path, h)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) change(op, path string, h *coordinator.Handle) tea.Cmd {
	return func() tea.Msg {
		<-h.Done()
		_, err := h.Result()
		return changeMsg{op: op, path: path, err: err}
	}
}

func pastTense(op string) string {
	switch op {
	case "add":
		return "added"
	case "remove":
		return "removed"
	default:
		return op + " done"
	}
}

// switchTo activates t and loads it the first time it is shown
func (m *Model) switchTo(t tab) tea.Cmd {
	m.active = t
	p := m.pages[t]
	m.viewport.SetContent(p.content)
	m.viewport.GotoTop()
	if p.content == "" && !p.loading {
		return m.load(t)
	}
	return nil
}

// load dispatches the operation behind t. A newer load of the same tab
// supersedes this one in the coordinator.
func (m *Model) load(t tab) tea.Cmd {
	var h *coordinator.Handle
	switch t {
	case tabStatus:
		h = m.svc.GetStatus()
	case tabManaged:
		h = m.svc.GetManagedFiles()
	case tabDiff:
		h = m.svc.GetDiff("")
	case tabData:
		h = m.svc.GetTemplateData(parser.FormatJSON)
	case tabDoctor:
		h = m.svc.RunDiagnostics()
	default:
		return nil
	}

	p := m.pages[t]
	p.loading = true
	p.handleID = h.ID()
	if t == m.active && p.content == "" {
		m.viewport.SetContent(style.MutedStyle.Render("loading " + strings.ToLower(t.String()) + "..."))
	}
	return wait(t, h)
}

func wait(t tab, h *coordinator.Handle) tea.Cmd {
	return func() tea.Msg {
		<-h.Done()
		value, err := h.Result()
		return resultMsg{tab: t, id: h.ID(), state: h.State(), value: value, err: err}
	}
}

func (m Model) handleResult(msg resultMsg) Model {
	p := m.pages[msg.tab]
	if msg.id != p.handleID {
		return m
	}
	p.loading = false

	switch {
	case msg.state == coordinator.StateCancelled:
		return m
	case msg.err != nil:
		m.logger.Debug().Err(msg.err).Str("tab", msg.tab.String()).Msg("Load failed")
		p.content = m.renderError(msg.err)
	default:
		p.content = m.render(m.toView(msg.tab, msg.value))
	}

	if msg.tab == m.active {
		m.viewport.SetContent(p.content)
	}
	return m
}

func (m *Model) toView(t tab, value interface{}) interface{} {
	switch v := value.(type) {
	case []parser.StatusEntry:
		return &views.StatusView{Entries: v}
	case []string:
		return &views.ManagedView{Files: v}
	case *chezmoi.DiffResult:
		m.lastDiff = v.Text
		return views.NewDiffView(v, false)
	case map[string]interface{}:
		return views.NewDataView(parser.FormatJSON, v)
	case *service.DiagnosticsReport:
		return &views.DiagnosticsView{Checks: v.Checks, Summary: v.Summary, Failed: v.Failed}
	default:
		m.logger.Warn().Str("tab", t.String()).Msgf("Unexpected result %T", value)
		return value
	}
}

func (m Model) apply(dryRun bool) tea.Cmd {
	h := m.svc.Apply(nil, dryRun)
	return func() tea.Msg {
		<-h.Done()
		value, err := h.Result()
		out, _ := value.(string)
		return applyMsg{dryRun: dryRun, output: out, err: err}
	}
}

func (m Model) copyDiff() tea.Cmd {
	text := m.lastDiff
	copyFn := m.copy
	return func() tea.Msg {
		if strings.TrimSpace(text) == "" {
			return flashMsg("no diff to copy")
		}
		if err := copyFn(text); err != nil {
			return flashMsg("copy failed: " + err.Error())
		}
		return flashMsg(fmt.Sprintf("copied diff (%d lines)", strings.Count(text, "\n")))
	}
}

func (m Model) exportDiff() tea.Cmd {
	text := m.lastDiff
	svc := m.svc
	return func() tea.Msg {
		if strings.TrimSpace(text) == "" {
			return flashMsg("no diff to export")
		}
		path, err := svc.ExportDiff(text)
		if err != nil {
			return flashMsg("export failed: " + errors.UserMessage(err))
		}
		return flashMsg("exported to " + path)
	}
}

func (m Model) render(v interface{}) string {
	var buf bytes.Buffer
	r, _ := terminal.New(&buf)
	if err := r.RenderResult(v); err != nil {
		return m.renderError(err)
	}
	return buf.String()
}

func (m Model) renderError(err error) string {
	var buf bytes.Buffer
	r, _ := terminal.New(&buf)
	_ = r.RenderError(err)
	return buf.String()
}

// View implements tea.Model
func (m Model) View() string {
	if !m.ready {
		return "starting..."
	}
	return m.header() + "\n" + m.viewport.View() + "\n" + m.footer()
}

func (m Model) header() string {
	parts := make([]string, 0, len(tabs))
	for i, t := range tabs {
		label := fmt.Sprintf("%d %s", i+1, t)
		if m.pages[t].loading {
			label += " …"
		}
		if t == m.active {
			parts = append(parts, activeTabStyle.Render(label))
		} else {
			parts = append(parts, tabStyle.Render(label))
		}
	}
	return barStyle.Width(m.width).Render(lipgloss.JoinHorizontal(lipgloss.Top, parts...))
}

func (m Model) footer() string {
	if m.prompt != promptNone {
		return m.input.View()
	}
	if m.flash != "" {
		return flashStyle.Render(m.flash)
	}
	help := make([]string, 0, len(keys.help()))
	for _, b := range keys.help() {
		h := b.Help()
		help = append(help, h.Key+" "+h.Desc)
	}
	return helpStyle.Render(strings.Join(help, " • "))
}
