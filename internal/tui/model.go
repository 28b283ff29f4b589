// Package tui is the terminal catalog browser: pick a model, pick one of its
// files, read it.
package tui

import (
	"context"
	"log/slog"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/leapstack-labs/omnicatalog/internal/catalog"
	"github.com/leapstack-labs/omnicatalog/internal/omni"
)

// ModelLister lists the models to browse.
type ModelLister interface {
	ListModels(ctx context.Context, opts omni.ListOptions) (*omni.ModelList, error)
}

// Config holds what the browser needs.
type Config struct {
	Models      ModelLister
	ListOptions omni.ListOptions
	Catalog     *catalog.Service
	Logger      *slog.Logger
	// ModelID preselects a model; the browser starts at its files.
	ModelID string
}

type screen int

const (
	screenModels screen = iota
	screenFiles
	screenContent
)

type modelsLoadedMsg struct {
	models []omni.Model
	err    error
}

type bundleLoadedMsg struct {
	modelID string
	err     error
}

var keys = struct {
	quit key.Binding
	back key.Binding
	open key.Binding
}{
	quit: key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	back: key.NewBinding(key.WithKeys("esc", "backspace"), key.WithHelp("esc", "back")),
	open: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")),
}

// Model is the bubbletea model of the browser.
type Model struct {
	cfg     Config
	ctx     context.Context
	session *catalog.Session
	styles  styles

	screen   screen
	loading  bool
	err      error
	models   list.Model
	files    list.Model
	content  viewport.Model
	spinner  spinner.Model
	width    int
	height   int
	selected string
}

// New creates the browser. ctx bounds its API calls.
func New(ctx context.Context, cfg Config) Model {
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.DiscardHandler)
	}

	models := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	models.Title = "Models"
	files := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	files.Title = "Files"
	for _, l := range []*list.Model{&models, &files} {
		l.AdditionalShortHelpKeys = func() []key.Binding { return []key.Binding{keys.open, keys.back} }
	}

	return Model{
		cfg:     cfg,
		ctx:     ctx,
		session: cfg.Catalog.NewSession(),
		styles:  newStyles(),
		screen:  screenModels,
		loading: true,
		models:  models,
		files:   files,
		content: viewport.New(0, 0),
		spinner: spinner.New(),
	}
}

// Run starts the browser on the alternate screen and blocks until it quits.
func Run(ctx context.Context, cfg Config) error {
	_, err := tea.NewProgram(New(ctx, cfg), tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	if m.cfg.ModelID != "" {
		return tea.Batch(m.spinner.Tick, m.loadBundle(m.cfg.ModelID))
	}
	return tea.Batch(m.spinner.Tick, m.loadModels())
}

func (m Model) loadModels() tea.Cmd {
	return func() tea.Msg {
		page, err := m.cfg.Models.ListModels(m.ctx, m.cfg.ListOptions)
		if err != nil {
			return modelsLoadedMsg{err: err}
		}
		return modelsLoadedMsg{models: page.Records}
	}
}

// loadBundle selects modelID. The session keeps its previous model when
// the fetch fails.
func (m Model) loadBundle(modelID string) tea.Cmd {
	sess := m.session
	return func() tea.Msg {
		return bundleLoadedMsg{modelID: modelID, err: sess.Select(m.ctx, modelID)}
	}
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		h := max(msg.Height-2, 1)
		m.models.SetSize(msg.Width, h)
		m.files.SetSize(msg.Width, h)
		m.content.Width = msg.Width
		m.content.Height = h
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case modelsLoadedMsg:
		m.loading = false
		m.err = msg.err
		if msg.err != nil {
			m.cfg.Logger.Error("failed to list models", "error", msg.err)
			return m, nil
		}
		cmd := m.models.SetItems(modelItems(msg.models))
		return m, cmd

	case bundleLoadedMsg:
		m.loading = false
		m.err = msg.err
		if msg.err != nil {
			return m, nil
		}
		files, err := m.session.Files()
		if err != nil {
			m.err = err
			return m, nil
		}
		m.selected = msg.modelID
		m.files.Title = "Files: " + msg.modelID
		m.files.ResetFilter()
		m.files.Select(0)
		m.screen = screenFiles
		cmd := m.files.SetItems(fileItems(files))
		return m, cmd

	case tea.KeyMsg:
		if m.filtering() {
			break
		}
		switch {
		case key.Matches(msg, keys.quit):
			return m, tea.Quit
		case key.Matches(msg, keys.back):
			return m.back()
		case key.Matches(msg, keys.open):
			return m.open()
		}
	}

	var cmd tea.Cmd
	switch m.screen {
	case screenModels:
		m.models, cmd = m.models.Update(msg)
	case screenFiles:
		m.files, cmd = m.files.Update(msg)
	case screenContent:
		m.content, cmd = m.content.Update(msg)
	}
	return m, cmd
}

// filtering reports whether the visible list is taking filter input.
func (m Model) filtering() bool {
	switch m.screen {
	case screenModels:
		return m.models.FilterState() == list.Filtering
	case screenFiles:
		return m.files.FilterState() == list.Filtering
	}
	return false
}

func (m Model) back() (tea.Model, tea.Cmd) {
	m.err = nil
	switch m.screen {
	case screenContent:
		m.screen = screenFiles
	case screenFiles:
		m.screen = screenModels
		if len(m.models.Items()) == 0 && !m.loading {
			m.loading = true
			return m, m.loadModels()
		}
	}
	return m, nil
}

func (m Model) open() (tea.Model, tea.Cmd) {
	if m.loading {
		return m, nil
	}
	switch m.screen {
	case screenModels:
		item, ok := m.models.SelectedItem().(modelItem)
		if !ok {
			return m, nil
		}
		m.loading = true
		m.err = nil
		return m, tea.Batch(m.spinner.Tick, m.loadBundle(item.model.ID))

	case screenFiles:
		item, ok := m.files.SelectedItem().(fileItem)
		if !ok {
			return m, nil
		}
		text, err := m.render(item)
		if err != nil {
			m.err = err
			return m, nil
		}
		m.err = nil
		m.content.SetContent(text)
		m.content.GotoTop()
		m.screen = screenContent
	}
	return m, nil
}

// render produces the content pane for a file. Topics show their join tree
// and fields; everything else shows its YAML.
func (m Model) render(item fileItem) (string, error) {
	if item.role == roleTopic {
		view, err := m.session.Topic(item.key)
		if err != nil {
			return "", err
		}
		return renderTopic(m.styles, view), nil
	}
	file, err := m.session.File(item.key)
	if err != nil {
		return "", err
	}
	return renderFile(m.styles, file), nil
}

// View implements tea.Model.
func (m Model) View() string {
	var body string
	switch m.screen {
	case screenModels:
		body = m.models.View()
	case screenFiles:
		body = m.files.View()
	case screenContent:
		body = m.content.View()
	}
	return body + "\n" + m.statusLine()
}

func (m Model) statusLine() string {
	switch {
	case m.loading:
		return m.spinner.View() + " loading..."
	case m.err != nil:
		return m.styles.errMsg.Render("error: " + m.err.Error())
	case m.screen == screenContent:
		return m.styles.status.Render("esc back, q quit")
	}
	return ""
}

// Selected returns the model whose files are shown, or "".
func (m Model) Selected() string {
	return m.selected
}
