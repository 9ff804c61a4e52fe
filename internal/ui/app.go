package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/yildizm/AIDetect/internal/analyzer"
	"github.com/yildizm/AIDetect/internal/config"
	"github.com/yildizm/AIDetect/internal/emoji"
	"github.com/yildizm/AIDetect/internal/logger"
	"github.com/yildizm/AIDetect/internal/ui/components"
)

// Options configures the interactive shell
type Options struct {
	Provider      string
	Model         string
	MaxImageBytes int64
	Theme         string
	Logger        *logger.Logger
}

// Model is the bubbletea model over an analysis session. Every state change
// goes through the session; the widgets only hold what is being typed.
type Model struct {
	ctx     context.Context
	session *analyzer.Session
	opts    Options
	styles  *Styles
	log     *logger.Logger

	text    textarea.Model
	path    textinput.Model
	spinner spinner.Model

	notice   string
	width    int
	height   int
	quitting bool
}

// NewModel builds the shell for session
func NewModel(ctx context.Context, session *analyzer.Session, opts Options) *Model {
	if opts.Logger == nil {
		opts.Logger = logger.Nop("ui")
	}

	ta := textarea.New()
	ta.Placeholder = "Paste the text to analyze here..."
	ta.ShowLineNumbers = false
	ta.CharLimit = 0
	ta.SetWidth(72)
	ta.SetHeight(10)

	ti := textinput.New()
	ti.Placeholder = "path/to/image.png (PNG, JPG or WEBP)"
	ti.Prompt = emoji.GetEmoji("file") + " "
	ti.Width = 60
	ti.CharLimit = 4096

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	m := &Model{
		ctx:     ctx,
		session: session,
		opts:    opts,
		styles:  GetStyles(),
		log:     opts.Logger,
		text:    ta,
		path:    ti,
		spinner: sp,
	}
	m.spinner.Style = m.styles.Spinner
	m.focusActive()
	return m
}

// Init starts the cursor blink
func (m *Model) Init() tea.Cmd {
	return textarea.Blink
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, m.quit()
		case "tab", "shift+tab":
			return m, m.toggleMode()
		case "ctrl+s":
			return m, m.analyze()
		case "enter":
			if m.session.Mode() == analyzer.ModeImage {
				return m, m.loadPath()
			}
		}
		return m, m.updateInput(msg)

	case fileLoadedMsg:
		m.onFileLoaded(msg)
		return m, nil

	case detectionCompleteMsg:
		m.session.Settle(msg.outcome)
		return m, nil

	case spinner.TickMsg:
		if m.session.Status().Kind != analyzer.StatusLoading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, m.updateInput(msg)
}

func (m *Model) resize(width, height int) {
	m.width = width
	m.height = height

	w := width - 8
	if w > 100 {
		w = 100
	}
	if w > 20 {
		m.text.SetWidth(w)
		m.path.Width = w - 4
	}
	if h := height - 18; h > 4 {
		m.text.SetHeight(minInt(h, 16))
	}
}

// updateInput forwards msg to the focused widget and reports text edits
func (m *Model) updateInput(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd

	if m.session.Mode() == analyzer.ModeImage {
		m.path, cmd = m.path.Update(msg)
		return cmd
	}

	before := m.text.Value()
	m.text, cmd = m.text.Update(msg)
	if after := m.text.Value(); after != before {
		if err := m.session.UpdateText(after); err != nil {
			m.log.Debug("text update rejected: %v", err)
		}
	}
	return cmd
}

func (m *Model) toggleMode() tea.Cmd {
	next := analyzer.ModeImage
	if m.session.Mode() == analyzer.ModeImage {
		next = analyzer.ModeText
	}

	m.session.SetMode(next)
	m.text.Reset()
	m.path.Reset()
	m.notice = ""
	return m.focusActive()
}

func (m *Model) focusActive() tea.Cmd {
	if m.session.Mode() == analyzer.ModeImage {
		m.text.Blur()
		return m.path.Focus()
	}
	m.path.Blur()
	return m.text.Focus()
}

func (m *Model) analyze() tea.Cmd {
	d := m.session.Analyze()
	if d == nil {
		return nil
	}
	return tea.Batch(m.spinner.Tick, RunDetection(m.ctx, d))
}

func (m *Model) loadPath() tea.Cmd {
	path := strings.TrimSpace(m.path.Value())
	if path == "" {
		m.notice = "Enter the path of an image to analyze"
		return nil
	}
	m.notice = ""
	return LoadImage(config.ExpandPath(path), m.opts.MaxImageBytes)
}

func (m *Model) onFileLoaded(msg fileLoadedMsg) {
	if msg.err != nil {
		m.notice = msg.err.Error()
		m.log.Debug("image rejected: %v", msg.err)
		return
	}

	if err := m.session.SelectFile(msg.file); err != nil {
		// the user left image mode while the file was loading
		if errors.Is(err, analyzer.ErrWrongMode) || errors.Is(err, analyzer.ErrDisposed) {
			return
		}
		m.notice = err.Error()
		return
	}
	m.notice = ""
}

func (m *Model) quit() tea.Cmd {
	m.quitting = true
	m.session.Dispose()
	return tea.Quit
}

// View renders the shell
func (m *Model) View() string {
	if m.quitting {
		return m.styles.Muted.Render("Goodbye!") + "\n"
	}

	snap := m.session.Snapshot()

	sections := []string{
		m.styles.Title.Render(emoji.GetEmoji("target") + " AI Content Detector"),
		m.renderTabs(snap.Mode),
		"",
		m.renderInput(snap),
		"",
		m.renderButton(snap),
	}

	if status := m.renderStatus(snap.Status); status != "" {
		sections = append(sections, "", status)
	}

	sections = append(sections, "", m.renderFooter())

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m *Model) renderTabs(mode analyzer.Mode) string {
	tabs := &components.Tabs{
		Labels:   []string{emoji.GetEmoji("text") + " Text", emoji.GetEmoji("image") + " Image"},
		Style:    m.styles.TabInactive,
		Selected: m.styles.TabActive,
	}
	if mode == analyzer.ModeImage {
		tabs.Active = 1
	}
	return tabs.Render()
}

func (m *Model) renderInput(snap analyzer.Snapshot) string {
	if snap.Mode == analyzer.ModeText {
		return m.text.View()
	}

	lines := []string{m.path.View()}
	if m.notice != "" {
		lines = append(lines, m.styles.Notice.Render(emoji.GetEmoji("warning")+" "+m.notice))
	}

	if snap.Image == nil {
		lines = append(lines, m.styles.Muted.Render("No image selected. Type a path and press enter."))
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	info := fmt.Sprintf("%s %s · %s · %s", emoji.GetEmoji("image"), snap.Image.Name, snap.Image.MimeType, humanBytes(snap.Image.Size()))
	lines = append(lines, m.styles.Muted.Render(info))
	if preview := snap.Preview.Render(); preview != "" {
		lines = append(lines, preview)
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (m *Model) renderButton(snap analyzer.Snapshot) string {
	label := analyzer.ButtonLabel(snap.Mode, snap.Status)
	if snap.InFlight {
		return m.styles.ButtonDisabled.Render(label)
	}
	return m.styles.Button.Render(label)
}

func (m *Model) renderStatus(status analyzer.Status) string {
	panel := analyzer.Project(status)

	switch panel.Kind {
	case analyzer.PanelSpinner:
		return m.spinner.View() + " " + panel.Message
	case analyzer.PanelVerdict:
		theme := m.styles.Theme
		return components.NewVerdictCard(panel).
			SetColors(theme.AI, theme.Human, theme.Muted).
			SetIcon(emoji.Verdict(panel.Verdict)).
			Render()
	case analyzer.PanelError:
		return m.styles.Error.Render(emoji.GetEmoji("error") + " " + panel.Message)
	default:
		return ""
	}
}

func (m *Model) renderFooter() string {
	provider := m.opts.Provider
	if provider != "" && m.opts.Model != "" {
		provider += " (" + m.opts.Model + ")"
	}

	help := "tab switch mode • ctrl+s analyze • esc quit"
	if m.session.Mode() == analyzer.ModeImage {
		help = "tab switch mode • enter load image • ctrl+s analyze • esc quit"
	}

	lines := []string{m.styles.Muted.Render(help)}
	if provider != "" {
		lines = append(lines, m.styles.Muted.Render("provider: "+provider))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func humanBytes(n int) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MiB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KiB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%d bytes", n)
	}
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// Run runs the interactive shell until the user quits. The session is
// disposed on return.
func Run(ctx context.Context, session *analyzer.Session, opts Options) error {
	defer session.Dispose()

	if opts.Logger == nil {
		opts.Logger = logger.Nop("ui")
	}
	if !SetThemeByName(opts.Theme) {
		opts.Logger.Warn("unknown theme %q, using default", opts.Theme)
	}

	p := tea.NewProgram(NewModel(ctx, session, opts), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
