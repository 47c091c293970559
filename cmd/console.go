package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	spinner "github.com/charmbracelet/bubbles/spinner"
	textinput "github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	lipgloss "github.com/charmbracelet/lipgloss"
	wordwrap "github.com/muesli/reflow/wordwrap"
	container "github.com/paintmcp/paintd/internal/container"
	domain "github.com/paintmcp/paintd/internal/domain"
	engine "github.com/paintmcp/paintd/internal/engine"
	guide "github.com/paintmcp/paintd/internal/guide"
	cobra "github.com/spf13/cobra"
)

var consoleCmd = &cobra.Command{
	Use:   "console",
	Short: "Interactive command shell against an in-process engine",
	Long: `Start an interactive shell that executes protocol commands against an
in-process engine, without going through a transport. Useful for
driving a Paint window by hand and for trying commands before scripting
them.

Enter a command name optionally followed by a JSON parameter object:

  connect
  select_tool {"tool":"pencil"}
  draw_line {"start_x":10,"start_y":10,"end_x":200,"end_y":150}

'help' lists the commands, 'help <command>' shows its guide topic.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := getConfigFromViper()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		services, err := container.NewServiceContainer(cfg, version, V)
		if err != nil {
			return err
		}
		defer cleanupServices(services)

		program := tea.NewProgram(newConsoleModel(services.GetEngine()))
		if _, err := program.Run(); err != nil {
			return fmt.Errorf("error running console: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(consoleCmd)
}

var (
	consolePromptStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Bold(true)
	consoleErrorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	consoleSuccessStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	consoleDimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// commandResultMsg carries a finished command back into the UI loop
type commandResultMsg struct {
	command  string
	envelope string
	took     time.Duration
}

type consoleModel struct {
	engine *engine.Engine

	input textinput.Model
	spin  spinner.Model

	lines    []string
	width    int
	height   int
	running  bool
	quitting bool
}

func newConsoleModel(eng *engine.Engine) *consoleModel {
	ti := textinput.New()
	ti.Prompt = "paint> "
	ti.PromptStyle = consolePromptStyle
	ti.Placeholder = "connect"
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = consolePromptStyle

	return &consoleModel{
		engine: eng,
		input:  ti,
		spin:   sp,
		width:  80,
		height: 24,
		lines: []string{
			fmt.Sprintf("paintd console %s", version),
			"Type 'help' for commands, 'exit' to leave.",
			"",
		},
	}
}

func (m *consoleModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *consoleModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case spinner.TickMsg:
		if !m.running {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case commandResultMsg:
		m.running = false
		m.appendEnvelope(msg)
		return m, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC:
			m.quitting = true
			return m, tea.Quit
		case tea.KeyEnter:
			if m.running {
				return m, nil
			}
			return m.submit()
		}
	}

	if m.running {
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *consoleModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	visible := m.lines
	if max := m.height - 3; max > 0 && len(visible) > max {
		visible = visible[len(visible)-max:]
	}
	for _, line := range visible {
		b.WriteString(line)
		b.WriteString("\n")
	}

	if m.running {
		b.WriteString(m.spin.View() + "running...\n")
	} else {
		b.WriteString(m.input.View() + "\n")
	}

	b.WriteString(consoleDimStyle.Render("command [json-params] · help · exit"))
	return b.String()
}

func (m *consoleModel) submit() (tea.Model, tea.Cmd) {
	line := strings.TrimSpace(m.input.Value())
	if line == "" {
		return m, nil
	}
	m.input.Reset()
	m.append(consolePromptStyle.Render("paint> ") + line)

	switch {
	case line == "exit" || line == "quit":
		m.quitting = true
		return m, tea.Quit

	case line == "help":
		m.appendHelp()
		return m, nil

	case strings.HasPrefix(line, "help "):
		m.appendTopic(strings.TrimSpace(strings.TrimPrefix(line, "help ")))
		return m, nil
	}

	name, raw, err := splitCommandLine(line)
	if err != nil {
		m.append(consoleErrorStyle.Render(err.Error()))
		m.append("")
		return m, nil
	}

	m.running = true
	return m, tea.Batch(m.spin.Tick, m.runCommand(name, raw))
}

// runCommand executes off the UI loop; the engine serializes commands
// internally, so a long drag or batch job never blocks rendering
func (m *consoleModel) runCommand(name string, raw json.RawMessage) tea.Cmd {
	eng := m.engine
	return func() tea.Msg {
		start := time.Now()
		result, err := eng.Execute(context.Background(), name, raw)
		return commandResultMsg{
			command:  name,
			envelope: string(domain.Envelope(result, err)),
			took:     time.Since(start),
		}
	}
}

func (m *consoleModel) append(lines ...string) {
	for _, line := range lines {
		if m.width > 0 {
			line = wordwrap.String(line, m.width)
		}
		m.lines = append(m.lines, strings.Split(line, "\n")...)
	}
}

func (m *consoleModel) appendEnvelope(msg commandResultMsg) {
	status := consoleSuccessStyle.Render("ok")
	if strings.Contains(msg.envelope, `"status":"error"`) {
		status = consoleErrorStyle.Render("error")
	}
	m.append(fmt.Sprintf("%s %s (%s)", msg.command, status, msg.took.Round(time.Millisecond)))
	m.append(prettyJSON(msg.envelope))
	m.append("")
}

func (m *consoleModel) appendHelp() {
	for _, name := range m.engine.Commands() {
		summary := ""
		if topic, ok := guide.For(name); ok {
			summary = topic.Summary
		}
		m.append(fmt.Sprintf("  %-22s %s", name, consoleDimStyle.Render(summary)))
	}
	m.append("")
}

func (m *consoleModel) appendTopic(name string) {
	topic, ok := guide.For(name)
	if !ok {
		m.append(consoleErrorStyle.Render(fmt.Sprintf("unknown command: %s", name)))
		m.append("")
		return
	}
	m.append(topic.Summary)
	m.append(topic.Body)
	if len(topic.Example) > 0 {
		m.append("example:")
		m.append("  " + name + " " + string(topic.Example))
	}
	m.append("")
}

// splitCommandLine separates the command name from its JSON parameters.
// Missing parameters default to the empty object.
func splitCommandLine(line string) (string, json.RawMessage, error) {
	name, rest, _ := strings.Cut(line, " ")
	rest = strings.TrimSpace(rest)
	if rest == "" {
		return name, json.RawMessage(`{}`), nil
	}
	if !json.Valid([]byte(rest)) {
		return "", nil, fmt.Errorf("parameters must be valid JSON: %s", rest)
	}
	return name, json.RawMessage(rest), nil
}

func prettyJSON(raw string) string {
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return raw
	}
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return raw
	}
	return string(out)
}
