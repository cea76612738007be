package viz

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/gravsim/internal/config"
	"github.com/san-kum/gravsim/internal/sim"
)

var presetInfo = map[string]string{
	"solar":  "sun and eight planets",
	"triple": "three-body tangle",
	"cradle": "elastic impacts in a row",
	"binary": "two masses, unit G",
}

var (
	titleStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#00cccc")).Bold(true)
	subtitleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#666688"))
	cursorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#00ffff")).Bold(true)
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffffff")).Bold(true)
	detailStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff88ff"))
	idleStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#555566"))
	idleDimStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#444455"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff5555"))
)

type pickerState int

const (
	stateMenu pickerState = iota
	stateConfig
	stateSim
)

// setting is one editable field on the config screen.
type setting struct {
	name  string
	get   func(*config.Config) string
	set   func(*config.Config, string) error
	nudge func(*config.Config, int)
}

var settings = []setting{
	{
		name: "time_scale",
		get:  func(c *config.Config) string { return fmt.Sprintf("%g", c.TimeScale) },
		set: func(c *config.Config, s string) error {
			var v float64
			if _, err := fmt.Sscanf(s, "%g", &v); err != nil || v < 0 {
				return fmt.Errorf("invalid time scale %q", s)
			}
			c.TimeScale = v
			return nil
		},
		nudge: func(c *config.Config, dir int) {
			if dir > 0 {
				c.TimeScale *= 2
			} else {
				c.TimeScale /= 2
			}
		},
	},
	{
		name: "mode",
		get:  func(c *config.Config) string { return c.Mode },
		set: func(c *config.Config, s string) error {
			m, err := sim.ParseMode(s)
			if err != nil {
				return err
			}
			c.Mode = m.String()
			return nil
		},
		nudge: func(c *config.Config, _ int) {
			if c.Mode == sim.ModeCorrected.String() {
				c.Mode = sim.ModeReference.String()
			} else {
				c.Mode = sim.ModeCorrected.String()
			}
		},
	},
	{
		name: "trace_length",
		get:  func(c *config.Config) string { return fmt.Sprintf("%d", c.Display.TraceLength) },
		set: func(c *config.Config, s string) error {
			var v int
			if _, err := fmt.Sscanf(s, "%d", &v); err != nil || v < 0 {
				return fmt.Errorf("invalid trace length %q", s)
			}
			c.Display.TraceLength = v
			return nil
		},
		nudge: func(c *config.Config, dir int) {
			c.Display.TraceLength = max(0, c.Display.TraceLength+dir*100)
		},
	},
}

// Picker lists the built-in scenarios, lets the user adjust a few settings
// and then hands over to the live view.
type Picker struct {
	state       pickerState
	cursor      int
	presets     []string
	selected    *config.Config
	paramCursor int
	editing     bool
	editBuf     string
	err         error
	live        Model
}

func NewPicker() Picker {
	return Picker{state: stateMenu, presets: config.ListPresets()}
}

func (m Picker) Init() tea.Cmd { return nil }

func (m Picker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.state == stateSim {
		next, cmd := m.live.Update(msg)
		m.live = next.(Model)
		return m, cmd
	}
	if key, ok := msg.(tea.KeyMsg); ok {
		switch m.state {
		case stateMenu:
			return m.menuKey(key)
		case stateConfig:
			return m.configKey(key)
		}
	}
	return m, nil
}

func (m Picker) menuKey(msg tea.KeyMsg) (Picker, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.presets)-1 {
			m.cursor++
		}
	case "enter", " ":
		m.selected = config.GetPreset(m.presets[m.cursor])
		m.state, m.paramCursor, m.err = stateConfig, 0, nil
	}
	return m, nil
}

func (m Picker) configKey(msg tea.KeyMsg) (Picker, tea.Cmd) {
	if m.editing {
		switch msg.String() {
		case "enter":
			m.err = settings[m.paramCursor].set(m.selected, m.editBuf)
			m.editing, m.editBuf = false, ""
		case "esc":
			m.editing, m.editBuf = false, ""
		case "backspace":
			if len(m.editBuf) > 0 {
				m.editBuf = m.editBuf[:len(m.editBuf)-1]
			}
		default:
			if msg.Type == tea.KeyRunes {
				m.editBuf += string(msg.Runes)
			}
		}
		return m, nil
	}
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "q", "esc":
		m.state = stateMenu
	case "up", "k":
		if m.paramCursor > 0 {
			m.paramCursor--
		}
	case "down", "j":
		if m.paramCursor < len(settings)-1 {
			m.paramCursor++
		}
	case "enter", " ":
		m.editing, m.editBuf = true, settings[m.paramCursor].get(m.selected)
	case "left", "h":
		settings[m.paramCursor].nudge(m.selected, -1)
	case "right", "l":
		settings[m.paramCursor].nudge(m.selected, 1)
	case "s":
		return m.start()
	}
	return m, nil
}

func (m Picker) start() (Picker, tea.Cmd) {
	live, err := NewModel(m.selected)
	if err != nil {
		m.err = err
		return m, nil
	}
	m.live, m.state = live, stateSim
	return m, m.live.Init()
}

func (m Picker) View() string {
	switch m.state {
	case stateMenu:
		return m.viewMenu()
	case stateConfig:
		return m.viewConfig()
	case stateSim:
		return m.live.View()
	}
	return ""
}

func header(title, subtitle string) string {
	return "\n\n    " + titleStyle.Render(title) + "\n    " + subtitleStyle.Render(subtitle) + "\n    " + subtitleStyle.Render("─────────────────────────") + "\n\n"
}

func hints(pairs ...string) string {
	var b strings.Builder
	b.WriteString("\n    ")
	for i := 0; i+1 < len(pairs); i += 2 {
		b.WriteString(KeyHint.Render(pairs[i]) + idleStyle.Render(" "+pairs[i+1]+"  "))
	}
	return b.String() + "\n"
}

func (m Picker) viewMenu() string {
	var b strings.Builder
	b.WriteString(header("GRAVSIM", "n-body gravity simulator"))
	for i, name := range m.presets {
		desc := presetInfo[name]
		if i == m.cursor {
			b.WriteString(fmt.Sprintf("    %s %s  %s\n", cursorStyle.Render("▸"), selectedStyle.Render(fmt.Sprintf("%-10s", name)), detailStyle.Render(desc)))
		} else {
			b.WriteString(fmt.Sprintf("    %s  %s\n", idleStyle.Render(fmt.Sprintf("  %-10s", name)), idleDimStyle.Render(desc)))
		}
	}
	b.WriteString(hints("j/k", "navigate", "enter", "select", "q", "quit"))
	return b.String()
}

func (m Picker) viewConfig() string {
	var b strings.Builder
	b.WriteString(header(strings.ToUpper(m.selected.Name), fmt.Sprintf("%d bodies", len(m.selected.Bodies))))
	for i, s := range settings {
		val := fmt.Sprintf("%12s", s.get(m.selected))
		if m.editing && i == m.paramCursor {
			val = fmt.Sprintf("%12s", m.editBuf+"_")
		}
		if i == m.paramCursor {
			b.WriteString(fmt.Sprintf("    %s %s %s\n", cursorStyle.Render("▸"), selectedStyle.Render(fmt.Sprintf("%-14s", s.name)), detailStyle.Bold(true).Render(val)))
		} else {
			b.WriteString(fmt.Sprintf("    %s %s\n", idleStyle.Render(fmt.Sprintf("  %-14s", s.name)), idleDimStyle.Render(val)))
		}
	}
	if m.err != nil {
		b.WriteString("\n    " + errorStyle.Render(m.err.Error()) + "\n")
	}
	b.WriteString(hints("j/k", "select", "h/l", "adjust", "enter", "edit", "s", "start", "esc", "back"))
	return b.String()
}

// RunInteractive opens the scenario picker.
func RunInteractive() error {
	_, err := tea.NewProgram(NewPicker(), tea.WithAltScreen(), tea.WithMouseCellMotion()).Run()
	return err
}
