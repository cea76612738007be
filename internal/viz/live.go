package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/gravsim/internal/config"
	"github.com/san-kum/gravsim/internal/dynamo"
	"github.com/san-kum/gravsim/internal/sim"
)

const (
	width           = 80
	height          = 24
	historyCapacity = 600
	maxListedBodies = 10
	frameInterval   = time.Second / 60
)

var (
	canvasStyle = lipgloss.NewStyle().Padding(1, 2)
	statsStyle  = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("240")).Padding(1, 2).Width(45)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(12)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	graphStyle  = lipgloss.NewStyle().Padding(1, 0)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(2)
)

type TickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// Model runs a scenario in the terminal. Each tick advances the simulation
// by the wall-clock time since the previous tick times the time scale.
type Model struct {
	scenario        *config.Config
	sim             *sim.Simulation
	controls        Controls
	camera          *Camera
	canvas          *Canvas
	timeScale       float64
	last            time.Time
	fps             float64
	energyHistory   []float64
	momentumHistory []float64
	showHelp        bool
}

// NewModel builds the simulation described by cfg.
func NewModel(cfg *config.Config) (Model, error) {
	s, err := cfg.NewSimulation()
	if err != nil {
		return Model{}, err
	}

	canvas := NewCanvas(width, height)
	w, h := canvas.Dots()
	return Model{
		scenario:        cfg,
		sim:             s,
		controls:        NewControls(cfg),
		camera:          NewCamera(float64(w), float64(h), s, 0),
		canvas:          canvas,
		timeScale:       cfg.TimeScale,
		last:            time.Now(),
		energyHistory:   make([]float64, 0, historyCapacity),
		momentumHistory: make([]float64, 0, historyCapacity),
	}, nil
}

func (m Model) Init() tea.Cmd {
	return tick()
}

// Update handles input events and steps the simulation.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch key := msg.String(); key {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "+", "=":
			m.camera.ZoomIn()
		case "-", "_":
			m.camera.ZoomOut()
		case "R":
			m.reset()
		case "T":
			NextTheme()
		case "?":
			m.showHelp = !m.showHelp
		default:
			m.controls.Toggle(key)
		}
	case tea.MouseMsg:
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			m.camera.ZoomIn()
		case tea.MouseButtonWheelDown:
			m.camera.ZoomOut()
		}
	case TickMsg:
		m.advance(time.Time(msg))
		return m, tick()
	}
	return m, nil
}

func (m *Model) advance(now time.Time) {
	elapsed := now.Sub(m.last).Seconds()
	m.last = now
	if elapsed <= 0 {
		return
	}
	m.fps = 1 / elapsed

	if !m.controls.Display.Paused {
		m.sim.Step(elapsed*m.timeScale, m.controls.Physics)
		m.record()
	}
	m.camera.Update(m.sim, m.controls.Display)
}

func (m *Model) record() {
	m.energyHistory = appendCapped(m.energyHistory, m.sim.Energy())
	m.momentumHistory = appendCapped(m.momentumHistory, m.sim.Momentum().Magnitude())
}

func appendCapped(h []float64, v float64) []float64 {
	h = append(h, v)
	if len(h) > historyCapacity {
		h = h[1:]
	}
	return h
}

// reset rebuilds the scenario, keeping the current toggles.
func (m *Model) reset() {
	s, err := m.scenario.NewSimulation()
	if err != nil {
		return
	}
	m.sim = s
	w, h := m.canvas.Dots()
	m.camera = NewCamera(float64(w), float64(h), s, 0)
	m.energyHistory = m.energyHistory[:0]
	m.momentumHistory = m.momentumHistory[:0]
}

// Simulation returns the simulation being shown.
func (m Model) Simulation() *sim.Simulation { return m.sim }

func (m Model) Controls() Controls { return m.controls }

// View renders the TUI interface.
func (m Model) View() string {
	m.draw()
	theme := CurrentTheme
	canvasView := canvasStyle.Foreground(theme.Primary).Render(m.canvas.String())

	var s strings.Builder
	s.WriteString(GradientText(strings.ToUpper(m.scenario.Name), theme.Secondary, theme.Accent) + "\n\n")
	if m.controls.Display.Paused {
		s.WriteString(StatusPaused.Render("PAUSED") + "\n")
	} else {
		s.WriteString(StatusRunning.Render("RUNNING") + "\n")
	}

	if len(m.energyHistory) > 1 {
		chart := asciigraph.Plot(m.energyHistory, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("Energy"))
		s.WriteString(graphStyle.Foreground(theme.Accent).Render(chart) + "\n")
		s.WriteString(labelStyle.Render("Momentum") + SparklineChart(m.momentumHistory, 28) + "\n\n")
	}

	s.WriteString(labelStyle.Render("Time") + valueStyle.Render(formatDuration(m.sim.Time())) + "\n")
	s.WriteString(labelStyle.Render("Bodies") + valueStyle.Render(fmt.Sprintf("%d", len(m.sim.Bodies()))) + "\n")
	s.WriteString(labelStyle.Render("Collisions") + valueStyle.Render(fmt.Sprintf("%d", m.sim.Collisions())) + "\n")
	s.WriteString(labelStyle.Render("Mode") + valueStyle.Render(m.sim.Config().Mode.String()) + "\n")

	if m.controls.Display.ShowInfo {
		s.WriteString("\n" + Separator(38) + "\n")
		for _, line := range m.controls.InfoLines(m.fps, m.camera.Scale) {
			s.WriteString(Subtle.Render(line) + "\n")
		}
	}

	s.WriteString(helpStyle.Render("─────────────────────\nP:Pause G:Gravity C:Collide Q:Quit\nR:Radius T:Trace V:Velocity ?:Help"))
	statsView := statsStyle.Render(s.String())
	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsView)
	if m.showHelp {
		return helpOverlay + "\n\n" + mainView
	}
	return mainView
}

const helpOverlay = `
╔══════════════════════════════════════╗
║           KEYBOARD SHORTCUTS         ║
╠══════════════════════════════════════╣
║  p        - Pause/Resume simulation  ║
║  g / c    - Toggle gravity/collision ║
║  f        - Follow gravity center    ║
║  a        - Toggle auto-scale        ║
║  + / -    - Zoom in/out (or wheel)   ║
║  v        - Velocity labels          ║
║  t        - Traces                   ║
║  r        - Radius lines             ║
║  d        - Real diameters           ║
║  n        - Names                    ║
║  i        - Info panel               ║
║  R        - Reset scenario           ║
║  T        - Cycle themes             ║
║  q        - Quit                     ║
╚══════════════════════════════════════╝`

func formatDuration(seconds float64) string {
	switch {
	case seconds >= 86400:
		return fmt.Sprintf("%.2fd", seconds/86400)
	case seconds >= 3600:
		return fmt.Sprintf("%.2fh", seconds/3600)
	}
	return fmt.Sprintf("%.2fs", seconds)
}

// draw renders bodies, traces and overlays onto the canvas.
func (m *Model) draw() {
	m.canvas.Clear()
	d := m.controls.Display
	bodies := m.sim.Bodies()
	if len(bodies) == 0 {
		return
	}
	meanMass := m.sim.TotalMass() / float64(len(bodies))
	gx, gy := m.camera.ToScreen(m.sim.GravityCenter())

	if d.ShowTrace {
		for _, b := range bodies {
			for _, p := range b.TraceTail(d.TraceLength) {
				m.canvas.Point(m.camera.ToScreen(p))
			}
		}
	}

	for _, b := range bodies {
		x, y := m.camera.ToScreen(b.Position())
		r := m.camera.DrawRadius(b, meanMass, d.RealDiameter)
		m.canvas.Disc(x, y, r)

		if d.ShowRadius {
			m.canvas.Line(gx, gy, x, y)
		}
		if d.ShowVelocity {
			tip := dynamo.FromPolar(b.Velocity.Angle(), 2*r)
			m.canvas.Line(x, y, x+tip.X(), y+tip.Y())
		}
	}

	m.canvas.Disc(gx, gy, 1)

	// labels last so dots do not overwrite them
	for i, b := range bodies {
		if i >= maxListedBodies {
			break
		}
		x, y := m.camera.ToScreen(b.Position())
		r := m.camera.DrawRadius(b, meanMass, d.RealDiameter)
		if d.ShowVelocity {
			m.canvas.Text(x+r+2, y-r-4, VelocityLabel(b.Velocity.Length()))
		}
		if d.ShowNames && b.IsPlanet() {
			m.canvas.Text(x+r+2, y+r+4, b.Name())
		}
		if d.ShowRadius {
			dist := dynamo.FromCartesian(gx-x, gy-y)
			mid := dynamo.FromCartesian(gx, gy).Sub(dist.Div(2))
			m.canvas.Text(mid.X(), mid.Y(), RadiusLabel(dist.Length()/m.camera.Scale))
		}
	}
}

// Run opens the terminal view on cfg and blocks until the user quits.
func Run(cfg *config.Config) error {
	m, err := NewModel(cfg)
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion()).Run()
	return err
}
