package gui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/san-kum/gravsim/internal/config"
	"github.com/san-kum/gravsim/internal/sim"
	"github.com/san-kum/gravsim/internal/viz"
)

const fontSize = 20

// keyBindings maps raylib keys to the toggle keys understood by
// viz.Controls.
var keyBindings = map[int32]string{
	rl.KeyF: "f",
	rl.KeyP: "p",
	rl.KeyV: "v",
	rl.KeyG: "g",
	rl.KeyA: "a",
	rl.KeyC: "c",
	rl.KeyT: "t",
	rl.KeyI: "i",
	rl.KeyD: "d",
	rl.KeyR: "r",
	rl.KeyN: "n",
}

type App struct {
	Scenario  *config.Config
	Sim       *sim.Simulation
	Controls  viz.Controls
	Camera    *viz.Camera
	TimeScale float64
}

// initWindow opens a window of the scenario's display size.
func initWindow(cfg *config.Config) {
	rl.InitWindow(int32(cfg.Display.Width), int32(cfg.Display.Height), "Gravity Sim")
	rl.SetTargetFPS(60)
	rl.SetExitKey(0)
	rl.HideCursor()
}

// NewApp builds the simulation for cfg and fits the camera to it unless the
// scenario fixes a scale.
func NewApp(cfg *config.Config) (*App, error) {
	s, err := cfg.NewSimulation()
	if err != nil {
		return nil, err
	}
	w, h := float64(cfg.Display.Width), float64(cfg.Display.Height)
	if w <= 0 || h <= 0 {
		w, h = config.DefaultWidth, config.DefaultHeight
	}
	return &App{
		Scenario:  cfg,
		Sim:       s,
		Controls:  viz.NewControls(cfg),
		Camera:    viz.NewCamera(w, h, s, cfg.Display.Scale),
		TimeScale: cfg.TimeScale,
	}, nil
}

// Run opens the window on cfg and blocks until it is closed.
func Run(cfg *config.Config) error {
	app, err := NewApp(cfg)
	if err != nil {
		return err
	}

	gw, gh := app.Camera.GridSize()
	fmt.Printf("total grid size: %gx%g\n", gw, gh)

	initWindow(cfg)
	defer rl.CloseWindow()
	app.RunLoop()
	return nil
}

func (a *App) RunLoop() {
	for !rl.WindowShouldClose() {
		if !a.Update(float64(rl.GetFrameTime())) {
			return
		}
		a.Draw()
	}
}

// Update advances the simulation by dt wall-clock seconds and applies
// input. It reports false once the user quits.
func (a *App) Update(dt float64) bool {
	if !a.Controls.Display.Paused && dt > 0 {
		a.Sim.Step(dt*a.TimeScale, a.Controls.Physics)
	}
	a.Camera.Update(a.Sim, a.Controls.Display)
	return a.handleInput()
}

func (a *App) handleInput() bool {
	if rl.IsKeyPressed(rl.KeyQ) || rl.IsKeyPressed(rl.KeyEscape) {
		return false
	}
	for key, name := range keyBindings {
		if rl.IsKeyPressed(key) {
			a.Controls.Toggle(name)
		}
	}
	if rl.IsKeyPressed(rl.KeyEqual) || rl.IsKeyPressed(rl.KeyKpAdd) {
		a.Camera.ZoomIn()
	}
	if rl.IsKeyPressed(rl.KeyMinus) || rl.IsKeyPressed(rl.KeyKpSubtract) {
		a.Camera.ZoomOut()
	}
	switch wheel := rl.GetMouseWheelMove(); {
	case wheel > 0:
		a.Camera.ZoomIn()
	case wheel < 0:
		a.Camera.ZoomOut()
	}
	return true
}
