// Package viz draws a running simulation in the terminal.
//
// The package implements an interactive TUI using the Bubble Tea framework:
//
//   - [Picker]: scenario menu that hands over to the live view
//   - [Model]: live view of one scenario with an energy chart
//   - [Canvas]: Braille-based pixel canvas
//   - [Camera]: metres to pixels, with follow-center and auto-scale
//
// [Controls] and [Camera] are shared with the raylib window in package gui.
//
// # Key Bindings
//
//	p     - Pause/Resume simulation
//	g / c - Toggle gravity / collisions
//	f / a - Follow gravity center / auto-scale
//	v t r - Velocity, trace and radius overlays
//	d n i - Real diameters, names, info panel
//	+ / - - Zoom
//	R     - Reset to initial state
//	T     - Cycle color themes
//	?     - Show help overlay
package viz
