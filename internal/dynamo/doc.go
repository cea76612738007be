// Package dynamo provides the physics primitives of the gravity simulator.
//
// The package defines the value types the engine is built from:
//
//   - [Vector]: 2D vector kept in both cartesian and polar form
//   - [Body]: point or disc mass with kinematic state and a position trace
//   - [BodySpec]: descriptor used to construct bodies from presets or files
//
// A body with a diameter is a planet: it has a collision radius and a display
// name. Bodies without a diameter are point masses that never collide.
//
// # Example
//
//	sun, _ := dynamo.NewBody(dynamo.BodySpec{Name: "Sun", Mass: 1.9885e30, Diameter: 1.39e9})
//	earth, _ := dynamo.NewBody(dynamo.BodySpec{
//	    Name:     "Earth",
//	    Mass:     5.97237e24,
//	    Diameter: 1.27e7,
//	    Position: dynamo.FromPolar(0, dynamo.AU),
//	    Velocity: dynamo.FromPolar(math.Pi/2, 29780),
//	})
//
// # Thread Safety
//
// Vectors are plain values. Bodies are NOT thread-safe; they are owned by a
// single simulation and read by renderers only between steps.
package dynamo
