package sim_test

import (
	"context"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/gravsim/internal/dynamo"
	"github.com/san-kum/gravsim/internal/sim"
)

var gravityOnly = sim.Toggles{Gravity: true}
var collisionOnly = sim.Toggles{Collision: true}

var _ = Describe("Simulation", func() {
	Describe("construction", func() {
		It("fills zero config fields with defaults", func() {
			s := sim.New(nil, sim.Config{})
			Expect(s.Config().G).To(Equal(dynamo.G))
			Expect(s.Config().Substeps).To(Equal(sim.DefaultSubsteps))
			Expect(s.Config().Mode).To(Equal(sim.ModeReference))
		})

		It("owns a copy of the body slice and accepts new bodies", func() {
			bodies := []*dynamo.Body{body(dynamo.BodySpec{Mass: 1})}
			s := sim.New(bodies, sim.DefaultConfig())
			bodies[0] = nil
			Expect(s.Bodies()[0]).NotTo(BeNil())

			s.AddBody(body(dynamo.BodySpec{Mass: 2}))
			Expect(s.Bodies()).To(HaveLen(2))
		})
	})

	Describe("aggregates", func() {
		var s *sim.Simulation

		BeforeEach(func() {
			s = sim.New([]*dynamo.Body{
				body(dynamo.BodySpec{Mass: 1, Position: at(-1, 0)}),
				body(dynamo.BodySpec{Mass: 3, Position: at(3, 2)}),
				body(dynamo.BodySpec{Mass: 4, Position: at(0, -2)}),
			}, sim.DefaultConfig())
		})

		It("sums and maximises masses", func() {
			Expect(s.TotalMass()).To(Equal(8.0))
			Expect(s.MaxMass()).To(Equal(4.0))
		})

		It("measures the bounding extent", func() {
			size := s.Size()
			Expect(size.X()).To(Equal(4.0))
			Expect(size.Y()).To(Equal(4.0))
		})

		It("computes the mass-weighted centre", func() {
			gc := s.GravityCenter()
			Expect(gc.X()).To(BeNumerically("~", 1.0, 1e-12))
			Expect(gc.Y()).To(BeNumerically("~", -0.25, 1e-12))
		})

		It("handles an empty simulation", func() {
			empty := sim.New(nil, sim.DefaultConfig())
			Expect(empty.TotalMass()).To(BeZero())
			Expect(empty.MaxMass()).To(BeZero())
			Expect(empty.Size().Length()).To(BeZero())
			Expect(empty.GravityCenter().Length()).To(BeZero())
		})
	})

	Describe("gravity", func() {
		It("conserves two-body momentum over many sub-steps", func() {
			s := sim.New([]*dynamo.Body{
				body(dynamo.BodySpec{Mass: 1, Position: at(-1, 0), Velocity: at(0, 0.5)}),
				body(dynamo.BodySpec{Mass: 1, Position: at(1, 0), Velocity: at(0, -0.5)}),
			}, sim.Config{G: 1})

			for i := 0; i < 500; i++ {
				s.Step(0.01, gravityOnly)
			}

			px, py := totalMomentum(s.Bodies())
			Expect(px).To(BeNumerically("~", 0, 1e-9))
			Expect(py).To(BeNumerically("~", 0, 1e-9))
			Expect(s.Time()).To(BeNumerically("~", 5, 1e-9))
		})

		It("applies equal and opposite forces each sub-step", func() {
			a := body(dynamo.BodySpec{Mass: 2, Position: at(0, 0)})
			b := body(dynamo.BodySpec{Mass: 5, Position: at(3, 4)})
			s := sim.New([]*dynamo.Body{a, b}, sim.Config{G: 1, Substeps: 1})

			s.Step(0.1, gravityOnly)

			fa := a.Acceleration.Scale(a.Mass())
			fb := b.Acceleration.Scale(b.Mass())
			Expect(fa.X()).To(BeNumerically("~", -fb.X(), 1e-12))
			Expect(fa.Y()).To(BeNumerically("~", -fb.Y(), 1e-12))
			Expect(fa.Length()).To(BeNumerically("~", 2.0*5.0/25.0, 1e-12))

			// a is pulled toward b
			Expect(fa.X()).To(BeNumerically(">", 0))
			Expect(fa.Y()).To(BeNumerically(">", 0))
		})

		It("applies gravity to velocity twice per sub-step in reference mode", func() {
			run := func(mode sim.Mode) float64 {
				a := body(dynamo.BodySpec{Mass: 1, Position: at(-1, 0)})
				b := body(dynamo.BodySpec{Mass: 1, Position: at(1, 0)})
				s := sim.New([]*dynamo.Body{a, b}, sim.Config{G: 1, Substeps: 1, Mode: mode})
				s.Step(0.01, gravityOnly)
				return a.Velocity.X()
			}

			ref := run(sim.ModeReference)
			corrected := run(sim.ModeCorrected)
			Expect(corrected).To(BeNumerically("~", 0.25*0.01, 1e-15))
			Expect(ref).To(BeNumerically("~", 2*corrected, 1e-15))
		})

		It("conserves momentum for three bodies in corrected mode", func() {
			s := sim.New([]*dynamo.Body{
				body(dynamo.BodySpec{Mass: 1, Position: at(0, 0), Velocity: at(0.1, 0)}),
				body(dynamo.BodySpec{Mass: 2, Position: at(3, 0), Velocity: at(0, 0.4)}),
				body(dynamo.BodySpec{Mass: 3, Position: at(0, 4), Velocity: at(-0.2, 0)}),
			}, sim.Config{G: 1, Mode: sim.ModeCorrected})
			px0, py0 := totalMomentum(s.Bodies())

			for i := 0; i < 200; i++ {
				s.Step(0.01, gravityOnly)
			}

			px, py := totalMomentum(s.Bodies())
			Expect(px).To(BeNumerically("~", px0, 1e-9))
			Expect(py).To(BeNumerically("~", py0, 1e-9))
		})

		It("clears stale accelerations in corrected mode when gravity is off", func() {
			a := body(dynamo.BodySpec{Mass: 1, Position: at(-1, 0)})
			b := body(dynamo.BodySpec{Mass: 1, Position: at(1, 0)})
			s := sim.New([]*dynamo.Body{a, b}, sim.Config{G: 1, Mode: sim.ModeCorrected})

			s.Step(0.01, gravityOnly)
			v := a.Velocity
			s.Step(0.01, sim.Toggles{})
			Expect(a.Acceleration.Length()).To(BeZero())
			Expect(a.Velocity.X()).To(Equal(v.X()))
			Expect(a.Velocity.Y()).To(BeNumerically("~", v.Y(), 1e-15))
		})

		It("keeps the stale acceleration in reference mode when gravity is off", func() {
			a := body(dynamo.BodySpec{Mass: 1, Position: at(-1, 0)})
			b := body(dynamo.BodySpec{Mass: 1, Position: at(1, 0)})
			s := sim.New([]*dynamo.Body{a, b}, sim.Config{G: 1})

			s.Step(0.01, gravityOnly)
			v := a.Velocity.X()
			s.Step(0.01, sim.Toggles{})
			Expect(a.Velocity.X()).To(BeNumerically(">", v))
		})

		It("stays within the force-derived displacement bound for the triple preset", func() {
			bodies := []*dynamo.Body{
				body(dynamo.BodySpec{Name: "1", Diameter: 1, Mass: 5e8, Position: at(0, 0)}),
				body(dynamo.BodySpec{Name: "2", Diameter: 1, Mass: 5e8, Position: at(2, 0)}),
				body(dynamo.BodySpec{Name: "3", Diameter: 2, Mass: 5e9, Position: at(2, 5)}),
			}
			start := make([]dynamo.Vector, len(bodies))
			bound := make([]float64, len(bodies))
			for i, b := range bodies {
				start[i] = b.Position()
				for j, o := range bodies {
					if i == j {
						continue
					}
					r := b.Position().Sub(o.Position()).Length()
					bound[i] += dynamo.G * o.Mass() / (r * r)
				}
				// two sub-steps of 0.5 with gravity applied twice each
				bound[i] *= 1.5
			}

			s := sim.New(bodies, sim.DefaultConfig())
			s.Step(1, gravityOnly)

			for i, b := range s.Bodies() {
				moved := b.Position().Sub(start[i]).Length()
				Expect(moved).To(BeNumerically(">", 0), "body %d", i)
				Expect(moved).To(BeNumerically("<=", bound[i]*1.01), "body %d", i)
			}
		})

		It("propagates non-finite values for coincident bodies", func() {
			a := body(dynamo.BodySpec{Mass: 1, Position: at(1, 1)})
			b := body(dynamo.BodySpec{Mass: 1, Position: at(1, 1)})
			s := sim.New([]*dynamo.Body{a, b}, sim.Config{G: 1})

			Expect(func() { s.Step(0.01, gravityOnly) }).NotTo(Panic())
			Expect(a.IsFinite()).To(BeFalse())
			Expect(b.IsFinite()).To(BeFalse())
		})
	})

	Describe("fixed bodies", func() {
		It("never move under gravity and collisions", func() {
			sun := body(dynamo.BodySpec{Name: "Sun", Mass: 1000, Diameter: 1, Position: at(0, 0), Fixed: true})
			orbiter := body(dynamo.BodySpec{Name: "orbiter", Mass: 1, Diameter: 0.1, Position: at(5, 0), Velocity: at(0, 14)})
			diver := body(dynamo.BodySpec{Name: "diver", Mass: 1, Diameter: 0.2, Position: at(-3, 0), Velocity: at(2, 0)})
			s := sim.New([]*dynamo.Body{sun, orbiter, diver}, sim.Config{G: 1})

			for i := 0; i < 300; i++ {
				s.Step(0.005, sim.AllOn())
			}

			Expect(sun.Position()).To(Equal(at(0, 0)))
			Expect(sun.Velocity).To(Equal(dynamo.Vector{}))
			Expect(sun.Trace()).To(BeEmpty())
			Expect(orbiter.Trace()).To(HaveLen(600))
		})
	})

	Describe("collisions", func() {
		overlapping := func() (*dynamo.Body, *dynamo.Body) {
			return body(dynamo.BodySpec{Mass: 1, Diameter: 1, Position: at(0, 0)}),
				body(dynamo.BodySpec{Mass: 1, Diameter: 1, Position: at(0.5, 0)})
		}

		It("ignores point masses", func() {
			a := body(dynamo.BodySpec{Mass: 1, Position: at(0, 0), Velocity: at(1, 0)})
			b := body(dynamo.BodySpec{Mass: 1, Position: at(0, 0), Velocity: at(-1, 0)})
			s := sim.New([]*dynamo.Body{a, b}, sim.DefaultConfig())

			s.Step(0.01, collisionOnly)
			Expect(s.Collisions()).To(BeZero())
		})

		It("does not re-resolve a pair for three sub-steps", func() {
			a, b := overlapping()
			s := sim.New([]*dynamo.Body{a, b}, sim.Config{G: 1, Substeps: 1})

			var counts []int
			var cooling []bool
			for i := 0; i < 7; i++ {
				s.Step(0.01, collisionOnly)
				counts = append(counts, s.Collisions())
				cooling = append(cooling, s.InCooldown(a, b))
			}

			Expect(counts).To(Equal([]int{1, 1, 1, 2, 2, 2, 3}))
			Expect(cooling).To(Equal([]bool{true, true, false, true, true, false, true}))
		})

		It("counts the cooldown in sub-steps, not frames", func() {
			a, b := overlapping()
			s := sim.New([]*dynamo.Body{a, b}, sim.Config{G: 1})

			s.Step(0.01, collisionOnly)
			Expect(s.Collisions()).To(Equal(1))
			s.Step(0.01, collisionOnly)
			Expect(s.Collisions()).To(Equal(2))
		})

		It("resolves each body at most once per sub-step", func() {
			bodies := []*dynamo.Body{
				body(dynamo.BodySpec{Mass: 1, Diameter: 1, Position: at(0, 0)}),
				body(dynamo.BodySpec{Mass: 1, Diameter: 1, Position: at(0.1, 0)}),
				body(dynamo.BodySpec{Mass: 1, Diameter: 1, Position: at(0.2, 0)}),
			}
			s := sim.New(bodies, sim.Config{G: 1, Substeps: 1})

			s.Step(0.01, collisionOnly)
			Expect(s.Collisions()).To(Equal(1))
			Expect(s.InCooldown(bodies[0], bodies[1])).To(BeTrue())
			Expect(s.InCooldown(bodies[1], bodies[2])).To(BeFalse())
		})

		It("conserves momentum and kinetic energy", func() {
			a := body(dynamo.BodySpec{Mass: 1, Diameter: 0.5, Position: at(-0.4, 0.1), Velocity: at(1, 0)})
			b := body(dynamo.BodySpec{Mass: 3, Diameter: 0.5, Position: at(0, 0), Velocity: at(-0.2, 0.3)})
			s := sim.New([]*dynamo.Body{a, b}, sim.Config{G: 1, Substeps: 1})
			px0, py0 := totalMomentum(s.Bodies())
			ke0 := kinetic(s.Bodies())

			s.Step(0.001, collisionOnly)

			Expect(s.Collisions()).To(Equal(1))
			px, py := totalMomentum(s.Bodies())
			Expect(px).To(BeNumerically("~", px0, 1e-12))
			Expect(py).To(BeNumerically("~", py0, 1e-12))
			Expect(kinetic(s.Bodies())).To(BeNumerically("~", ke0, 1e-12))
		})

		It("gives a struck body at rest no sideways component", func() {
			a := body(dynamo.BodySpec{Mass: 1, Diameter: 0.5, Position: at(-0.4, 0.1), Velocity: at(1, 0)})
			b := body(dynamo.BodySpec{Mass: 1, Diameter: 0.5, Position: at(0, 0)})
			delta := a.Position().Sub(b.Position())
			s := sim.New([]*dynamo.Body{a, b}, sim.Config{G: 1, Substeps: 1})

			s.Step(0.001, collisionOnly)

			cross := b.Velocity.X()*delta.Y() - b.Velocity.Y()*delta.X()
			Expect(cross).To(BeNumerically("~", 0, 1e-12))
			Expect(b.Velocity.Length()).To(BeNumerically(">", 0))

			// equal masses: the striker keeps only its perpendicular part
			dot := a.Velocity.X()*delta.X() + a.Velocity.Y()*delta.Y()
			Expect(dot).To(BeNumerically("~", 0, 1e-12))
		})

		It("resets accelerations of resolved bodies", func() {
			a, b := overlapping()
			a.Acceleration = at(3, 3)
			s := sim.New([]*dynamo.Body{a, b}, sim.Config{G: 1, Substeps: 1})

			s.Step(0.01, collisionOnly)
			Expect(a.Acceleration.Length()).To(BeZero())
			Expect(b.Acceleration.Length()).To(BeZero())
		})

		It("bounces two equal masses falling together exactly once", func() {
			a := body(dynamo.BodySpec{Name: "1", Mass: 2, Diameter: 0.5, Position: at(-1, 0)})
			b := body(dynamo.BodySpec{Name: "2", Mass: 2, Diameter: 0.5, Position: at(1, 0)})
			s := sim.New([]*dynamo.Body{a, b}, sim.Config{G: 1})

			for i := 0; i < 10000 && s.Collisions() == 0; i++ {
				s.Step(0.01, sim.AllOn())
			}
			Expect(s.Collisions()).To(Equal(1))

			for i := 0; i < 5; i++ {
				s.Step(0.01, sim.AllOn())
			}
			Expect(s.Collisions()).To(Equal(1))

			Expect(a.Velocity.X()).To(BeNumerically("<", 0))
			Expect(b.Velocity.X()).To(BeNumerically(">", 0))
			Expect(a.Velocity.X()).To(BeNumerically("~", -b.Velocity.X(), 1e-9))
			Expect(a.Velocity.Length()).To(BeNumerically("~", b.Velocity.Length(), 1e-9))
			Expect(math.Abs(a.Velocity.Y())).To(BeNumerically("<", 1e-9))
			Expect(b.Position().Sub(a.Position()).Length()).To(BeNumerically(">", 0.5))
		})
	})

	Describe("traces", func() {
		It("grows by one point per sub-step for moving bodies", func() {
			a := body(dynamo.BodySpec{Mass: 1, Position: at(0, 0), Velocity: at(1, 0)})
			s := sim.New([]*dynamo.Body{a}, sim.DefaultConfig())

			for i := 0; i < 10; i++ {
				s.Step(0.1, sim.AllOn())
			}

			Expect(a.Trace()).To(HaveLen(10 * sim.DefaultSubsteps))
			Expect(a.Trace()[0]).To(Equal(at(0, 0)))
			Expect(a.Position().X()).To(BeNumerically("~", 1, 1e-12))
		})
	})

	Describe("observers", func() {
		It("are notified after each step and each collision", func() {
			a := body(dynamo.BodySpec{Mass: 1, Diameter: 1, Position: at(0, 0)})
			b := body(dynamo.BodySpec{Mass: 1, Diameter: 1, Position: at(0.5, 0)})
			s := sim.New([]*dynamo.Body{a, b}, sim.Config{G: 1, Substeps: 1})

			rec := &recorder{}
			s.AddObserver(rec)
			s.AddCollisionObserver(rec)

			for i := 0; i < 4; i++ {
				s.Step(0.25, collisionOnly)
			}

			Expect(rec.times).To(HaveLen(4))
			Expect(rec.times[3]).To(BeNumerically("~", 1, 1e-12))
			Expect(rec.hits).To(Equal(2))
		})
	})

	Describe("clone and ensemble", func() {
		newPair := func() *sim.Simulation {
			return sim.New([]*dynamo.Body{
				body(dynamo.BodySpec{Mass: 1, Position: at(-1, 0), Velocity: at(0, 0.5)}),
				body(dynamo.BodySpec{Mass: 1, Position: at(1, 0), Velocity: at(0, -0.5)}),
			}, sim.Config{G: 1})
		}

		It("clones state without sharing bodies", func() {
			s := newPair()
			s.Step(0.01, gravityOnly)
			c := s.Clone()

			Expect(c.Bodies()[0]).NotTo(BeIdenticalTo(s.Bodies()[0]))
			Expect(c.Bodies()[0].Position()).To(Equal(s.Bodies()[0].Position()))
			Expect(c.Bodies()[0].Trace()).To(BeEmpty())
			Expect(c.Config()).To(Equal(s.Config()))
		})

		It("steps members independently and deterministically", func() {
			first, second := newPair(), newPair()
			e := sim.NewEnsemble(first, second)

			Expect(e.Run(context.Background(), 100, 0.01, gravityOnly)).To(Succeed())
			Expect(first.Time()).To(BeNumerically("~", 1, 1e-9))
			Expect(first.Bodies()[0].Position()).To(Equal(second.Bodies()[0].Position()))
		})

		It("stops on a cancelled context", func() {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()

			s := newPair()
			err := sim.NewEnsemble(s).Run(ctx, 100, 0.01, gravityOnly)
			Expect(err).To(MatchError(context.Canceled))
			Expect(s.Time()).To(BeZero())
		})
	})

	Describe("modes", func() {
		DescribeTable("parses names",
			func(name string, want sim.Mode, ok bool) {
				got, err := sim.ParseMode(name)
				if !ok {
					Expect(err).To(HaveOccurred())
					return
				}
				Expect(err).NotTo(HaveOccurred())
				Expect(got).To(Equal(want))
				Expect(got.String()).To(Equal(map[sim.Mode]string{sim.ModeReference: "reference", sim.ModeCorrected: "corrected"}[want]))
			},
			Entry("default", "", sim.ModeReference, true),
			Entry("reference", "reference", sim.ModeReference, true),
			Entry("corrected", "Corrected", sim.ModeCorrected, true),
			Entry("unknown", "symplectic", sim.ModeReference, false),
		)
	})
})

type recorder struct {
	times []float64
	hits  int
}

func (r *recorder) OnStep(_ []*dynamo.Body, t float64) { r.times = append(r.times, t) }

func (r *recorder) OnCollision(_, _ *dynamo.Body, _ float64) { r.hits++ }
