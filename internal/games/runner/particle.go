package runner

import "github.com/vovakirdan/cashrun/internal/core"

// Particle is a short-lived feedback dot. It never affects gameplay.
type Particle struct {
	X, Y   float64
	VX, VY float64
	Life   float64 // 1 at birth, removed at <= 0
	Color  core.Color
}

// burst appends n particles at (x, y) with random velocities in
// [-spread/2, spread/2) on each axis.
func burst(dst []Particle, rnd Rand, x, y float64, n int, spread float64, c core.Color) []Particle {
	for i := 0; i < n; i++ {
		dst = append(dst, Particle{
			X:     x,
			Y:     y,
			VX:    (rnd.Float64() - 0.5) * spread,
			VY:    (rnd.Float64() - 0.5) * spread,
			Life:  1,
			Color: c,
		})
	}
	return dst
}

// updateParticles advances and decays particles in place, dropping dead ones.
func updateParticles(ps []Particle, decay float64) []Particle {
	alive := ps[:0]
	for _, p := range ps {
		p.X += p.VX
		p.Y += p.VY
		p.Life -= decay
		if p.Life > 0 {
			alive = append(alive, p)
		}
	}
	return alive
}
