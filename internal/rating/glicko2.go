// internal/rating/glicko2.go
package rating

import "math"

const (
	// GlickoScale is the multiplier used for converting between Elo and Glicko2's mu.
	GlickoScale = 173.7178
	// DefaultElo is the baseline rating.
	DefaultElo = 1500.0
	// DefaultRD is the baseline rating deviation.
	DefaultRD = 350.0
	// DefaultSigma is the baseline volatility.
	DefaultSigma = 0.06
	// Tau is the constraint on volatility changes.
	Tau = 0.5
	// Epsilon is the tolerance used in iteration stopping conditions.
	Epsilon = 0.000001
)

// glicko is a rating in Glicko2 space.
type glicko struct {
	mu    float64
	phi   float64
	sigma float64
}

func toGlicko(r Rating) glicko {
	return glicko{
		mu:    (r.Elo - DefaultElo) / GlickoScale,
		phi:   r.RD / GlickoScale,
		sigma: r.Sigma,
	}
}

func (s glicko) apply(r Rating) Rating {
	r.Elo = s.mu*GlickoScale + DefaultElo
	r.RD = s.phi * GlickoScale
	r.Sigma = s.sigma
	return r
}

// update performs a single-match Glicko2 update for r against opp, given the score in [0..1].
func update(r, opp glicko, score float64) glicko {
	gVal := g(opp.phi)
	eVal := expected(r.mu, opp.mu, opp.phi)

	v := 1.0 / (gVal * gVal * eVal * (1 - eVal))
	delta := v * gVal * (score - eVal)

	// volatility iteration (Illinois method)
	a := math.Log(r.sigma * r.sigma)
	fx := func(x float64) float64 { return f(x, r.phi, v, delta, a) }

	A := a
	var B float64
	if delta*delta > r.phi*r.phi+v {
		B = math.Log(delta*delta - r.phi*r.phi - v)
	} else {
		k := 1.0
		for fx(a-k*Tau) < 0 {
			k++
		}
		B = a - k*Tau
	}

	fA, fB := fx(A), fx(B)
	for i := 0; i < 100 && math.Abs(B-A) > Epsilon; i++ {
		C := A + (A-B)*fA/(fB-fA)
		fC := fx(C)
		if fC*fB <= 0 {
			A, fA = B, fB
		} else {
			fA /= 2
		}
		B, fB = C, fC
	}

	newSigma := math.Exp(A / 2)
	phiStar := math.Sqrt(r.phi*r.phi + newSigma*newSigma)
	phiPrime := 1.0 / math.Sqrt(1.0/(phiStar*phiStar)+1.0/v)
	return glicko{
		mu:    r.mu + phiPrime*phiPrime*gVal*(score-eVal),
		phi:   phiPrime,
		sigma: newSigma,
	}
}

// g is the G(phi) factor from Glicko2: 1/sqrt(1+3phi^2/pi^2).
func g(phi float64) float64 {
	return 1.0 / math.Sqrt(1.0+3.0*phi*phi/math.Pi/math.Pi)
}

// expected is the expected score in Glicko2 space: 1/(1+exp[-g(phi2)*(mu-mu2)]).
func expected(mu, mu2, phi2 float64) float64 {
	return 1.0 / (1.0 + math.Exp(-g(phi2)*(mu-mu2)))
}

// f is the volatility root-finding function.
func f(x, phi, v, delta, a float64) float64 {
	ex := math.Exp(x)
	num := ex * (delta*delta - phi*phi - v - ex)
	den := 2.0 * (phi*phi + v + ex) * (phi*phi + v + ex)
	return num/den - (x-a)/(Tau*Tau)
}
