package dsp

// Kalman is a 1-D random walk Kalman filter for smoothing a stream of BPM
// estimates.
type Kalman struct {
	x float64 // state
	p float64 // state covariance
	q float64 // process noise
	r float64 // measurement noise

	seeded bool
}

// NewKalman returns a filter with process noise q and measurement noise r.
// A higher q follows changes faster, a higher r trusts measurements less.
func NewKalman(q, r float64) *Kalman {
	return &Kalman{p: 1, q: q, r: r}
}

// Predict grows the uncertainty by the process noise.
func (k *Kalman) Predict() {
	k.p += k.q
}

// Update corrects the state with measurement z and returns the new state.
// The first measurement seeds the state.
func (k *Kalman) Update(z float64) float64 {
	if !k.seeded {
		k.x = z
		k.seeded = true
		return k.x
	}

	gain := k.p / (k.p + k.r)
	k.x += gain * (z - k.x)
	k.p *= 1 - gain

	return k.x
}

// Smooth runs a predict and update step for z.
func (k *Kalman) Smooth(z float64) float64 {
	k.Predict()
	return k.Update(z)
}

// State returns the current estimate and its covariance.
func (k *Kalman) State() (float64, float64) {
	return k.x, k.p
}

// Reset forgets the state.
func (k *Kalman) Reset() {
	k.x = 0
	k.p = 1
	k.seeded = false
}
