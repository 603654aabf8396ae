package heightfield

// Lerp blends x0 and x1 by alpha. Alpha outside [0, 1] extrapolates.
func Lerp(x0, x1, alpha float64) float64 {
	return x0*(1-alpha) + alpha*x1
}
