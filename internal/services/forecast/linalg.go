package forecast

import "math"

// solveNormal fits ordinary least squares through the normal equations
// with Gaussian elimination and partial pivoting. A near-zero pivot
// means the system is singular and the zero vector comes back instead
// of garbage coefficients.
func solveNormal(X [][]float64, y []float64) []float64 {
	if len(X) == 0 {
		return nil
	}
	cols := len(X[0])

	// A = XᵀX, b = Xᵀy
	a := make([][]float64, cols)
	b := make([]float64, cols)
	for i := 0; i < cols; i++ {
		a[i] = make([]float64, cols)
		for j := 0; j < cols; j++ {
			var s float64
			for r := range X {
				s += X[r][i] * X[r][j]
			}
			a[i][j] = s
		}
		var s float64
		for r := range X {
			s += X[r][i] * y[r]
		}
		b[i] = s
	}

	for col := 0; col < cols; col++ {
		pivot := col
		for r := col + 1; r < cols; r++ {
			if math.Abs(a[r][col]) > math.Abs(a[pivot][col]) {
				pivot = r
			}
		}
		if math.Abs(a[pivot][col]) < 1e-12 {
			return make([]float64, cols)
		}
		a[col], a[pivot] = a[pivot], a[col]
		b[col], b[pivot] = b[pivot], b[col]

		for r := col + 1; r < cols; r++ {
			f := a[r][col] / a[col][col]
			for c := col; c < cols; c++ {
				a[r][c] -= f * a[col][c]
			}
			b[r] -= f * b[col]
		}
	}

	w := make([]float64, cols)
	for i := cols - 1; i >= 0; i-- {
		s := b[i]
		for j := i + 1; j < cols; j++ {
			s -= a[i][j] * w[j]
		}
		w[i] = s / a[i][i]
	}
	return w
}

func dot(w, x []float64) float64 {
	var s float64
	for i := range w {
		s += w[i] * x[i]
	}
	return s
}
