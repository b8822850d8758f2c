package stats

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// OLS performs ordinary least squares regression of y on the design matrix x
// (one row per observation). Returns the coefficients and their standard
// errors; standard errors are nil when they cannot be computed.
func OLS(x [][]float64, y []float64) (coeffs, stdErrors []float64) {
	n := len(y)
	if n == 0 || len(x) != n || len(x[0]) == 0 {
		return nil, nil
	}
	k := len(x[0])

	design := mat.NewDense(n, k, nil)
	for i, row := range x {
		design.SetRow(i, row)
	}
	response := mat.NewVecDense(n, y)

	var qr mat.QR
	qr.Factorize(design)

	var beta mat.VecDense
	if err := qr.SolveVecTo(&beta, false, response); err != nil {
		return nil, nil
	}

	coeffs = make([]float64, k)
	copy(coeffs, beta.RawVector().Data)

	// Residual variance for the standard errors.
	sse := 0.0
	for i := 0; i < n; i++ {
		pred := 0.0
		for j := 0; j < k; j++ {
			pred += coeffs[j] * x[i][j]
		}
		r := y[i] - pred
		sse += r * r
	}

	if n <= k {
		return coeffs, nil
	}
	s2 := sse / float64(n-k)

	var xtx mat.Dense
	xtx.Mul(design.T(), design)

	var inv mat.Dense
	if err := inv.Inverse(&xtx); err != nil {
		return coeffs, nil
	}

	stdErrors = make([]float64, k)
	for i := 0; i < k; i++ {
		stdErrors[i] = math.Sqrt(s2 * inv.At(i, i))
	}

	return coeffs, stdErrors
}
