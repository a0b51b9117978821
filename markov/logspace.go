package markov

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// logZero is log(0).
var logZero = math.Inf(-1)

// cutoff is the difference below which log(1+exp(d)) underflows to zero
// in double precision.
const cutoff = -37

// LogPlus returns log(exp(p) + exp(q)) without leaving log space.
// Either operand may be -Inf, which stands for probability zero.
func LogPlus(p, q float64) float64 {
	hi, lo := p, q
	if q > p {
		hi, lo = q, p
	}
	if math.IsInf(lo, -1) {
		return hi
	}
	diff := lo - hi
	if diff < cutoff {
		return hi
	}
	return hi + math.Log1p(math.Exp(diff))
}

// LogSum folds LogPlus over xs. The log-sum of nothing is -Inf.
func LogSum(xs ...float64) float64 {
	sum := logZero
	for _, x := range xs {
		sum = LogPlus(sum, x)
	}
	return sum
}

// Normalize scales row in place so that it sums to one. It reports false,
// leaving row untouched, when the row has no mass.
func Normalize(row []float64) bool {
	sum := floats.Sum(row)
	if sum <= 0 || math.IsNaN(sum) || math.IsInf(sum, 0) {
		return false
	}
	floats.Scale(1/sum, row)
	return true
}

func logOf(p float64) float64 {
	if p == 0 {
		return logZero
	}
	return math.Log(p)
}

func logRow(row []float64) []float64 {
	out := make([]float64, len(row))
	for i, p := range row {
		out[i] = logOf(p)
	}
	return out
}

func expRow(row []float64) []float64 {
	out := make([]float64, len(row))
	for i, lp := range row {
		out[i] = math.Exp(lp)
	}
	return out
}
