package markov

// Viterbi finds the most probable hidden-state path for seq (log-domain).
// Ties are broken towards the lowest state index, so the result is
// deterministic. An impossible sequence still yields a path, with log
// probability -Inf.
func Viterbi(m *Model, seq Sequence) ([]int, float64, error) {
	if err := m.Validate(seq); err != nil {
		return nil, 0, err
	}
	L, N := len(seq), m.nstate

	// delta[t][y] = best log score of a path ending in y at position t
	delta := make([][]float64, L)
	// psi[t][y] = predecessor of y on that path
	psi := make([][]int, L)

	delta[0] = make([]float64, N)
	psi[0] = make([]int, N)
	for y := range N {
		delta[0][y] = m.logPi[y] + m.logB[y][seq[0]]
		psi[0][y] = -1
	}

	for t := 1; t < L; t++ {
		delta[t] = make([]float64, N)
		psi[t] = make([]int, N)
		for y := range N {
			bestPrev := 0
			bestScore := delta[t-1][0] + m.logA[0][y]
			for yp := 1; yp < N; yp++ {
				if score := delta[t-1][yp] + m.logA[yp][y]; score > bestScore {
					bestScore = score
					bestPrev = yp
				}
			}
			delta[t][y] = bestScore + m.logB[y][seq[t]]
			psi[t][y] = bestPrev
		}
	}

	bestLabel := 0
	bestScore := delta[L-1][0]
	for y := 1; y < N; y++ {
		if delta[L-1][y] > bestScore {
			bestScore = delta[L-1][y]
			bestLabel = y
		}
	}

	path := make([]int, L)
	path[L-1] = bestLabel
	for t := L - 2; t >= 0; t-- {
		path[t] = psi[t+1][path[t+1]]
	}
	return path, bestScore, nil
}

// Decode returns the Viterbi path as state names.
func (m *Model) Decode(seq Sequence) ([]string, float64, error) {
	path, score, err := Viterbi(m, seq)
	if err != nil {
		return nil, 0, err
	}
	names := make([]string, len(path))
	for i, k := range path {
		names[i] = m.StateName(k)
	}
	return names, score, nil
}
