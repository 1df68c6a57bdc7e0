package domain

import "slices"

// transitions is an allow-list of status edges. A status with no entry is terminal.
type transitions[S ~string] map[S][]S

func (t transitions[S]) allows(from, to S) bool {
	return slices.Contains(t[from], to)
}

func (t transitions[S]) terminal(s S) bool {
	return len(t[s]) == 0
}

// parseStatus maps raw input onto one of the known values of a closed set.
func parseStatus[S ~string](raw string, known ...S) (S, bool) {
	for _, k := range known {
		if string(k) == raw {
			return k, true
		}
	}
	var zero S
	return zero, false
}
