package matcher

import "github.com/xrash/smetrics"

// Ratio is the indel similarity of a and b on a 0-100 scale, over bytes of
// folded text. Substitutions cost two, so one changed letter in a ten letter
// pair scores 90.
func Ratio(a, b string) float64 {
	total := len(a) + len(b)
	if total == 0 {
		return 100
	}
	d := smetrics.WagnerFischer(a, b, 1, 1, 2)
	return 100 * float64(total-d) / float64(total)
}

// ratioBound is the best Ratio two strings of these lengths could reach.
func ratioBound(la, lb int) float64 {
	if la+lb == 0 {
		return 100
	}
	lo := la
	if lb < lo {
		lo = lb
	}
	return 200 * float64(lo) / float64(la+lb)
}

// WordsSimilarity compares two word sequences: the whole-string ratio, capped
// by the weakest aligned word when both have the same number of words.
func WordsSimilarity(window, name []string, floor float64) float64 {
	a, b := join(window), join(name)
	if ratioBound(len(a), len(b)) < floor {
		return 0
	}
	sim := 100.0
	if len(window) == len(name) {
		for i := range window {
			if ratioBound(len(window[i]), len(name[i])) < floor {
				return 0
			}
			r := Ratio(window[i], name[i])
			if r < floor {
				return r
			}
			if r < sim {
				sim = r
			}
		}
	}
	if whole := Ratio(a, b); whole < sim {
		sim = whole
	}
	return sim
}

func join(words []string) string {
	n := 0
	for _, w := range words {
		n += len(w) + 1
	}
	buf := make([]byte, 0, n)
	for i, w := range words {
		if i > 0 {
			buf = append(buf, ' ')
		}
		buf = append(buf, w...)
	}
	return string(buf)
}
