package respond

// Ratio computes Gestalt (Ratcliff/Obershelp) pattern-matching similarity
// between two strings: twice the number of matching characters divided by
// the total length. Matching characters are found by locating the longest
// common substring, then recursing on the pieces to its left and right.
// Returns a value in [0, 1]; two empty strings are identical.
func Ratio(a, b string) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1
	}
	m := matchingChars(a, b)
	return 2 * float64(m) / float64(len(a)+len(b))
}

func matchingChars(a, b string) int {
	ai, bi, size := longestCommonSubstring(a, b)
	if size == 0 {
		return 0
	}
	return size +
		matchingChars(a[:ai], b[:bi]) +
		matchingChars(a[ai+size:], b[bi+size:])
}

// longestCommonSubstring returns the start offsets and length of the longest
// run of bytes common to a and b, preferring the earliest occurrence in a.
func longestCommonSubstring(a, b string) (ai, bi, size int) {
	if len(a) == 0 || len(b) == 0 {
		return 0, 0, 0
	}

	// row[j] is the length of the common suffix ending at a[i], b[j].
	row := make([]int, len(b)+1)
	for i := 0; i < len(a); i++ {
		prev := 0
		for j := 0; j < len(b); j++ {
			cur := row[j+1]
			if a[i] == b[j] {
				row[j+1] = prev + 1
				if row[j+1] > size {
					size = row[j+1]
					ai = i - size + 1
					bi = j - size + 1
				}
			} else {
				row[j+1] = 0
			}
			prev = cur
		}
	}
	return ai, bi, size
}
