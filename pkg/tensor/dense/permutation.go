package dense

type permutation struct {
	order []int
	odd   bool
}

// permutations lists every permutation of 0..n-1 with its parity, in
// lexicographic order.
func permutations(n int) []permutation {
	var out []permutation
	order := make([]int, n)
	used := make([]bool, n)
	var walk func(pos int)
	walk = func(pos int) {
		if pos == n {
			out = append(out, permutation{order: append([]int(nil), order...), odd: inversions(order)%2 == 1})
			return
		}
		for v := 0; v < n; v++ {
			if used[v] {
				continue
			}
			used[v] = true
			order[pos] = v
			walk(pos + 1)
			used[v] = false
		}
	}
	walk(0)
	return out
}

func inversions(order []int) int {
	n := 0
	for i := range order {
		for j := i + 1; j < len(order); j++ {
			if order[i] > order[j] {
				n++
			}
		}
	}
	return n
}
