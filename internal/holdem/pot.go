package holdem

// SplitPot divides a pot by integer floor-division among n winners. The
// remainder goes entirely to the first winner in enumeration order; callers
// pay share+remainder to winners[0] and share to the rest.
func SplitPot(total uint64, n int) (share, remainder uint64) {
	if n == 0 {
		return 0, total
	}
	share = total / uint64(n)
	remainder = total - share*uint64(n)
	return share, remainder
}

// Winners returns the indices of the best-ranked hands among the submitted
// set, in index order. Entries with ok=false (folded or missing submissions)
// never win.
func Winners(ranks []Rank, ok []bool) []int {
	var best Rank
	var out []int
	for i, r := range ranks {
		if i >= len(ok) || !ok[i] {
			continue
		}
		if len(out) == 0 {
			best = r
			out = append(out, i)
			continue
		}
		switch Compare(r, best) {
		case 1:
			best = r
			out = out[:0]
			out = append(out, i)
		case 0:
			out = append(out, i)
		}
	}
	return out
}
