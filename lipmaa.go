package bamboo

// Lipmaa computes the sequence number that entry n's skip-link should
// point to. It is a pure function of n: both the publisher and any
// verifier compute it independently, so the wire format never needs to
// carry which scheme produced a link.
//
// The closed form is built on c(k) = (3^k-1)/2 (1, 4, 13, 40, ...).
// With k the smallest index such that c(k) >= n: if n == c(k), the
// link jumps back 3^(k-1) entries (Lipmaa(4) == 1, Lipmaa(13) == 4).
// Otherwise n is reduced modulo c(k-1), c(k-2), ... in turn until the
// remainder is zero; if that happens at a modulus c(j) > 1 the link
// jumps back c(j) entries (Lipmaa(8) == 4), and if it only happens at
// c(1) == 1 the link is n-1. Following the links from any n reaches 1
// in O(log n) steps.
func Lipmaa(n uint64) uint64 {
	if n <= 1 {
		return 1
	}

	m, po3, x := uint64(1), uint64(3), n
	for m < n {
		po3 *= 3
		m = (po3 - 1) / 2
	}

	po3 /= 3
	if m != n {
		for x != 0 {
			m = (po3 - 1) / 2
			po3 /= 3
			x %= m
		}
		if m != po3 {
			po3 = m
		}
	}

	return n - po3
}

// IsLipmaaRequired reports whether entry n's skip-link target differs
// from its backlink target, i.e. whether the encoded entry must carry
// a distinct lipmaa_link field rather than relying on the backlink
// alone.
func IsLipmaaRequired(n uint64) bool {
	if n <= 1 {
		return false
	}
	return Lipmaa(n) != n-1
}
