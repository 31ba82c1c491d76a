package idgen

import "strings"

// Compare orders identities by prefix, then by numeric suffix, so that "T2"
// sorts before "T10". Identities without a numeric suffix compare lexically.
func Compare(a, b string) int {
	prefixA, digitsA := split(a)
	prefixB, digitsB := split(b)
	if prefixA != prefixB || digitsA == "" || digitsB == "" {
		return strings.Compare(a, b)
	}
	digitsA = strings.TrimLeft(digitsA, "0")
	digitsB = strings.TrimLeft(digitsB, "0")
	if len(digitsA) != len(digitsB) {
		if len(digitsA) < len(digitsB) {
			return -1
		}
		return 1
	}
	if ret := strings.Compare(digitsA, digitsB); ret != 0 {
		return ret
	}
	return strings.Compare(a, b)
}

func split(id string) (string, string) {
	i := len(id)
	for i > 0 && id[i-1] >= '0' && id[i-1] <= '9' {
		i--
	}
	return id[:i], id[i:]
}
