package utils

// maskEdge is the number of characters kept visible at each end of a masked key
const maskEdge = 4

// MaskAPIKey masks the API key for display.
// The first and last four characters are kept; on keys shorter than eight
// characters the two slices overlap ("ab" masks to "ab....ab").
func MaskAPIKey(key string) string {
	if key == "" {
		return ""
	}

	runes := []rune(key)
	head := runes
	if len(head) > maskEdge {
		head = runes[:maskEdge]
	}
	tail := runes
	if len(tail) > maskEdge {
		tail = runes[len(runes)-maskEdge:]
	}
	return string(head) + "...." + string(tail)
}
