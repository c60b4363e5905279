package transcript

import "strconv"

// HashContent computes a cheap deterministic fingerprint of text. The rolling
// hash is truncated to 32 bits on every step so the same content always maps
// to the same value regardless of platform. Used both as the chunk
// idempotence key and as the synthetic fireflies id fallback.
func HashContent(s string) string {
	var h int32
	for _, r := range s {
		h = h*31 + int32(r)
	}

	v := int64(h)
	if v < 0 {
		v = -v
	}

	hex := strconv.FormatInt(v, 16)
	if len(hex) > 16 {
		hex = hex[:16]
	}
	return hex
}
