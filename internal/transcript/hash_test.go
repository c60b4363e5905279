package transcript

import "testing"

func TestHashContentDeterministic(t *testing.T) {
	a := HashContent("the concrete pour is scheduled for friday")
	b := HashContent("the concrete pour is scheduled for friday")
	if a != b {
		t.Errorf("same input hashed differently: %q vs %q", a, b)
	}
}

func TestHashContentDistinguishesInputs(t *testing.T) {
	if HashContent("alpha") == HashContent("beta") {
		t.Error("distinct inputs collided")
	}
}

func TestHashContentEmpty(t *testing.T) {
	if got := HashContent(""); got != "0" {
		t.Errorf("HashContent(\"\") = %q, want 0", got)
	}
}

func TestHashContentBounded(t *testing.T) {
	long := make([]byte, 100_000)
	for i := range long {
		long[i] = byte('a' + i%26)
	}
	got := HashContent(string(long))
	if len(got) == 0 || len(got) > 16 {
		t.Errorf("hash length = %d, want 1..16", len(got))
	}
	for _, c := range got {
		if !(c >= '0' && c <= '9' || c >= 'a' && c <= 'f') {
			t.Errorf("non-hex character %q in %q", c, got)
		}
	}
}
