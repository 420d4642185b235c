package review

import "testing"

func TestEncodeID(t *testing.T) {
	tests := []struct {
		name   string
		base   string
		target string
		want   string
	}{
		{"single commit via empty base", "", "abc123", "abc123"},
		{"single commit via equal hashes", "abc123", "abc123", "abc123"},
		{"comparison", "abc123", "def456", "abc123-def456"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EncodeID(tt.base, tt.target); got != tt.want {
				t.Errorf("EncodeID(%q, %q) = %q, want %q", tt.base, tt.target, got, tt.want)
			}
		})
	}
}

func TestDecodeID(t *testing.T) {
	pair, err := DecodeID("abc123")
	if err != nil {
		t.Fatalf("DecodeID single: %v", err)
	}
	if pair.From != "abc123" || pair.To != "abc123" {
		t.Errorf("DecodeID single = %+v", pair)
	}
	if pair.IsComparison() {
		t.Error("single-commit pair should not be a comparison")
	}

	pair, err = DecodeID("abc123-def456")
	if err != nil {
		t.Fatalf("DecodeID pair: %v", err)
	}
	if pair.From != "abc123" || pair.To != "def456" {
		t.Errorf("DecodeID pair = %+v, hashes reordered or lost", pair)
	}
	if !pair.IsComparison() {
		t.Error("two-commit pair should be a comparison")
	}
}

func TestDecodeIDMalformed(t *testing.T) {
	for _, id := range []string{"", "a-b-c", "-abc", "abc-", "-"} {
		if _, err := DecodeID(id); err == nil {
			t.Errorf("DecodeID(%q) should fail", id)
		}
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	hashes := []string{"a", "1f2e3d4c", "0123456789abcdef0123456789abcdef01234567"}

	for _, a := range hashes {
		got, err := DecodeID(EncodeID(a, a))
		if err != nil {
			t.Fatalf("round trip %q: %v", a, err)
		}
		if got.From != a || got.To != a {
			t.Errorf("decode(encode(%q, %q)) = %+v", a, a, got)
		}

		for _, b := range hashes {
			if a == b {
				continue
			}
			got, err := DecodeID(EncodeID(a, b))
			if err != nil {
				t.Fatalf("round trip %q-%q: %v", a, b, err)
			}
			if got.From != a || got.To != b {
				t.Errorf("decode(encode(%q, %q)) = %+v, order not preserved", a, b, got)
			}
		}
	}
}
