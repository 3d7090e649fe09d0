package billing

import "testing"

func TestWithSessionPlaceholder(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{
			in:   "https://example.com/checkout/success",
			want: "https://example.com/checkout/success?session_id={CHECKOUT_SESSION_ID}",
		},
		{
			in:   "https://example.com/checkout/success?ref=pricing",
			want: "https://example.com/checkout/success?ref=pricing&session_id={CHECKOUT_SESSION_ID}",
		},
		{
			in:   "https://example.com/checkout/success?session_id={CHECKOUT_SESSION_ID}",
			want: "https://example.com/checkout/success?session_id={CHECKOUT_SESSION_ID}",
		},
	}

	for _, tt := range tests {
		if got := WithSessionPlaceholder(tt.in); got != tt.want {
			t.Fatalf("WithSessionPlaceholder(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestWithSessionPlaceholderIdempotent(t *testing.T) {
	url := "https://example.com/checkout/success"
	once := WithSessionPlaceholder(url)
	twice := WithSessionPlaceholder(once)
	if once != twice {
		t.Fatalf("second application changed the url: %q vs %q", once, twice)
	}
}
