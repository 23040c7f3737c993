package fetcher

import "testing"

func TestSanitizeBaseURL(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"  https://api.example.com/v1/ ", "https://api.example.com/v1"},
		{"[docs](https://api.example.com/v1)", "https://api.example.com/v1"},
		{"<https://api.example.com>", "https://api.example.com"},
		{"https://api.example.com/v1/reviewCategory/,", "https://api.example.com/v1/reviewCategory"},
	}

	for _, tt := range tests {
		if got := SanitizeBaseURL(tt.in); got != tt.want {
			t.Errorf("SanitizeBaseURL(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestValidateBaseURL(t *testing.T) {
	if err := ValidateBaseURL("https://api.example.com"); err != nil {
		t.Errorf("ValidateBaseURL() error = %v", err)
	}
	for _, bad := range []string{"ftp://api.example.com", "https://", "not a url"} {
		if err := ValidateBaseURL(bad); err == nil {
			t.Errorf("ValidateBaseURL(%q) expected error", bad)
		}
	}
}
