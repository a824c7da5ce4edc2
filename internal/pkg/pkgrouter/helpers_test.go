package pkgrouter

import (
	"strings"
	"testing"
)

func TestNormalizeCID(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want int
	}{
		{"trimmed", "  req-1  ", len("req-1")},
		{"newline only", "\n", 0},
		{"header injection", "req\r\nX-Evil: 1", 0},
		{"at limit", strings.Repeat("a", maxCIDLen), maxCIDLen},
		{"too long", strings.Repeat("a", maxCIDLen+1), 0},
		{"multibyte kept whole", strings.Repeat("é", maxCIDLen/2), maxCIDLen},
		{"multibyte over limit", strings.Repeat("é", maxCIDLen/2+1), 0},
		{"invalid utf8", "req-\xff", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := normalizeCID(tt.in); len(got) != tt.want {
				t.Fatalf("normalizeCID(%q) = %q, want length %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseAndMaskBody(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		body        string
		masked      []string
		kept        map[string]string
	}{
		{
			name:        "json payment",
			contentType: "application/json",
			body:        `{"reference":"ord-1","card_number":"4111111111111111","cvv":"123"}`,
			masked:      []string{"card_number", "cvv"},
			kept:        map[string]string{"reference": "ord-1"},
		},
		{
			name:        "form login",
			contentType: "application/x-www-form-urlencoded",
			body:        "password=secret&name=bob",
			masked:      []string{"password"},
			kept:        map[string]string{"name": "bob"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, ok := parseAndMaskBody(tt.contentType, []byte(tt.body)).(map[string]any)
			if !ok {
				t.Fatalf("expected map body")
			}
			for _, key := range tt.masked {
				if m[key] != "***" {
					t.Fatalf("expected %s to be masked, got %v", key, m[key])
				}
			}
			for key, want := range tt.kept {
				if m[key] != want {
					t.Fatalf("expected %s=%s, got %v", key, want, m[key])
				}
			}
		})
	}
}

func TestParseAndMaskBodyBinary(t *testing.T) {
	if got := parseAndMaskBody("text/plain", []byte{0xff, 0xfe, 0xfd}); got != "<binary body omitted>" {
		t.Fatalf("expected binary body omission, got %v", got)
	}
	if got := parseAndMaskBody("application/json", nil); got != nil {
		t.Fatalf("expected nil for empty body, got %v", got)
	}
}
