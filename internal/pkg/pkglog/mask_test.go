package pkglog

import (
	"net/http"
	"testing"
)

func TestMaskHeaders(t *testing.T) {
	headers := http.Header{}
	headers.Set("Authorization", "secret")
	headers.Set("X-Trace", "ok")

	masked := MaskHeaders(headers)
	if got := masked.Get("Authorization"); got != Masked {
		t.Fatalf("expected masked authorization, got %q", got)
	}
	if got := masked.Get("X-Trace"); got != "ok" {
		t.Fatalf("expected X-Trace to stay, got %q", got)
	}
	if got := headers.Get("Authorization"); got != "secret" {
		t.Fatalf("expected original headers unchanged, got %q", got)
	}
}

func TestMaskData(t *testing.T) {
	input := map[string]any{
		"password": "secret",
		"profile": map[string]any{
			"access_token": "token",
		},
		"items": []any{
			map[string]any{
				"Card_Number": "4111",
			},
		},
	}

	masked := MaskData(input).(map[string]any)
	if masked["password"] != Masked {
		t.Fatalf("expected masked password")
	}
	if masked["profile"].(map[string]any)["access_token"] != Masked {
		t.Fatalf("expected masked access_token")
	}
	items := masked["items"].([]any)
	if items[0].(map[string]any)["Card_Number"] != Masked {
		t.Fatalf("expected masked card number regardless of case")
	}
	if input["password"] != "secret" {
		t.Fatalf("expected input unchanged")
	}
}
