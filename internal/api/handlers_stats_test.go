package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestGetGameStats(t *testing.T) {
	req := httptest.NewRequest("GET", "/api/game-stats", nil)
	w := httptest.NewRecorder()

	GetGameStats(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}

	var resp struct {
		Message string         `json:"message"`
		Stats   map[string]int `json:"stats"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Message != "Game stats endpoint - ready for implementation" {
		t.Errorf("unexpected message %q", resp.Message)
	}

	want := map[string]int{"aiXWins": 0, "aiOWins": 0, "ties": 0, "totalGames": 0}
	if len(resp.Stats) != len(want) {
		t.Fatalf("expected %d counters, got %v", len(want), resp.Stats)
	}
	for k, v := range want {
		got, ok := resp.Stats[k]
		if !ok || got != v {
			t.Errorf("stats[%s] = %d (present %v), want %d", k, got, ok, v)
		}
	}
}

func TestGetGameStats_Idempotent(t *testing.T) {
	var first string
	for i := 0; i < 5; i++ {
		w := httptest.NewRecorder()
		GetGameStats(w, httptest.NewRequest("GET", "/api/game-stats", nil))
		if i == 0 {
			first = w.Body.String()
			continue
		}
		if w.Body.String() != first {
			t.Fatalf("response %d differs: %q vs %q", i, w.Body.String(), first)
		}
	}
}

func TestSaveStats(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		body        string
		wantStatus  int
		wantSaved   string
	}{
		{"object echo", "application/json", `{"aiXWins": 3}`, http.StatusOK, `{"aiXWins":3}`},
		{"full stats", "application/json; charset=utf-8", `{"aiXWins":1,"aiOWins":2,"ties":3,"totalGames":6}`, http.StatusOK, `{"aiXWins":1,"aiOWins":2,"ties":3,"totalGames":6}`},
		{"arbitrary keys kept", "application/json", `{"nested":{"a":[1,2]},"note":"hi"}`, http.StatusOK, `{"nested":{"a":[1,2]},"note":"hi"}`},
		{"non-object value", "application/json", `[1,2,3]`, http.StatusOK, `[1,2,3]`},
		{"vendor json type", "application/vnd.stats+json", `{"ties":1}`, http.StatusOK, `{"ties":1}`},
		{"malformed", "application/json", `{"aiXWins":`, http.StatusBadRequest, ""},
		{"empty body", "application/json", ``, http.StatusBadRequest, ""},
		{"whitespace body", "application/json", "  \n", http.StatusBadRequest, ""},
		{"invalid utf-8 in string", "application/json", "{\"name\":\"\xff\xfe\"}", http.StatusBadRequest, ""},
		{"utf-8 kept", "application/json", `{"name":"Zoë"}`, http.StatusOK, `{"name":"Zoë"}`},
		{"missing content type", "", `{"aiXWins":3}`, http.StatusUnsupportedMediaType, ""},
		{"form content type", "application/x-www-form-urlencoded", `aiXWins=3`, http.StatusUnsupportedMediaType, ""},
		{"text content type", "text/plain", `{"aiXWins":3}`, http.StatusUnsupportedMediaType, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/api/save-stats", strings.NewReader(tt.body))
			if tt.contentType != "" {
				req.Header.Set("Content-Type", tt.contentType)
			}
			w := httptest.NewRecorder()

			SaveStats(w, req)

			if w.Code != tt.wantStatus {
				t.Fatalf("Expected %d, got %d. Body: %s", tt.wantStatus, w.Code, w.Body.String())
			}
			if ct := w.Header().Get("Content-Type"); ct != "application/json" {
				t.Errorf("expected JSON response, got %q", ct)
			}

			var resp map[string]json.RawMessage
			if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}

			if tt.wantStatus != http.StatusOK {
				if _, ok := resp["error"]; !ok {
					t.Errorf("expected error field, got %s", w.Body.String())
				}
				return
			}

			var msg string
			_ = json.Unmarshal(resp["message"], &msg)
			if msg != "Stats saved successfully" {
				t.Errorf("unexpected message %q", msg)
			}
			if string(resp["saved_stats"]) != tt.wantSaved {
				t.Errorf("saved_stats = %s, want %s", resp["saved_stats"], tt.wantSaved)
			}
		})
	}
}

func TestSaveStats_TooLarge(t *testing.T) {
	big := `{"pad":"` + strings.Repeat("x", maxStatsBody) + `"}`
	req := httptest.NewRequest("POST", "/api/save-stats", strings.NewReader(big))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	SaveStats(w, req)

	if w.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("Expected 413, got %d", w.Code)
	}
}

func TestSaveStats_IndependentEchoes(t *testing.T) {
	post := func(body string) map[string]any {
		req := httptest.NewRequest("POST", "/api/save-stats", bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		SaveStats(w, req)

		var resp map[string]any
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decode: %v", err)
		}
		return resp["saved_stats"].(map[string]any)
	}

	first := post(`{"aiXWins": 3}`)
	second := post(`{"ties": 7}`)

	if len(first) != 1 || first["aiXWins"] != float64(3) {
		t.Errorf("first echo wrong: %v", first)
	}
	if len(second) != 1 || second["ties"] != float64(7) {
		t.Errorf("second echo leaked state: %v", second)
	}

	// A later call with the first body is unaffected by the second.
	again := post(`{"aiXWins": 3}`)
	if len(again) != 1 || again["aiXWins"] != float64(3) {
		t.Errorf("repeat echo wrong: %v", again)
	}
}

func TestIsJSONContentType(t *testing.T) {
	tests := map[string]bool{
		"application/json":                true,
		"application/json; charset=utf-8": true,
		"APPLICATION/JSON":                true,
		"application/problem+json":        true,
		"text/json":                       false,
		"application/jsonp":               false,
		"":                                false,
		";;":                              false,
	}
	for in, want := range tests {
		if got := isJSONContentType(in); got != want {
			t.Errorf("isJSONContentType(%q) = %v, want %v", in, got, want)
		}
	}
}
