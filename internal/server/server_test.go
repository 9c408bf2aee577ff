package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"dossier-pseudonymizer/internal/config"
	"dossier-pseudonymizer/internal/logger"
)

func testConfig() *config.Config {
	return &config.Config{
		ServerPort:       8080,
		BindAddress:      "127.0.0.1",
		LogLevel:         "error",
		MaxDocumentBytes: 1 << 20,
		RepairOCR:        true,
	}
}

func newTestServer(t *testing.T, cfg *config.Config) *Server {
	t.Helper()
	return New(cfg, logger.New("ENGINE", "error"), nil)
}

func postJSON(t *testing.T, h http.Handler, path, body, token string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestStatus_OK(t *testing.T) {
	srv := newTestServer(t, testConfig())
	req := httptest.NewRequest(http.MethodGet, "/status", nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var resp map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON response: %v", err)
	}
	if resp["status"] != "running" {
		t.Errorf("expected status=running, got %v", resp["status"])
	}
	if n, ok := resp["stoplistWords"].(float64); !ok || n <= 0 {
		t.Errorf("expected positive stoplistWords, got %v", resp["stoplistWords"])
	}
}

func TestStatus_OpenWithoutToken(t *testing.T) {
	cfg := testConfig()
	cfg.APIToken = "secret123"
	srv := newTestServer(t, cfg)

	req := httptest.NewRequest(http.MethodGet, "/status", nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected health check open without token, got %d", w.Code)
	}
}

func TestAuth_ValidToken(t *testing.T) {
	cfg := testConfig()
	cfg.APIToken = "secret123"
	srv := newTestServer(t, cfg)

	w := postJSON(t, srv.Handler(), "/pseudonymize", `{"text":"BSN 123456782"}`, "secret123")
	if w.Code != http.StatusOK {
		t.Errorf("expected 200 with valid token, got %d", w.Code)
	}
}

func TestAuth_InvalidToken(t *testing.T) {
	cfg := testConfig()
	cfg.APIToken = "secret123"
	srv := newTestServer(t, cfg)

	w := postJSON(t, srv.Handler(), "/pseudonymize", `{"text":"x"}`, "wrong")
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 with wrong token, got %d", w.Code)
	}
}

func TestAuth_MissingToken(t *testing.T) {
	cfg := testConfig()
	cfg.APIToken = "secret123"
	srv := newTestServer(t, cfg)

	w := postJSON(t, srv.Handler(), "/pseudonymize", `{"text":"x"}`, "")
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 without token, got %d", w.Code)
	}
}

func TestPseudonymize_ReplacesIdentifiers(t *testing.T) {
	srv := newTestServer(t, testConfig())

	body := `{"text":"Patiënt Jan van der Berg, BSN 123456782, mail jan@example.nl."}`
	w := postJSON(t, srv.Handler(), "/pseudonymize", body, "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		RequestID         string `json:"requestId"`
		PseudonymizedText string `json:"pseudonymizedText"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON response: %v", err)
	}
	if resp.RequestID == "" {
		t.Error("expected a request ID")
	}
	for _, want := range []string{"[PERSOON_1]", "[BSN]", "[EMAIL]"} {
		if !strings.Contains(resp.PseudonymizedText, want) {
			t.Errorf("expected %s in response, got %q", want, resp.PseudonymizedText)
		}
	}
	if strings.Contains(resp.PseudonymizedText, "123456782") {
		t.Errorf("BSN leaked: %q", resp.PseudonymizedText)
	}
}

func TestPseudonymize_ReferenceDate(t *testing.T) {
	srv := newTestServer(t, testConfig())

	body := `{"text":"Controle op 21-06-2022 toonde herstel.","referenceDate":"14-06-2022"}`
	w := postJSON(t, srv.Handler(), "/pseudonymize", body, "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "[+1 week]") {
		t.Errorf("expected relative date label, got %s", w.Body.String())
	}
}

func TestPseudonymize_BadReferenceDate(t *testing.T) {
	srv := newTestServer(t, testConfig())

	w := postJSON(t, srv.Handler(), "/pseudonymize", `{"text":"x","referenceDate":"gisteren"}`, "")
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for unparsable reference date, got %d", w.Code)
	}
}

func TestPseudonymize_RepairOCROverride(t *testing.T) {
	srv := newTestServer(t, testConfig())

	// OCR-mangled date repairs to 05-03-2025 and gets labeled.
	w := postJSON(t, srv.Handler(), "/pseudonymize",
		`{"text":"Gezien op 05n03n2025.","referenceDate":"05-03-2025"}`, "")
	if !strings.Contains(w.Body.String(), "[ONGEVAL]") {
		t.Errorf("expected repaired date labeled, got %s", w.Body.String())
	}

	// With repair disabled the mangled date stays untouched.
	w = postJSON(t, srv.Handler(), "/pseudonymize",
		`{"text":"Gezien op 05n03n2025.","repairOcr":false}`, "")
	if !strings.Contains(w.Body.String(), "05n03n2025") {
		t.Errorf("expected mangled date preserved with repair off, got %s", w.Body.String())
	}
}

func TestPseudonymize_EmptyBody(t *testing.T) {
	srv := newTestServer(t, testConfig())

	for _, body := range []string{"", "not json", `{"text":""}`} {
		w := postJSON(t, srv.Handler(), "/pseudonymize", body, "")
		if w.Code != http.StatusBadRequest {
			t.Errorf("body %q: expected 400, got %d", body, w.Code)
		}
	}
}

func TestPseudonymize_GetRejected(t *testing.T) {
	srv := newTestServer(t, testConfig())

	req := httptest.NewRequest(http.MethodGet, "/pseudonymize", nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected 405 for GET, got %d", w.Code)
	}
}

func TestPseudonymize_OversizeDocument(t *testing.T) {
	cfg := testConfig()
	cfg.MaxDocumentBytes = 64
	srv := newTestServer(t, cfg)

	big := `{"text":"` + strings.Repeat("a", 200) + `"}`
	w := postJSON(t, srv.Handler(), "/pseudonymize", big, "")
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for oversize document, got %d", w.Code)
	}
}

func TestReload_SwapsStoplist(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "stoplist.yaml")
	if err := os.WriteFile(path, []byte("words:\n  - Orthopedie\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg := testConfig()
	cfg.StoplistPath = path
	srv := newTestServer(t, cfg)

	if err := os.WriteFile(path, []byte("words:\n  - Orthopedie\n  - Cardiologie\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	w := postJSON(t, srv.Handler(), "/stoplist/reload", "", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), `"reloaded":2`) {
		t.Errorf("expected 2 reloaded words, got %s", w.Body.String())
	}
	if srv.words.Load() != 2 {
		t.Errorf("expected active stoplist of 2 words, got %d", srv.words.Load())
	}
}

func TestReload_NoPathConfigured(t *testing.T) {
	srv := newTestServer(t, testConfig())

	w := postJSON(t, srv.Handler(), "/stoplist/reload", "", "")
	if w.Code != http.StatusConflict {
		t.Errorf("expected 409 without stoplist path, got %d", w.Code)
	}
}

func TestMetricsEndpoint_Serves(t *testing.T) {
	srv := newTestServer(t, testConfig())

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200 from metrics endpoint, got %d", w.Code)
	}
}
