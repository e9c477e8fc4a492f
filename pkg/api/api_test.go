package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gofrs/uuid"
	log "github.com/sirupsen/logrus"

	"moderation/pkg/models"
	"moderation/pkg/moderate"
	"moderation/pkg/storage/memdb"
)

const testRequestID = "9b4f6c5d-1a32-4d8f-b5a6-23c9e1f7d2a1"

func TestMain(m *testing.M) {
	log.SetLevel(log.PanicLevel)
	exitCode := m.Run()
	os.Exit(exitCode)
}

func newTestAPI(t *testing.T) *API {
	t.Helper()

	engine := moderate.New(moderate.WithLevel(moderate.LevelStrict))
	api, err := New("moderation-test", engine, memdb.New(), nil)
	if err != nil {
		t.Fatalf("failed to create API: %v", err)
	}

	return api
}

func do(t *testing.T, api *API, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("failed to marshal request body: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("X-Request-Id", testRequestID)
	rr := httptest.NewRecorder()
	api.Router().ServeHTTP(rr, req)

	return rr
}

func TestAPI_checkComment(t *testing.T) {
	api := newTestAPI(t)

	targetPostID, err := uuid.NewV4()
	if err != nil {
		t.Fatalf("failed to generate uuid: %v", err)
	}
	comment := models.Comment{
		PostID: targetPostID,
		Author: "John Doe",
		Text:   "This is a test comment",
	}

	rr := do(t, api, http.MethodPost, "/check", comment)
	if rr.Code != http.StatusOK {
		t.Fatalf("want status code %v, got status code %v", http.StatusOK, rr.Code)
	}
}

func TestAPI_checkCommentFlagged(t *testing.T) {
	api := newTestAPI(t)

	targetPostID, err := uuid.NewV4()
	if err != nil {
		t.Fatalf("failed to generate uuid: %v", err)
	}
	comment := models.Comment{
		PostID: targetPostID,
		Author: "John Doe",
		Text:   "This is shit",
	}

	rr := do(t, api, http.MethodPost, "/check", comment)
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("want status code %v, got status code %v", http.StatusUnprocessableEntity, rr.Code)
	}

	var result moderate.Result
	if err := json.NewDecoder(rr.Body).Decode(&result); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if result.IsClean {
		t.Error("flagged comment reported clean")
	}
	if len(result.FoundWords) != 1 || result.FoundWords[0] != "shit" {
		t.Errorf("found words = %v; want [shit]", result.FoundWords)
	}
}

func TestAPI_moderateText(t *testing.T) {
	api := newTestAPI(t)

	rr := do(t, api, http.MethodPost, "/moderate", map[string]string{"text": "sh!t happens"})
	if rr.Code != http.StatusOK {
		t.Fatalf("want status code %v, got status code %v", http.StatusOK, rr.Code)
	}

	var result moderate.Result
	if err := json.NewDecoder(rr.Body).Decode(&result); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if result.IsClean {
		t.Error("obfuscated profanity reported clean")
	}
	if result.Sanitized != "**** happens" {
		t.Errorf("sanitized = %q; want %q", result.Sanitized, "**** happens")
	}
}

func TestAPI_moderateBadBody(t *testing.T) {
	api := newTestAPI(t)

	req := httptest.NewRequest(http.MethodPost, "/moderate", bytes.NewBufferString("{not json"))
	req.Header.Set("X-Request-Id", testRequestID)
	rr := httptest.NewRecorder()
	api.Router().ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("want status code %v, got status code %v", http.StatusBadRequest, rr.Code)
	}
}

func TestAPI_sanitizeText(t *testing.T) {
	api := newTestAPI(t)

	rr := do(t, api, http.MethodPost, "/sanitize", map[string]string{"text": "This is shit"})
	if rr.Code != http.StatusOK {
		t.Fatalf("want status code %v, got status code %v", http.StatusOK, rr.Code)
	}

	var resp struct {
		Sanitized string `json:"sanitized"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Sanitized != "This is ****" {
		t.Errorf("sanitized = %q; want %q", resp.Sanitized, "This is ****")
	}
}

func TestAPI_moderateBatch(t *testing.T) {
	api := newTestAPI(t)

	rr := do(t, api, http.MethodPost, "/moderate/batch", map[string][]string{
		"texts": {"all fine", "This is shit"},
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("want status code %v, got status code %v", http.StatusOK, rr.Code)
	}

	var results []moderate.Result
	if err := json.NewDecoder(rr.Body).Decode(&results); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("got %d results; want 2", len(results))
	}
	if !results[0].IsClean || results[1].IsClean {
		t.Errorf("clean flags = %v %v; want true false", results[0].IsClean, results[1].IsClean)
	}
}

func TestAPI_validateText(t *testing.T) {
	api := newTestAPI(t)

	rr := do(t, api, http.MethodPost, "/validate", map[string]any{
		"text":   "This is shit",
		"limits": map[string]any{"max_score": 50},
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("want status code %v, got status code %v", http.StatusOK, rr.Code)
	}

	var v moderate.Validation
	if err := json.NewDecoder(rr.Body).Decode(&v); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if v.IsValid {
		t.Error("expected score ceiling violation")
	}
	if len(v.Reasons) != 1 {
		t.Errorf("reasons = %v; want 1", v.Reasons)
	}
}

func TestAPI_wordManagement(t *testing.T) {
	api := newTestAPI(t)

	rr := do(t, api, http.MethodPost, "/words", map[string]any{
		"word":         "Blaggard",
		"severity":     "severe",
		"alternatives": []string{"rascal"},
	})
	if rr.Code != http.StatusCreated {
		t.Fatalf("want status code %v, got status code %v", http.StatusCreated, rr.Code)
	}

	rr = do(t, api, http.MethodPost, "/moderate", map[string]string{"text": "you blaggard"})
	var result moderate.Result
	if err := json.NewDecoder(rr.Body).Decode(&result); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if result.IsClean {
		t.Error("freshly added word not flagged")
	}

	rr = do(t, api, http.MethodGet, "/words?severity=severe", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("want status code %v, got status code %v", http.StatusOK, rr.Code)
	}
	var entries []moderate.Entry
	if err := json.NewDecoder(rr.Body).Decode(&entries); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	found := false
	for _, e := range entries {
		if e.Word == "blaggard" {
			found = true
		}
		if e.Severity != moderate.SeveritySevere {
			t.Errorf("severity filter leaked entry %+v", e)
		}
	}
	if !found {
		t.Error("added word missing from severity listing")
	}

	rr = do(t, api, http.MethodDelete, "/words/blaggard", nil)
	if rr.Code != http.StatusNoContent {
		t.Fatalf("want status code %v, got status code %v", http.StatusNoContent, rr.Code)
	}
	rr = do(t, api, http.MethodDelete, "/words/blaggard", nil)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("want status code %v, got status code %v", http.StatusNotFound, rr.Code)
	}
}

func TestAPI_wordValidation(t *testing.T) {
	api := newTestAPI(t)

	rr := do(t, api, http.MethodPost, "/words", map[string]any{"severity": "severe"})
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("missing word: want status code %v, got %v", http.StatusBadRequest, rr.Code)
	}

	rr = do(t, api, http.MethodPost, "/words", map[string]any{"word": "blaggard"})
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("missing severity: want status code %v, got %v", http.StatusBadRequest, rr.Code)
	}

	rr = do(t, api, http.MethodGet, "/words?severity=bogus", nil)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("bad severity filter: want status code %v, got %v", http.StatusBadRequest, rr.Code)
	}
}

func TestAPI_level(t *testing.T) {
	api := newTestAPI(t)

	rr := do(t, api, http.MethodGet, "/level", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("want status code %v, got status code %v", http.StatusOK, rr.Code)
	}
	var resp struct {
		Level moderate.Level `json:"level"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Level != moderate.LevelStrict {
		t.Errorf("level = %v; want %v", resp.Level, moderate.LevelStrict)
	}

	rr = do(t, api, http.MethodPut, "/level", map[string]string{"level": "relaxed"})
	if rr.Code != http.StatusOK {
		t.Fatalf("want status code %v, got status code %v", http.StatusOK, rr.Code)
	}

	// "shit" is moderate severity: passes at relaxed.
	rr = do(t, api, http.MethodPost, "/check", models.Comment{Text: "This is shit"})
	if rr.Code != http.StatusOK {
		t.Fatalf("want status code %v at relaxed level, got %v", http.StatusOK, rr.Code)
	}
}

func TestAPI_missingRequestIDGenerated(t *testing.T) {
	api := newTestAPI(t)

	body, _ := json.Marshal(map[string]string{"text": "fine"})
	req := httptest.NewRequest(http.MethodPost, "/moderate", bytes.NewReader(body))
	rr := httptest.NewRecorder()
	api.Router().ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("want status code %v without X-Request-Id, got %v", http.StatusOK, rr.Code)
	}
}
