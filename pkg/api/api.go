// Package api exposes the moderation engine over HTTP: comment
// screening compatible with the comments service, text analysis
// endpoints, and word-library management with optional write-through
// persistence.
package api

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/mux"
	"github.com/segmentio/kafka-go"
	log "github.com/sirupsen/logrus"

	"moderation/pkg/models"
	"moderation/pkg/moderate"
	"moderation/pkg/storage"
)

type API struct {
	ServiceName string

	// engine is not internally synchronized; mu serializes all access,
	// including scans, because matcher compilation populates a cache.
	mu     sync.Mutex
	engine *moderate.Engine
	store  storage.Store

	r  *mux.Router
	kw *kafka.Writer
}

// New builds the API around an engine. store may be nil (no
// persistence); kafkaWriter may be nil (no access-log shipping).
func New(name string, engine *moderate.Engine, store storage.Store, kafkaWriter *kafka.Writer) (*API, error) {
	api := API{
		ServiceName: name,
		engine:      engine,
		store:       store,
		r:           mux.NewRouter(),
		kw:          kafkaWriter,
	}
	api.endpoints()

	return &api, nil
}

func (api *API) Router() *mux.Router {
	return api.r
}

func (api *API) endpoints() {
	api.r.Use(api.requestIDMiddleware)
	api.r.Use(api.headerMiddleware)

	api.r.HandleFunc("/check", api.checkComment).Methods(http.MethodPost)

	api.r.HandleFunc("/moderate", api.moderateText).Methods(http.MethodPost)
	api.r.HandleFunc("/moderate/batch", api.moderateBatch).Methods(http.MethodPost)
	api.r.HandleFunc("/sanitize", api.sanitizeText).Methods(http.MethodPost)
	api.r.HandleFunc("/report", api.reportText).Methods(http.MethodPost)
	api.r.HandleFunc("/validate", api.validateText).Methods(http.MethodPost)

	api.r.HandleFunc("/words", api.listWords).Methods(http.MethodGet)
	api.r.HandleFunc("/words", api.addWord).Methods(http.MethodPost)
	api.r.HandleFunc("/words/{word}", api.deleteWord).Methods(http.MethodDelete)

	api.r.HandleFunc("/level", api.getLevel).Methods(http.MethodGet)
	api.r.HandleFunc("/level", api.setLevel).Methods(http.MethodPut)

	if api.kw != nil {
		api.r.Use(api.loggingMiddleware(api.kw))
	}
}

// checkComment screens a comment before publication: 200 when clean at
// the current level, 422 with the moderation result when flagged.
func (api *API) checkComment(w http.ResponseWriter, r *http.Request) {
	sID := shorten(GetRequestID(r.Context()))

	var comment models.Comment
	err := json.NewDecoder(r.Body).Decode(&comment)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		log.Errorf("[checkComment][%s] failed to decode request body: %v", sID, err)
		return
	}
	defer r.Body.Close()

	api.mu.Lock()
	result := api.engine.Moderate(comment.Text)
	api.mu.Unlock()

	if !result.IsClean {
		log.Debugf("[checkComment][%s] comment %v flagged: %v", sID, comment.ID, result.FoundWords)
		w.WriteHeader(http.StatusUnprocessableEntity)
	}
	api.writeJSON(w, sID, result)
}

func (api *API) moderateText(w http.ResponseWriter, r *http.Request) {
	sID := shorten(GetRequestID(r.Context()))

	req, ok := decodeText(w, r, sID)
	if !ok {
		return
	}

	api.mu.Lock()
	result := api.engine.Moderate(req.Text)
	api.mu.Unlock()

	api.writeJSON(w, sID, result)
}

func (api *API) moderateBatch(w http.ResponseWriter, r *http.Request) {
	sID := shorten(GetRequestID(r.Context()))

	var req batchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		log.Errorf("[moderateBatch][%s] failed to decode request body: %v", sID, err)
		return
	}
	defer r.Body.Close()

	api.mu.Lock()
	results := api.engine.ModerateBatch(req.Texts)
	api.mu.Unlock()

	api.writeJSON(w, sID, results)
}

func (api *API) sanitizeText(w http.ResponseWriter, r *http.Request) {
	sID := shorten(GetRequestID(r.Context()))

	req, ok := decodeText(w, r, sID)
	if !ok {
		return
	}

	api.mu.Lock()
	sanitized := api.engine.Sanitize(req.Text)
	api.mu.Unlock()

	api.writeJSON(w, sID, sanitizeResponse{Sanitized: sanitized})
}

func (api *API) reportText(w http.ResponseWriter, r *http.Request) {
	sID := shorten(GetRequestID(r.Context()))

	req, ok := decodeText(w, r, sID)
	if !ok {
		return
	}

	api.mu.Lock()
	report := api.engine.DetailedReport(req.Text)
	api.mu.Unlock()

	api.writeJSON(w, sID, report)
}

func (api *API) validateText(w http.ResponseWriter, r *http.Request) {
	sID := shorten(GetRequestID(r.Context()))

	var req validateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		log.Errorf("[validateText][%s] failed to decode request body: %v", sID, err)
		return
	}
	defer r.Body.Close()

	api.mu.Lock()
	validation := api.engine.Validate(req.Text, req.Limits)
	api.mu.Unlock()

	api.writeJSON(w, sID, validation)
}

// listWords returns the library, filtered to one tier when the
// severity query parameter is set.
func (api *API) listWords(w http.ResponseWriter, r *http.Request) {
	sID := shorten(GetRequestID(r.Context()))

	sevParam := r.URL.Query().Get("severity")

	api.mu.Lock()
	defer api.mu.Unlock()

	if sevParam == "" {
		api.writeJSON(w, sID, api.engine.ExportEntries())
		return
	}

	sev, err := moderate.ParseSeverity(sevParam)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		log.Debugf("[listWords][%s] bad severity parameter %q", sID, sevParam)
		return
	}
	api.writeJSON(w, sID, api.engine.WordsBySeverity(sev))
}

func (api *API) addWord(w http.ResponseWriter, r *http.Request) {
	sID := shorten(GetRequestID(r.Context()))

	var entry moderate.Entry
	if err := json.NewDecoder(r.Body).Decode(&entry); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		log.Errorf("[addWord][%s] failed to decode request body: %v", sID, err)
		return
	}
	defer r.Body.Close()

	if entry.Word == "" {
		http.Error(w, "word is required", http.StatusBadRequest)
		return
	}
	if entry.Severity == 0 {
		http.Error(w, "severity is required", http.StatusBadRequest)
		return
	}

	api.mu.Lock()
	api.engine.AddWord(entry.Word, entry.Severity, entry.Alternatives, entry.Variants)
	stored, _ := api.engine.WordInfo(entry.Word)
	api.mu.Unlock()

	if api.store != nil {
		if err := api.store.Upsert(r.Context(), stored); err != nil {
			log.Errorf("[addWord][%s] failed to persist word %q: %v", sID, stored.Word, err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
	}

	w.WriteHeader(http.StatusCreated)
	api.writeJSON(w, sID, stored)
}

func (api *API) deleteWord(w http.ResponseWriter, r *http.Request) {
	sID := shorten(GetRequestID(r.Context()))
	word := mux.Vars(r)["word"]

	api.mu.Lock()
	removed := api.engine.RemoveWord(word)
	api.mu.Unlock()

	if api.store != nil {
		if _, err := api.store.Delete(r.Context(), word); err != nil {
			log.Errorf("[deleteWord][%s] failed to delete word %q from store: %v", sID, word, err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
	}

	if !removed {
		http.Error(w, "word not found", http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (api *API) getLevel(w http.ResponseWriter, r *http.Request) {
	sID := shorten(GetRequestID(r.Context()))

	api.mu.Lock()
	level := api.engine.Level()
	api.mu.Unlock()

	api.writeJSON(w, sID, levelResponse{Level: level})
}

func (api *API) setLevel(w http.ResponseWriter, r *http.Request) {
	sID := shorten(GetRequestID(r.Context()))

	var req levelResponse
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		log.Errorf("[setLevel][%s] failed to decode request body: %v", sID, err)
		return
	}
	defer r.Body.Close()

	api.mu.Lock()
	api.engine.SetLevel(req.Level)
	api.mu.Unlock()

	log.Infof("[setLevel][%s] moderation level set to %v", sID, req.Level)
	api.writeJSON(w, sID, req)
}

func decodeText(w http.ResponseWriter, r *http.Request, sID string) (textRequest, bool) {
	var req textRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		log.Errorf("[decodeText][%s] failed to decode request body: %v", sID, err)
		return req, false
	}
	r.Body.Close()

	return req, true
}

func (api *API) writeJSON(w http.ResponseWriter, sID string, v any) {
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Errorf("[writeJSON][%s] failed to encode response: %v", sID, err)
	}
}

// shorten truncates a string to 6 characters if it is longer than 6, appends '...' at the end,
// otherwise it returns the string unchanged.
func shorten(s string) string {
	if len(s) > 6 {
		return s[:6] + "..."
	}
	return s
}
