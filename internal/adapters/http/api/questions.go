package api

import (
	"net/http"
)

// QuestionsHandler serves the form catalog.
type QuestionsHandler struct {
	deps Dependencies
}

// NewQuestionsHandler creates a new questions handler.
func NewQuestionsHandler(deps Dependencies) *QuestionsHandler {
	return &QuestionsHandler{deps: deps}
}

// HandleQuestions handles GET /questions requests.
func (h *QuestionsHandler) HandleQuestions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Cache-Control", "public, max-age=300")
	writeJSON(w, http.StatusOK, h.deps.Form())
}
