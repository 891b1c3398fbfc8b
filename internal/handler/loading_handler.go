package handler

import (
	"net/http"

	"course-portal/internal/loading"
)

type loadingState struct {
	InFlight int  `json:"in_flight"`
	Visible  bool `json:"visible"`
}

// LoadingHandler reports the API requests this process is still waiting on.
type LoadingHandler struct {
	counter *loading.Counter
}

func NewLoadingHandler(counter *loading.Counter) *LoadingHandler {
	return &LoadingHandler{counter: counter}
}

func (h *LoadingHandler) State(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, loadingState{InFlight: h.counter.Value(), Visible: h.counter.Visible()})
}
