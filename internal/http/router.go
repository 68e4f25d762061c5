package httpapi

import (
	"net/http"

	"go.uber.org/zap"
)

// Router wraps the standard library http.ServeMux (no third-party routing
// dependency).
type Router struct {
	mux    *http.ServeMux
	logger *zap.Logger
}

func NewRouter(logger *zap.Logger) *Router {
	return &Router{
		mux:    http.NewServeMux(),
		logger: logger,
	}
}

func (r *Router) Handle(pattern string, h http.Handler) {
	r.mux.Handle(pattern, h)
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

// RegisterAPIRoutes wires the subject registry and detection pipeline
// surface. SubjectHandler dispatches on its own sub-paths (detections,
// trend, label, export).
func (r *Router) RegisterAPIRoutes(subjects *SubjectHandler, assistant *AssistantHandler) {
	r.Handle("/api/v1/subjects", subjects)
	r.Handle("/api/v1/subjects/", subjects)

	r.Handle("/api/v1/assistant/chat", assistant)

	r.mux.HandleFunc("/healthz", func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
}
