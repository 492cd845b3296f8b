package handler

import "net/http"

// NewRouter registers the documentation routes. protect wraps the routes
// that mutate state.
func NewRouter(project *ProjectHandler, health *HealthHandler, protect func(http.Handler) http.Handler) *http.ServeMux {
	mux := http.NewServeMux()

	mux.Handle("POST /addProject", protect(http.HandlerFunc(project.AddProject)))
	mux.HandleFunc("GET /listProjects", project.ListProjects)
	mux.Handle("DELETE /deleteProject", protect(http.HandlerFunc(project.DeleteProject)))
	mux.HandleFunc("GET /health", health.Health)

	return mux
}
