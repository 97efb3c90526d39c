package handler

import (
	"net/http"

	"github.com/emzola/bookworm/docs"
)

// handleSwaggerFile serves the registered OpenAPI document for the Swagger UI.
func (h *Handler) handleSwaggerFile() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(docs.SwaggerInfo.ReadDoc()))
	}
}
