package handler

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger/v2"
)

func (h *Handler) Routes() http.Handler {
	router := httprouter.New()

	router.NotFound = http.HandlerFunc(h.notFoundResponse)
	router.MethodNotAllowed = http.HandlerFunc(h.methodNotAllowed)

	handle := func(method, path string, fn http.HandlerFunc) {
		router.Handler(method, path, h.metrics(path, fn))
	}

	handle(http.MethodGet, "/books", h.requireAuthenticatedUser(h.listReviewsHandler))
	handle(http.MethodPost, "/books", h.requireAuthenticatedUser(h.createReviewHandler))
	handle(http.MethodGet, "/books/user", h.requireAuthenticatedUser(h.listUserReviewsHandler))
	handle(http.MethodGet, "/books/check", h.checkTitleHandler)
	handle(http.MethodGet, "/books/suggestions", h.requireAuthenticatedUser(h.suggestTitlesHandler))
	handle(http.MethodPut, "/books/:id", h.requireAuthenticatedUser(h.updateReviewHandler))
	handle(http.MethodDelete, "/books/:id", h.requireAuthenticatedUser(h.deleteReviewHandler))

	handle(http.MethodGet, "/healthcheck", h.healthcheckHandler)

	if h.config.Metrics.Enabled {
		router.HandlerFunc(http.MethodGet, "/metrics", h.basicAuth(promhttp.Handler().ServeHTTP))
	}

	// Swagger routes
	router.HandlerFunc(http.MethodGet, "/spec", h.handleSwaggerFile())
	router.HandlerFunc(http.MethodGet, "/docs/*any", httpSwagger.Handler(httpSwagger.URL("/spec")))

	return h.recoverPanic(h.requestID(h.enableCORS(h.rateLimit(h.authenticate(router)))))
}
