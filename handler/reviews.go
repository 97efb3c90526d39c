package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/emzola/bookworm/data"
	"github.com/emzola/bookworm/data/dto"
	"github.com/emzola/bookworm/service"
)

// ListReviews godoc
// @Summary List book reviews
// @Description Returns one page of reviews, newest first, optionally narrowed by a search term and tags.
// @Tags books
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number (default 1)"
// @Param limit query int false "Page size (default 5, max 100)"
// @Param search query string false "Case-insensitive substring of title or caption"
// @Param tags query string false "Comma separated tags; matches any"
// @Success 200 {object} dto.ListReviewsResponse
// @Failure 401 {object} dto.MessageResponse
// @Failure 500 {object} dto.MessageResponse
// @Router /books [get]
func (h *Handler) listReviewsHandler(w http.ResponseWriter, r *http.Request) {
	query := data.ParseReviewQuery(r.URL.Query())
	reviews, metadata, err := h.service.ListReviews(r.Context(), query)
	if err != nil {
		h.serverErrorResponse(w, r, err)
		return
	}
	err = h.encodeJSON(w, http.StatusOK, dto.ListReviewsResponse{Books: reviews, Metadata: metadata}, nil)
	if err != nil {
		h.serverErrorResponse(w, r, err)
	}
}

// CreateReview godoc
// @Summary Create a book review
// @Description Creates a review authored by the caller. The rating may be sent as a number or a numeric string and the image as a base64 data URI.
// @Tags books
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.CreateReviewRequestBody true "JSON payload required to create a review"
// @Success 201 {object} data.Review
// @Failure 400 {object} dto.MessageResponse
// @Failure 401 {object} dto.MessageResponse
// @Failure 409 {object} dto.MessageResponse
// @Failure 500 {object} dto.MessageResponse
// @Router /books [post]
func (h *Handler) createReviewHandler(w http.ResponseWriter, r *http.Request) {
	var requestBody dto.CreateReviewRequestBody
	err := h.decodeJSON(w, r, &requestBody)
	if err != nil {
		h.badRequestResponse(w, r, err)
		return
	}
	user := h.contextGetUser(r)
	review, err := h.service.CreateReview(r.Context(), user, requestBody)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrFailedValidation):
			h.failedValidationResponse(w, r, err)
		case errors.Is(err, service.ErrDuplicateRecord):
			h.recordAlreadyExistsResponse(w, r)
		default:
			h.serverErrorResponse(w, r, err)
		}
		return
	}
	headers := make(http.Header)
	headers.Set("Location", fmt.Sprintf("/books/%d", review.ID))
	err = h.encodeJSON(w, http.StatusCreated, review, headers)
	if err != nil {
		h.serverErrorResponse(w, r, err)
	}
}

// ListUserReviews godoc
// @Summary List the caller's reviews
// @Description Returns every review written by the caller, newest first.
// @Tags books
// @Produce json
// @Security BearerAuth
// @Success 200 {array} data.Review
// @Failure 401 {object} dto.MessageResponse
// @Failure 500 {object} dto.MessageResponse
// @Router /books/user [get]
func (h *Handler) listUserReviewsHandler(w http.ResponseWriter, r *http.Request) {
	user := h.contextGetUser(r)
	reviews, err := h.service.ListUserReviews(r.Context(), user.ID)
	if err != nil {
		h.serverErrorResponse(w, r, err)
		return
	}
	err = h.encodeJSON(w, http.StatusOK, reviews, nil)
	if err != nil {
		h.serverErrorResponse(w, r, err)
	}
}

// UpdateReview godoc
// @Summary Edit a book review
// @Description Changes the caption, rating or tags of a review. Only the author may edit it.
// @Tags books
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID of review to update"
// @Param body body dto.UpdateReviewRequestBody true "JSON payload with at least one field"
// @Success 200 {object} data.Review
// @Failure 400 {object} dto.MessageResponse
// @Failure 401 {object} dto.MessageResponse
// @Failure 403 {object} dto.MessageResponse
// @Failure 404 {object} dto.MessageResponse
// @Failure 500 {object} dto.MessageResponse
// @Router /books/{id} [put]
func (h *Handler) updateReviewHandler(w http.ResponseWriter, r *http.Request) {
	reviewID, err := h.readIDParam(r, "id")
	if err != nil {
		h.badRequestResponse(w, r, errors.New("invalid review id"))
		return
	}
	var requestBody dto.UpdateReviewRequestBody
	err = h.decodeJSON(w, r, &requestBody)
	if err != nil {
		h.badRequestResponse(w, r, err)
		return
	}
	user := h.contextGetUser(r)
	review, err := h.service.UpdateReview(r.Context(), user, reviewID, requestBody)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrFailedValidation):
			h.failedValidationResponse(w, r, err)
		case errors.Is(err, service.ErrRecordNotFound):
			h.reviewNotFoundResponse(w, r)
		case errors.Is(err, service.ErrNotPermitted):
			h.notPermittedResponse(w, r)
		default:
			h.serverErrorResponse(w, r, err)
		}
		return
	}
	err = h.encodeJSON(w, http.StatusOK, review, nil)
	if err != nil {
		h.serverErrorResponse(w, r, err)
	}
}

// DeleteReview godoc
// @Summary Delete a book review
// @Description Deletes a review and its cover image. Only the author may delete it.
// @Tags books
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID of review to delete"
// @Success 200 {object} dto.MessageResponse
// @Failure 400 {object} dto.MessageResponse
// @Failure 401 {object} dto.MessageResponse
// @Failure 404 {object} dto.MessageResponse
// @Failure 500 {object} dto.MessageResponse
// @Router /books/{id} [delete]
func (h *Handler) deleteReviewHandler(w http.ResponseWriter, r *http.Request) {
	reviewID, err := h.readIDParam(r, "id")
	if err != nil {
		h.badRequestResponse(w, r, errors.New("invalid review id"))
		return
	}
	user := h.contextGetUser(r)
	err = h.service.DeleteReview(r.Context(), user, reviewID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRecordNotFound):
			h.reviewNotFoundResponse(w, r)
		case errors.Is(err, service.ErrNotPermitted):
			h.notOwnerResponse(w, r)
		default:
			h.serverErrorResponse(w, r, err)
		}
		return
	}
	err = h.encodeJSON(w, http.StatusOK, dto.MessageResponse{Message: "book deleted successfully"}, nil)
	if err != nil {
		h.serverErrorResponse(w, r, err)
	}
}

// CheckTitle godoc
// @Summary Check whether a title was reviewed
// @Description Reports whether any user has reviewed the title, ignoring case. Does not require authentication.
// @Tags books
// @Produce json
// @Param title query string true "Exact title to look up"
// @Success 200 {object} dto.TitleExistsResponse
// @Failure 400 {object} dto.MessageResponse
// @Failure 500 {object} dto.MessageResponse
// @Router /books/check [get]
func (h *Handler) checkTitleHandler(w http.ResponseWriter, r *http.Request) {
	title := h.readString(r.URL.Query(), "title", "")
	exists, err := h.service.ReviewTitleExists(r.Context(), title)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrFailedValidation):
			h.failedValidationResponse(w, r, err)
		default:
			h.serverErrorResponse(w, r, err)
		}
		return
	}
	err = h.encodeJSON(w, http.StatusOK, dto.TitleExistsResponse{Exists: exists}, nil)
	if err != nil {
		h.serverErrorResponse(w, r, err)
	}
}

// SuggestTitles godoc
// @Summary Suggest review titles
// @Description Returns distinct titles containing q, ignoring case. An empty q returns an empty list.
// @Tags books
// @Produce json
// @Security BearerAuth
// @Param q query string false "Title fragment"
// @Param limit query int false "Maximum suggestions (default 5, max 20)"
// @Success 200 {array} string
// @Failure 401 {object} dto.MessageResponse
// @Failure 500 {object} dto.MessageResponse
// @Router /books/suggestions [get]
func (h *Handler) suggestTitlesHandler(w http.ResponseWriter, r *http.Request) {
	qs := r.URL.Query()
	search := h.readString(qs, "q", "")
	limit := h.readInt(qs, "limit", service.DefaultSuggestionLimit)
	titles, err := h.service.SuggestTitles(r.Context(), search, limit)
	if err != nil {
		h.serverErrorResponse(w, r, err)
		return
	}
	err = h.encodeJSON(w, http.StatusOK, titles, nil)
	if err != nil {
		h.serverErrorResponse(w, r, err)
	}
}
