// Copyright (c) 2026 Filmorate. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package film

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/filmorate/internal/platform/constants"
	requestutil "github.com/taibuivan/filmorate/internal/platform/request"
	"github.com/taibuivan/filmorate/internal/platform/respond"
)

// # Handler Implementation

// Handler implements the HTTP layer for the film catalogue.
// It translates web requests into domain service calls.
type Handler struct {
	service *Service
}

// NewHandler constructs a new film [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns a [chi.Router] configured with the /films endpoints.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// ## Catalogue
	router.Get("/", handler.listFilms)
	router.Post("/", handler.createFilm)
	router.Put("/", handler.updateFilm)
	router.Get("/popular", handler.listPopular)
	router.Get("/{id}", handler.getFilm)

	// ## Likes
	router.Put("/{id}/like/{userId}", handler.addLike)
	router.Delete("/{id}/like/{userId}", handler.removeLike)

	return router
}

// # Catalogue Endpoints

/*
GET /films.

Response:
  - 200: []Film: Ordered by id
*/
func (handler *Handler) listFilms(writer http.ResponseWriter, request *http.Request) {
	films, err := handler.service.FindAll(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, films)
}

/*
GET /films/popular.

Request:
  - count: int (optional; missing, malformed or non-positive means 10)

Response:
  - 200: []Film: By likes descending, id ascending
*/
func (handler *Handler) listPopular(writer http.ResponseWriter, request *http.Request) {
	count := requestutil.IntQuery(request, "count", constants.DefaultPopularCount)

	films, err := handler.service.PopularFilms(request.Context(), count)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, films)
}

/*
GET /films/{id}.

Response:
  - 200: Film
  - 400: Malformed id
  - 404: Unknown film
*/
func (handler *Handler) getFilm(writer http.ResponseWriter, request *http.Request) {
	filmID, err := requestutil.ID(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	film, err := handler.service.FindByID(request.Context(), filmID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, film)
}

/*
POST /films.

Request (Body):
  - Film: JSON object without id; mpa and genres by id

Response:
  - 201: Film: Created film with assigned id
  - 400: Invalid JSON or failed validation
  - 404: Unknown rating or genre
*/
func (handler *Handler) createFilm(writer http.ResponseWriter, request *http.Request) {
	var input Film

	// Decode request body
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	created, err := handler.service.Create(request.Context(), &input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, created)
}

/*
PUT /films.

Request (Body):
  - Film: JSON object including id

Response:
  - 200: Film: Updated film
  - 400: Invalid JSON, missing id or failed validation
  - 404: Unknown film, rating or genre
*/
func (handler *Handler) updateFilm(writer http.ResponseWriter, request *http.Request) {
	var input Film

	// Decode request body
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	updated, err := handler.service.Update(request.Context(), &input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, updated)
}

// # Like Endpoints

// likeIDs extracts the film and user path parameters.
func likeIDs(request *http.Request) (int64, int64, error) {
	filmID, err := requestutil.ID(request, "id")
	if err != nil {
		return 0, 0, err
	}
	userID, err := requestutil.ID(request, "userId")
	if err != nil {
		return 0, 0, err
	}
	return filmID, userID, nil
}

/*
PUT /films/{id}/like/{userId}.

Response:
  - 204: No Content (also when the like already existed)
  - 404: Unknown film or user
*/
func (handler *Handler) addLike(writer http.ResponseWriter, request *http.Request) {
	filmID, userID, err := likeIDs(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.AddLike(request.Context(), filmID, userID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

/*
DELETE /films/{id}/like/{userId}.

Response:
  - 204: No Content (also when no like existed)
  - 404: Unknown film or user
*/
func (handler *Handler) removeLike(writer http.ResponseWriter, request *http.Request) {
	filmID, userID, err := likeIDs(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.RemoveLike(request.Context(), filmID, userID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
