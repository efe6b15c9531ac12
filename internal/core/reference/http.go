package reference

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/taibuivan/filmorate/internal/platform/request"
	"github.com/taibuivan/filmorate/internal/platform/respond"
)

// Handler implements the HTTP layer for genres and MPA ratings.
type Handler struct {
	service *Service
}

// NewHandler constructs a new reference [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterGenreRoutes mounts the genre endpoints on a router scoped to /genres.
func (handler *Handler) RegisterGenreRoutes(router chi.Router) {
	router.Get("/", handler.listGenres)
	router.Get("/{id}", handler.getGenre)
}

// RegisterMpaRoutes mounts the rating endpoints on a router scoped to /mpa.
func (handler *Handler) RegisterMpaRoutes(router chi.Router) {
	router.Get("/", handler.listMpa)
	router.Get("/{id}", handler.getMpa)
}

/*
GET /genres.

Response:
  - 200: []Genre: Ordered by id
*/
func (handler *Handler) listGenres(writer http.ResponseWriter, request *http.Request) {
	genres, err := handler.service.ListGenres(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, genres)
}

/*
GET /genres/{id}.

Response:
  - 200: Genre
  - 400: Malformed id
  - 404: Unknown genre
*/
func (handler *Handler) getGenre(writer http.ResponseWriter, request *http.Request) {
	genreID, err := requestutil.ID(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	genre, err := handler.service.GetGenre(request.Context(), genreID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, genre)
}

/*
GET /mpa.

Response:
  - 200: []Mpa: Ordered by id
*/
func (handler *Handler) listMpa(writer http.ResponseWriter, request *http.Request) {
	ratings, err := handler.service.ListMpa(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, ratings)
}

/*
GET /mpa/{id}.

Response:
  - 200: Mpa
  - 400: Malformed id
  - 404: Unknown rating
*/
func (handler *Handler) getMpa(writer http.ResponseWriter, request *http.Request) {
	ratingID, err := requestutil.ID(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	rating, err := handler.service.GetMpa(request.Context(), ratingID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, rating)
}
