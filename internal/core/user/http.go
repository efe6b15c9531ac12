// Copyright (c) 2026 Filmorate. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package user

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/taibuivan/filmorate/internal/platform/request"
	"github.com/taibuivan/filmorate/internal/platform/respond"
)

// # Handler Implementation

// Handler implements the HTTP layer for members and friend lists.
type Handler struct {
	service *Service
}

// NewHandler constructs a new user [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns a [chi.Router] configured with the /users endpoints.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// ## Members
	router.Get("/", handler.listUsers)
	router.Post("/", handler.createUser)
	router.Put("/", handler.updateUser)
	router.Get("/{id}", handler.getUser)

	// ## Friends
	router.Get("/{id}/friends", handler.listFriends)
	router.Get("/{id}/friends/common/{otherId}", handler.listCommonFriends)
	router.Put("/{id}/friends/{friendId}", handler.addFriend)
	router.Delete("/{id}/friends/{friendId}", handler.removeFriend)

	return router
}

// # Member Endpoints

/*
GET /users.

Response:
  - 200: []User: Ordered by id
*/
func (handler *Handler) listUsers(writer http.ResponseWriter, request *http.Request) {
	users, err := handler.service.FindAll(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, users)
}

/*
GET /users/{id}.

Response:
  - 200: User
  - 400: Malformed id
  - 404: Unknown user
*/
func (handler *Handler) getUser(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.ID(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.service.FindByID(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, user)
}

/*
POST /users.

Request (Body):
  - User: JSON object without id

Response:
  - 201: User: Created user with assigned id
  - 400: Invalid JSON or failed validation
*/
func (handler *Handler) createUser(writer http.ResponseWriter, request *http.Request) {
	var input User

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
PUT /users.

Request (Body):
  - User: JSON object including id

Response:
  - 200: User: Updated user
  - 400: Invalid JSON, missing id or failed validation
  - 404: Unknown user
*/
func (handler *Handler) updateUser(writer http.ResponseWriter, request *http.Request) {
	var input User

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

// # Friend Endpoints

// pairIDs extracts two numeric path parameters.
func pairIDs(request *http.Request, first, second string) (int64, int64, error) {
	firstID, err := requestutil.ID(request, first)
	if err != nil {
		return 0, 0, err
	}
	secondID, err := requestutil.ID(request, second)
	if err != nil {
		return 0, 0, err
	}
	return firstID, secondID, nil
}

/*
PUT /users/{id}/friends/{friendId}.

Description: Adds friendId to id's friend list only.

Response:
  - 204: No Content
  - 400: Malformed ids or self-friendship
  - 404: Either user unknown
*/
func (handler *Handler) addFriend(writer http.ResponseWriter, request *http.Request) {
	userID, friendID, err := pairIDs(request, "id", "friendId")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.AddFriend(request.Context(), userID, friendID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

/*
DELETE /users/{id}/friends/{friendId}.

Response:
  - 204: No Content (also when the edge did not exist)
  - 404: Either user unknown
*/
func (handler *Handler) removeFriend(writer http.ResponseWriter, request *http.Request) {
	userID, friendID, err := pairIDs(request, "id", "friendId")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.RemoveFriend(request.Context(), userID, friendID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

/*
GET /users/{id}/friends.

Response:
  - 200: []User: Outgoing friends ordered by id
  - 404: Unknown user
*/
func (handler *Handler) listFriends(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.ID(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	friends, err := handler.service.GetFriends(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, friends)
}

/*
GET /users/{id}/friends/common/{otherId}.

Response:
  - 200: []User: Shared friends ordered by id, possibly empty
  - 404: Either user unknown
*/
func (handler *Handler) listCommonFriends(writer http.ResponseWriter, request *http.Request) {
	userID, otherID, err := pairIDs(request, "id", "otherId")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	common, err := handler.service.GetCommonFriends(request.Context(), userID, otherID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, common)
}
