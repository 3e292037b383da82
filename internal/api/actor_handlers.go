package api

import (
	"fmt"
	"log/slog"
	"net/http"

	"moviedb-service/internal/domain"
	"moviedb-service/internal/store"

	"github.com/go-playground/validator/v10"
)

// ActorHandler holds the dependencies of the /actors endpoints.
type ActorHandler struct {
	responder
	store store.ActorStore
}

func NewActorHandler(s store.ActorStore, l *slog.Logger, v *validator.Validate) *ActorHandler {
	return &ActorHandler{
		responder: responder{logger: l, validator: v},
		store:     s,
	}
}

func (h *ActorHandler) GetActors(w http.ResponseWriter, r *http.Request) {
	actors, err := h.store.List(r.Context())
	if err != nil {
		h.respondStoreError(w, r, err, "retrieve actors")
		return
	}
	h.respondJSON(w, r, http.StatusOK, actors)
}

func (h *ActorHandler) GetActorByID(w http.ResponseWriter, r *http.Request) {
	id, err := readIDParam(r, "id")
	if err != nil {
		h.respondError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	actor, err := h.store.GetByID(r.Context(), id)
	if err != nil {
		h.respondStoreError(w, r, err, "find actor")
		return
	}
	h.respondJSON(w, r, http.StatusOK, actor)
}

func (h *ActorHandler) CreateActor(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req domain.ActorRequest
	if !h.decodeAndValidate(w, r, &req, &req) {
		return
	}

	id, err := h.store.Create(ctx, req.ToActor(0))
	if err != nil {
		h.respondStoreError(w, r, err, "create actor")
		return
	}
	h.logger.InfoContext(ctx, "Actor created", slog.Int64("actorID", id))
	w.Header().Set("Location", fmt.Sprintf("/actors/%d", id))
	h.respondJSON(w, r, http.StatusCreated, map[string]any{
		"message": "Actor has been added successfully!",
		"id":      id,
	})
}

func (h *ActorHandler) UpdateActor(w http.ResponseWriter, r *http.Request) {
	id, err := readIDParam(r, "id")
	if err != nil {
		h.respondError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	var req domain.ActorRequest
	if !h.decodeAndValidate(w, r, &req, &req) {
		return
	}

	actor := req.ToActor(id)
	if err := h.store.Update(r.Context(), actor); err != nil {
		h.respondStoreError(w, r, err, "update actor")
		return
	}
	h.respondJSON(w, r, http.StatusOK, map[string]any{
		"message": fmt.Sprintf("Actor %d updated successfully!", id),
		"actor":   actor,
	})
}

func (h *ActorHandler) DeleteActor(w http.ResponseWriter, r *http.Request) {
	id, err := readIDParam(r, "id")
	if err != nil {
		h.respondError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.store.Delete(r.Context(), id); err != nil {
		h.respondStoreError(w, r, err, "delete actor")
		return
	}
	h.respondJSON(w, r, http.StatusOK, map[string]string{
		"message": fmt.Sprintf("Actor with id %d deleted successfully!", id),
	})
}

func (h *ActorHandler) DeleteActors(w http.ResponseWriter, r *http.Request) {
	var req domain.BatchDeleteRequest
	if !h.decodeAndValidate(w, r, &req.IDs, &req) {
		return
	}

	deleted, err := h.store.DeleteBatch(r.Context(), req.IDs)
	if err != nil {
		h.respondStoreError(w, r, err, "delete actors")
		return
	}
	h.respondJSON(w, r, http.StatusOK, batchResult("actors", req.IDs, deleted))
}

// GetActorMovies lists the movies an actor is linked to.
func (h *ActorHandler) GetActorMovies(w http.ResponseWriter, r *http.Request) {
	id, err := readIDParam(r, "id")
	if err != nil {
		h.respondError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	movies, err := h.store.ListMovies(r.Context(), id)
	if err != nil {
		h.respondStoreError(w, r, err, "retrieve actor movies")
		return
	}
	h.respondJSON(w, r, http.StatusOK, movies)
}
