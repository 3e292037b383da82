// moviedb-service/internal/api/movie_handlers.go
package api

import (
	"fmt"
	"log/slog"
	"net/http"

	"moviedb-service/internal/domain"
	"moviedb-service/internal/store"

	"github.com/go-playground/validator/v10"
)

// MovieHandler holds the dependencies of the /movies endpoints.
type MovieHandler struct {
	responder
	store store.MovieStore
}

// NewMovieHandler creates a new MovieHandler.
func NewMovieHandler(s store.MovieStore, l *slog.Logger, v *validator.Validate) *MovieHandler {
	return &MovieHandler{
		responder: responder{logger: l, validator: v},
		store:     s,
	}
}

// GetMovies returns every movie.
func (h *MovieHandler) GetMovies(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	movies, err := h.store.List(ctx)
	if err != nil {
		h.respondStoreError(w, r, err, "retrieve movies")
		return
	}
	h.logger.InfoContext(ctx, "Movies list retrieved successfully", slog.Int("count", len(movies)))
	h.respondJSON(w, r, http.StatusOK, movies)
}

// GetMovieByID returns a single movie or 404.
func (h *MovieHandler) GetMovieByID(w http.ResponseWriter, r *http.Request) {
	id, err := readIDParam(r, "id")
	if err != nil {
		h.respondError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	movie, err := h.store.GetByID(r.Context(), id)
	if err != nil {
		h.respondStoreError(w, r, err, "find movie")
		return
	}
	h.respondJSON(w, r, http.StatusOK, movie)
}

// CreateMovie adds a movie and returns its id.
func (h *MovieHandler) CreateMovie(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	h.logger.InfoContext(ctx, "HTTP CreateMovie request received", slog.String("path", r.URL.Path))

	var req domain.MovieRequest
	if !h.decodeAndValidate(w, r, &req, &req) {
		return
	}
	h.logger.DebugContext(ctx, "Decoded request payload for movie", slog.Any("request_data", req))

	id, err := h.store.Create(ctx, req.ToMovie(0))
	if err != nil {
		h.respondStoreError(w, r, err, "create movie")
		return
	}
	w.Header().Set("Location", fmt.Sprintf("/movies/%d", id))
	h.respondJSON(w, r, http.StatusCreated, map[string]any{
		"message": "Movie has been added successfully!",
		"id":      id,
	})
}

// UpdateMovie replaces every mutable field of a movie.
func (h *MovieHandler) UpdateMovie(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := readIDParam(r, "id")
	if err != nil {
		h.respondError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	var req domain.MovieRequest
	if !h.decodeAndValidate(w, r, &req, &req) {
		return
	}

	movie := req.ToMovie(id)
	if err := h.store.Update(ctx, movie); err != nil {
		h.respondStoreError(w, r, err, "update movie")
		return
	}
	h.logger.InfoContext(ctx, "Movie updated", slog.Int64("movieID", id))
	h.respondJSON(w, r, http.StatusOK, map[string]any{
		"message": fmt.Sprintf("Movie %d updated successfully!", id),
		"movie":   movie,
	})
}

// DeleteMovie removes a movie and its cast links.
func (h *MovieHandler) DeleteMovie(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := readIDParam(r, "id")
	if err != nil {
		h.respondError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.store.Delete(ctx, id); err != nil {
		h.respondStoreError(w, r, err, "delete movie")
		return
	}
	h.respondJSON(w, r, http.StatusOK, map[string]string{
		"message": fmt.Sprintf("Movie with id %d deleted successfully!", id),
	})
}

// DeleteMovies removes several movies at once. Ids that match nothing are
// skipped without error.
func (h *MovieHandler) DeleteMovies(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req domain.BatchDeleteRequest
	if !h.decodeAndValidate(w, r, &req.IDs, &req) {
		return
	}

	deleted, err := h.store.DeleteBatch(ctx, req.IDs)
	if err != nil {
		h.respondStoreError(w, r, err, "delete movies")
		return
	}
	h.respondJSON(w, r, http.StatusOK, batchResult("movies", req.IDs, deleted))
}

// GetMovieActors lists the actors linked to a movie.
func (h *MovieHandler) GetMovieActors(w http.ResponseWriter, r *http.Request) {
	id, err := readIDParam(r, "id")
	if err != nil {
		h.respondError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	actors, err := h.store.ListActors(r.Context(), id)
	if err != nil {
		h.respondStoreError(w, r, err, "retrieve movie actors")
		return
	}
	h.respondJSON(w, r, http.StatusOK, actors)
}

// AddMovieActors links existing actors to a movie and returns the cast.
func (h *MovieHandler) AddMovieActors(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := readIDParam(r, "id")
	if err != nil {
		h.respondError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	var req domain.AssociateActorsRequest
	if !h.decodeAndValidate(w, r, &req, &req) {
		return
	}

	if err := h.store.AddActors(ctx, id, req.ActorIDs); err != nil {
		h.respondStoreError(w, r, err, "link actors")
		return
	}
	actors, err := h.store.ListActors(ctx, id)
	if err != nil {
		h.respondStoreError(w, r, err, "retrieve movie actors")
		return
	}
	h.respondJSON(w, r, http.StatusOK, actors)
}

// RemoveMovieActor unlinks an actor from a movie.
func (h *MovieHandler) RemoveMovieActor(w http.ResponseWriter, r *http.Request) {
	id, err := readIDParam(r, "id")
	if err != nil {
		h.respondError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	actorID, err := readIDParam(r, "actorId")
	if err != nil {
		h.respondError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.store.RemoveActor(r.Context(), id, actorID); err != nil {
		h.respondStoreError(w, r, err, "unlink actor")
		return
	}
	h.respondJSON(w, r, http.StatusOK, map[string]string{
		"message": fmt.Sprintf("Actor %d removed from movie %d", actorID, id),
	})
}

func batchResult(entity string, requested []int64, deleted int64) domain.BatchDeleteResult {
	distinct := make(map[int64]struct{}, len(requested))
	for _, id := range requested {
		distinct[id] = struct{}{}
	}
	msg := fmt.Sprintf("All selected %s deleted successfully!", entity)
	if deleted < int64(len(distinct)) {
		msg = fmt.Sprintf("Deleted %d out of %d requested %s; the rest did not exist.", deleted, len(distinct), entity)
	}
	return domain.BatchDeleteResult{
		Message:      msg,
		RequestedIDs: requested,
		DeletedCount: deleted,
	}
}
