// moviedb-service/internal/api/router.go
package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter wires every endpoint and wraps the router with request id,
// logging and panic recovery.
func NewRouter(movies *MovieHandler, actors *ActorHandler, health *HealthHandler, logger *slog.Logger) http.Handler {
	router := mux.NewRouter()
	router.Use(instrument)

	notFound := responder{logger: logger}
	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		notFound.respondError(w, r, http.StatusNotFound, "The requested resource could not be found")
	})
	router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		notFound.respondError(w, r, http.StatusMethodNotAllowed, "The "+r.Method+" method is not supported for this resource")
	})

	router.HandleFunc("/healthz", health.Check).Methods(http.MethodGet)
	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	// Routes live on the root router so a method mismatch reaches
	// MethodNotAllowedHandler. /batch must be registered before /{id}.
	router.HandleFunc("/movies", movies.GetMovies).Methods(http.MethodGet)
	router.HandleFunc("/movies", movies.CreateMovie).Methods(http.MethodPost)
	router.HandleFunc("/movies/batch", movies.DeleteMovies).Methods(http.MethodDelete)
	router.HandleFunc("/movies/{id}", movies.GetMovieByID).Methods(http.MethodGet)
	router.HandleFunc("/movies/{id}", movies.UpdateMovie).Methods(http.MethodPut)
	router.HandleFunc("/movies/{id}", movies.DeleteMovie).Methods(http.MethodDelete)
	router.HandleFunc("/movies/{id}/actors", movies.GetMovieActors).Methods(http.MethodGet)
	router.HandleFunc("/movies/{id}/actors", movies.AddMovieActors).Methods(http.MethodPost)
	router.HandleFunc("/movies/{id}/actors/{actorId}", movies.RemoveMovieActor).Methods(http.MethodDelete)

	router.HandleFunc("/actors", actors.GetActors).Methods(http.MethodGet)
	router.HandleFunc("/actors", actors.CreateActor).Methods(http.MethodPost)
	router.HandleFunc("/actors/batch", actors.DeleteActors).Methods(http.MethodDelete)
	router.HandleFunc("/actors/{id}/movies", actors.GetActorMovies).Methods(http.MethodGet)

	// Single-actor routes answer on both /actors/{id} and /actor/{id}.
	for _, prefix := range []string{"/actors", "/actor"} {
		router.HandleFunc(prefix+"/{id}", actors.GetActorByID).Methods(http.MethodGet)
		router.HandleFunc(prefix+"/{id}", actors.UpdateActor).Methods(http.MethodPut)
		router.HandleFunc(prefix+"/{id}", actors.DeleteActor).Methods(http.MethodDelete)
	}

	var handler http.Handler = router
	handler = LogRequests(logger)(handler)
	handler = RequestID(handler)
	handler = RecoverPanic(logger)(handler)
	return handler
}
