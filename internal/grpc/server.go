// moviedb-service/internal/grpc/server.go
package grpc

import (
	"context"
	"errors"
	"log/slog"
	"strconv"

	"moviedb-service/internal/domain"
	"moviedb-service/internal/store"
	"moviedb-service/pkg/metrics"

	grpclib "google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

var _ CatalogServer = (*Server)(nil)

// Server implements CatalogServer on top of the stores.
type Server struct {
	movies store.MovieStore
	actors store.ActorStore
	logger *slog.Logger
}

// NewServer creates a new Catalog gRPC server.
func NewServer(movies store.MovieStore, actors store.ActorStore, logger *slog.Logger) *Server {
	return &Server{movies: movies, actors: actors, logger: logger}
}

// Ids travel as decimal strings; a struct NumberValue is a float64 and
// loses precision above 2^53.
func movieToStruct(movie *domain.Movie) (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]any{
		"id":     strconv.FormatInt(movie.ID, 10),
		"title":  movie.Title,
		"year":   movie.Year,
		"actors": movie.Actors,
	})
}

func actorToMap(actor *domain.Actor) map[string]any {
	return map[string]any{
		"id":      strconv.FormatInt(actor.ID, 10),
		"name":    actor.Name,
		"surname": actor.Surname,
	}
}

func (s *Server) storeError(ctx context.Context, method string, id int64, err error) error {
	if errors.Is(err, store.ErrMovieNotFound) || errors.Is(err, store.ErrActorNotFound) {
		s.logger.InfoContext(ctx, "Catalog lookup found nothing", slog.String("method", method), slog.Int64("id", id))
		return status.Errorf(codes.NotFound, "%v: %d", err, id)
	}
	s.logger.ErrorContext(ctx, "Catalog lookup failed", slog.String("method", method), slog.Int64("id", id), slog.String("error", err.Error()))
	return status.Errorf(codes.Internal, "failed to look up %d: %v", id, err)
}

func validID(method string, req *wrapperspb.Int64Value) error {
	if req.GetValue() <= 0 {
		return status.Errorf(codes.InvalidArgument, "%s: id must be positive", method)
	}
	return nil
}

// GetMovie returns a movie as a Struct with id, title, year and actors.
func (s *Server) GetMovie(ctx context.Context, req *wrapperspb.Int64Value) (*structpb.Struct, error) {
	if err := validID("GetMovie", req); err != nil {
		return nil, err
	}
	movie, err := s.movies.GetByID(ctx, req.GetValue())
	if err != nil {
		return nil, s.storeError(ctx, "GetMovie", req.GetValue(), err)
	}
	out, err := movieToStruct(movie)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "failed to encode movie: %v", err)
	}
	return out, nil
}

// CheckMovieExists reports whether a movie with the id exists.
func (s *Server) CheckMovieExists(ctx context.Context, req *wrapperspb.Int64Value) (*wrapperspb.BoolValue, error) {
	if err := validID("CheckMovieExists", req); err != nil {
		return nil, err
	}
	_, err := s.movies.GetByID(ctx, req.GetValue())
	if errors.Is(err, store.ErrMovieNotFound) {
		return wrapperspb.Bool(false), nil
	}
	if err != nil {
		return nil, s.storeError(ctx, "CheckMovieExists", req.GetValue(), err)
	}
	return wrapperspb.Bool(true), nil
}

// GetActor returns an actor as a Struct with id, name and surname.
func (s *Server) GetActor(ctx context.Context, req *wrapperspb.Int64Value) (*structpb.Struct, error) {
	if err := validID("GetActor", req); err != nil {
		return nil, err
	}
	actor, err := s.actors.GetByID(ctx, req.GetValue())
	if err != nil {
		return nil, s.storeError(ctx, "GetActor", req.GetValue(), err)
	}
	out, err := structpb.NewStruct(actorToMap(actor))
	if err != nil {
		return nil, status.Errorf(codes.Internal, "failed to encode actor: %v", err)
	}
	return out, nil
}

// ListMovieActors returns the actors linked to a movie.
func (s *Server) ListMovieActors(ctx context.Context, req *wrapperspb.Int64Value) (*structpb.ListValue, error) {
	if err := validID("ListMovieActors", req); err != nil {
		return nil, err
	}
	actors, err := s.movies.ListActors(ctx, req.GetValue())
	if err != nil {
		return nil, s.storeError(ctx, "ListMovieActors", req.GetValue(), err)
	}
	items := make([]any, 0, len(actors))
	for _, actor := range actors {
		items = append(items, actorToMap(actor))
	}
	out, err := structpb.NewList(items)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "failed to encode actors: %v", err)
	}
	return out, nil
}

// MetricsInterceptor counts calls by method and status code.
func MetricsInterceptor(ctx context.Context, req any, info *grpclib.UnaryServerInfo, handler grpclib.UnaryHandler) (any, error) {
	resp, err := handler(ctx, req)
	metrics.GRPCRequests.WithLabelValues(info.FullMethod, status.Code(err).String()).Inc()
	return resp, err
}
