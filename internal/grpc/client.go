package grpc

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"moviedb-service/internal/domain"

	grpclib "google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

const callTimeout = 3 * time.Second

// CatalogClient talks to a Catalog service.
type CatalogClient struct {
	conn   *grpclib.ClientConn
	logger *slog.Logger
}

// NewCatalogClient creates a client for the Catalog service at target. The
// connection is plaintext unless opts say otherwise.
func NewCatalogClient(target string, logger *slog.Logger, opts ...grpclib.DialOption) (*CatalogClient, error) {
	opts = append([]grpclib.DialOption{grpclib.WithTransportCredentials(insecure.NewCredentials())}, opts...)
	conn, err := grpclib.NewClient(target, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create catalog client for %s: %w", target, err)
	}
	return &CatalogClient{conn: conn, logger: logger}, nil
}

func (c *CatalogClient) invoke(ctx context.Context, method string, id int64, out any) error {
	callCtx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	if err := c.conn.Invoke(callCtx, method, wrapperspb.Int64(id), out); err != nil {
		st, _ := status.FromError(err)
		c.logger.WarnContext(ctx, "Catalog gRPC call failed",
			slog.String("method", method),
			slog.Int64("id", id),
			slog.String("code", st.Code().String()),
			slog.String("message", st.Message()))
		return fmt.Errorf("grpc %s failed for id %d: %w", method, id, err)
	}
	return nil
}

// GetMovie fetches a movie by id.
func (c *CatalogClient) GetMovie(ctx context.Context, id int64) (*domain.Movie, error) {
	out := new(structpb.Struct)
	if err := c.invoke(ctx, methodGetMovie, id, out); err != nil {
		return nil, err
	}
	return structToMovie(out)
}

// CheckMovieExists reports whether the movie exists.
func (c *CatalogClient) CheckMovieExists(ctx context.Context, id int64) (bool, error) {
	out := new(wrapperspb.BoolValue)
	if err := c.invoke(ctx, methodCheckMovieExists, id, out); err != nil {
		return false, err
	}
	return out.GetValue(), nil
}

// GetActor fetches an actor by id.
func (c *CatalogClient) GetActor(ctx context.Context, id int64) (*domain.Actor, error) {
	out := new(structpb.Struct)
	if err := c.invoke(ctx, methodGetActor, id, out); err != nil {
		return nil, err
	}
	return structToActor(out)
}

// ListMovieActors fetches the actors linked to a movie.
func (c *CatalogClient) ListMovieActors(ctx context.Context, movieID int64) ([]*domain.Actor, error) {
	out := new(structpb.ListValue)
	if err := c.invoke(ctx, methodListMovieActors, movieID, out); err != nil {
		return nil, err
	}
	actors := make([]*domain.Actor, 0, len(out.GetValues()))
	for _, v := range out.GetValues() {
		actor, err := structToActor(v.GetStructValue())
		if err != nil {
			return nil, err
		}
		actors = append(actors, actor)
	}
	return actors, nil
}

// Close closes the underlying connection.
func (c *CatalogClient) Close() error {
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

// IsNotFound reports whether err carries a gRPC NotFound status.
func IsNotFound(err error) bool {
	return status.Code(err) == codes.NotFound
}

func structID(s *structpb.Struct) (int64, error) {
	raw := s.GetFields()["id"].GetStringValue()
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q in catalog response: %w", raw, err)
	}
	return id, nil
}

func structToMovie(s *structpb.Struct) (*domain.Movie, error) {
	id, err := structID(s)
	if err != nil {
		return nil, err
	}
	fields := s.GetFields()
	return &domain.Movie{
		ID:     id,
		Title:  fields["title"].GetStringValue(),
		Year:   int(fields["year"].GetNumberValue()),
		Actors: fields["actors"].GetStringValue(),
	}, nil
}

func structToActor(s *structpb.Struct) (*domain.Actor, error) {
	id, err := structID(s)
	if err != nil {
		return nil, err
	}
	fields := s.GetFields()
	return &domain.Actor{
		ID:      id,
		Name:    fields["name"].GetStringValue(),
		Surname: fields["surname"].GetStringValue(),
	}, nil
}
