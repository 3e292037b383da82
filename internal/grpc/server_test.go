package grpc

import (
	"context"
	"io"
	"log/slog"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	grpclib "google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"

	"moviedb-service/internal/domain"
	"moviedb-service/internal/store"
)

func newCatalog(t *testing.T) (*CatalogClient, *store.MockMovieStore, *store.MockActorStore) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	movies, actors := store.NewMockStores(logger)

	lis := bufconn.Listen(1 << 20)
	srv := grpclib.NewServer(grpclib.UnaryInterceptor(MetricsInterceptor))
	RegisterCatalogServer(srv, NewServer(movies, actors, logger))
	go srv.Serve(lis)
	t.Cleanup(srv.Stop)

	client, err := NewCatalogClient("passthrough:///bufnet", logger,
		grpclib.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}))
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })
	return client, movies, actors
}

func TestCatalog_GetMovie(t *testing.T) {
	client, movies, _ := newCatalog(t)
	ctx := context.Background()

	id, err := movies.Create(ctx, &domain.Movie{Title: "Heat", Year: 1995, Actors: "Al Pacino"})
	require.NoError(t, err)

	got, err := client.GetMovie(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, &domain.Movie{ID: id, Title: "Heat", Year: 1995, Actors: "Al Pacino"}, got)

	_, err = client.GetMovie(ctx, id+1)
	require.Error(t, err)
	assert.True(t, IsNotFound(err))

	_, err = client.GetMovie(ctx, 0)
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestCatalog_CheckMovieExists(t *testing.T) {
	client, movies, _ := newCatalog(t)
	ctx := context.Background()

	id, err := movies.Create(ctx, &domain.Movie{Title: "Heat", Year: 1995, Actors: "x"})
	require.NoError(t, err)

	ok, err := client.CheckMovieExists(ctx, id)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = client.CheckMovieExists(ctx, id+10)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCatalog_Actors(t *testing.T) {
	client, movies, actors := newCatalog(t)
	ctx := context.Background()

	movieID, err := movies.Create(ctx, &domain.Movie{Title: "Heat", Year: 1995, Actors: "x"})
	require.NoError(t, err)
	a, err := actors.Create(ctx, &domain.Actor{Name: "Al", Surname: "Pacino"})
	require.NoError(t, err)
	b, err := actors.Create(ctx, &domain.Actor{Name: "Val", Surname: "Kilmer"})
	require.NoError(t, err)
	require.NoError(t, movies.AddActors(ctx, movieID, []int64{a, b}))

	actor, err := client.GetActor(ctx, a)
	require.NoError(t, err)
	assert.Equal(t, &domain.Actor{ID: a, Name: "Al", Surname: "Pacino"}, actor)

	cast, err := client.ListMovieActors(ctx, movieID)
	require.NoError(t, err)
	require.Len(t, cast, 2)
	assert.Equal(t, "Kilmer", cast[1].Surname)

	_, err = client.GetActor(ctx, 99)
	assert.True(t, IsNotFound(err))
	_, err = client.ListMovieActors(ctx, 99)
	assert.True(t, IsNotFound(err))
}

func TestStructIDsKeepInt64Precision(t *testing.T) {
	const big = int64(1<<53 + 1)

	movie := &domain.Movie{ID: big, Title: "Heat", Year: 1995, Actors: "x"}
	s, err := movieToStruct(movie)
	require.NoError(t, err)
	got, err := structToMovie(s)
	require.NoError(t, err)
	assert.Equal(t, movie, got)

	actor := &domain.Actor{ID: big, Name: "Al", Surname: "Pacino"}
	s, err = structpb.NewStruct(actorToMap(actor))
	require.NoError(t, err)
	gotActor, err := structToActor(s)
	require.NoError(t, err)
	assert.Equal(t, actor, gotActor)

	_, err = structToActor(&structpb.Struct{})
	assert.Error(t, err)
}
