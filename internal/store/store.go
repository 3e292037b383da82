// moviedb-service/internal/store/store.go
package store

import (
	"context"
	"errors"

	"moviedb-service/internal/domain"
)

var (
	ErrMovieNotFound  = errors.New("movie not found")
	ErrActorNotFound  = errors.New("actor not found")
	ErrDuplicateMovie = errors.New("movie with this title and year already exists")
	ErrDuplicateActor = errors.New("actor with this name and surname already exists")
	// ErrAssociationNotFound is returned when removing a movie/actor pair
	// that was never linked.
	ErrAssociationNotFound = errors.New("actor is not associated with movie")
)

// MovieStore defines data operations on movies and their cast links.
type MovieStore interface {
	List(ctx context.Context) ([]*domain.Movie, error)
	GetByID(ctx context.Context, id int64) (*domain.Movie, error)
	Create(ctx context.Context, movie *domain.Movie) (int64, error)
	Update(ctx context.Context, movie *domain.Movie) error
	Delete(ctx context.Context, id int64) error
	DeleteBatch(ctx context.Context, ids []int64) (int64, error)

	ListActors(ctx context.Context, movieID int64) ([]*domain.Actor, error)
	AddActors(ctx context.Context, movieID int64, actorIDs []int64) error
	RemoveActor(ctx context.Context, movieID, actorID int64) error
}

// ActorStore defines data operations on actors.
type ActorStore interface {
	List(ctx context.Context) ([]*domain.Actor, error)
	GetByID(ctx context.Context, id int64) (*domain.Actor, error)
	Create(ctx context.Context, actor *domain.Actor) (int64, error)
	Update(ctx context.Context, actor *domain.Actor) error
	Delete(ctx context.Context, id int64) error
	DeleteBatch(ctx context.Context, ids []int64) (int64, error)

	ListMovies(ctx context.Context, actorID int64) ([]*domain.Movie, error)
}

var (
	_ MovieStore = (*SQLMovieStore)(nil)
	_ ActorStore = (*SQLActorStore)(nil)
	_ MovieStore = (*MockMovieStore)(nil)
	_ ActorStore = (*MockActorStore)(nil)
)
