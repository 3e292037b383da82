package store

import (
	"context"
	"log/slog"
	"sort"
	"sync"

	"moviedb-service/internal/domain"
)

// mockData is the in-memory state shared by MockMovieStore and
// MockActorStore so that cascades behave like the SQL stores.
type mockData struct {
	mu          sync.RWMutex
	movies      map[int64]domain.Movie
	actors      map[int64]domain.Actor
	links       map[int64]map[int64]struct{} // movieID -> set of actorIDs
	nextMovieID int64
	nextActorID int64
	logger      *slog.Logger
}

// MockMovieStore is an in-memory MovieStore for tests and local development.
type MockMovieStore struct{ d *mockData }

// MockActorStore is an in-memory ActorStore sharing data with a MockMovieStore.
type MockActorStore struct{ d *mockData }

// NewMockStores creates a movie store and an actor store over the same data.
func NewMockStores(logger *slog.Logger) (*MockMovieStore, *MockActorStore) {
	d := &mockData{
		movies: make(map[int64]domain.Movie),
		actors: make(map[int64]domain.Actor),
		links:  make(map[int64]map[int64]struct{}),
		logger: logger,
	}
	return &MockMovieStore{d: d}, &MockActorStore{d: d}
}

func (m *MockMovieStore) List(ctx context.Context) ([]*domain.Movie, error) {
	m.d.mu.RLock()
	defer m.d.mu.RUnlock()

	out := make([]*domain.Movie, 0, len(m.d.movies))
	for _, movie := range m.d.movies {
		movieCopy := movie
		out = append(out, &movieCopy)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MockMovieStore) GetByID(ctx context.Context, id int64) (*domain.Movie, error) {
	m.d.mu.RLock()
	defer m.d.mu.RUnlock()

	movie, ok := m.d.movies[id]
	if !ok {
		return nil, ErrMovieNotFound
	}
	return &movie, nil
}

func (m *MockMovieStore) Create(ctx context.Context, movie *domain.Movie) (int64, error) {
	m.d.mu.Lock()
	defer m.d.mu.Unlock()

	for _, existing := range m.d.movies {
		if existing.Title == movie.Title && existing.Year == movie.Year {
			return 0, ErrDuplicateMovie
		}
	}
	m.d.nextMovieID++
	movie.ID = m.d.nextMovieID
	m.d.movies[movie.ID] = *movie
	m.d.logger.DebugContext(ctx, "[MOCK STORE] Created movie", slog.Int64("movieID", movie.ID))
	return movie.ID, nil
}

func (m *MockMovieStore) Update(ctx context.Context, movie *domain.Movie) error {
	m.d.mu.Lock()
	defer m.d.mu.Unlock()

	if _, ok := m.d.movies[movie.ID]; !ok {
		return ErrMovieNotFound
	}
	for id, existing := range m.d.movies {
		if id != movie.ID && existing.Title == movie.Title && existing.Year == movie.Year {
			return ErrDuplicateMovie
		}
	}
	m.d.movies[movie.ID] = *movie
	return nil
}

func (m *MockMovieStore) Delete(ctx context.Context, id int64) error {
	m.d.mu.Lock()
	defer m.d.mu.Unlock()

	if _, ok := m.d.movies[id]; !ok {
		return ErrMovieNotFound
	}
	delete(m.d.movies, id)
	delete(m.d.links, id)
	return nil
}

func (m *MockMovieStore) DeleteBatch(ctx context.Context, ids []int64) (int64, error) {
	m.d.mu.Lock()
	defer m.d.mu.Unlock()

	var deleted int64
	for _, id := range uniqueIDs(ids) {
		if _, ok := m.d.movies[id]; ok {
			delete(m.d.movies, id)
			delete(m.d.links, id)
			deleted++
		}
	}
	return deleted, nil
}

func (m *MockMovieStore) ListActors(ctx context.Context, movieID int64) ([]*domain.Actor, error) {
	m.d.mu.RLock()
	defer m.d.mu.RUnlock()

	if _, ok := m.d.movies[movieID]; !ok {
		return nil, ErrMovieNotFound
	}
	out := []*domain.Actor{}
	for actorID := range m.d.links[movieID] {
		actor := m.d.actors[actorID]
		out = append(out, &actor)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MockMovieStore) AddActors(ctx context.Context, movieID int64, actorIDs []int64) error {
	m.d.mu.Lock()
	defer m.d.mu.Unlock()

	if _, ok := m.d.movies[movieID]; !ok {
		return ErrMovieNotFound
	}
	for _, actorID := range actorIDs {
		if _, ok := m.d.actors[actorID]; !ok {
			return ErrActorNotFound
		}
	}
	if m.d.links[movieID] == nil {
		m.d.links[movieID] = make(map[int64]struct{})
	}
	for _, actorID := range actorIDs {
		m.d.links[movieID][actorID] = struct{}{}
	}
	return nil
}

func (m *MockMovieStore) RemoveActor(ctx context.Context, movieID, actorID int64) error {
	m.d.mu.Lock()
	defer m.d.mu.Unlock()

	if _, ok := m.d.movies[movieID]; !ok {
		return ErrMovieNotFound
	}
	if _, ok := m.d.links[movieID][actorID]; !ok {
		return ErrAssociationNotFound
	}
	delete(m.d.links[movieID], actorID)
	return nil
}

func (m *MockActorStore) List(ctx context.Context) ([]*domain.Actor, error) {
	m.d.mu.RLock()
	defer m.d.mu.RUnlock()

	out := make([]*domain.Actor, 0, len(m.d.actors))
	for _, actor := range m.d.actors {
		actorCopy := actor
		out = append(out, &actorCopy)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MockActorStore) GetByID(ctx context.Context, id int64) (*domain.Actor, error) {
	m.d.mu.RLock()
	defer m.d.mu.RUnlock()

	actor, ok := m.d.actors[id]
	if !ok {
		return nil, ErrActorNotFound
	}
	return &actor, nil
}

func (m *MockActorStore) Create(ctx context.Context, actor *domain.Actor) (int64, error) {
	m.d.mu.Lock()
	defer m.d.mu.Unlock()

	for _, existing := range m.d.actors {
		if existing.Name == actor.Name && existing.Surname == actor.Surname {
			return 0, ErrDuplicateActor
		}
	}
	m.d.nextActorID++
	actor.ID = m.d.nextActorID
	m.d.actors[actor.ID] = *actor
	return actor.ID, nil
}

func (m *MockActorStore) Update(ctx context.Context, actor *domain.Actor) error {
	m.d.mu.Lock()
	defer m.d.mu.Unlock()

	if _, ok := m.d.actors[actor.ID]; !ok {
		return ErrActorNotFound
	}
	for id, existing := range m.d.actors {
		if id != actor.ID && existing.Name == actor.Name && existing.Surname == actor.Surname {
			return ErrDuplicateActor
		}
	}
	m.d.actors[actor.ID] = *actor
	return nil
}

func (m *MockActorStore) Delete(ctx context.Context, id int64) error {
	m.d.mu.Lock()
	defer m.d.mu.Unlock()

	if _, ok := m.d.actors[id]; !ok {
		return ErrActorNotFound
	}
	m.d.deleteActor(id)
	return nil
}

func (m *MockActorStore) DeleteBatch(ctx context.Context, ids []int64) (int64, error) {
	m.d.mu.Lock()
	defer m.d.mu.Unlock()

	var deleted int64
	for _, id := range uniqueIDs(ids) {
		if _, ok := m.d.actors[id]; ok {
			m.d.deleteActor(id)
			deleted++
		}
	}
	return deleted, nil
}

func (m *MockActorStore) ListMovies(ctx context.Context, actorID int64) ([]*domain.Movie, error) {
	m.d.mu.RLock()
	defer m.d.mu.RUnlock()

	if _, ok := m.d.actors[actorID]; !ok {
		return nil, ErrActorNotFound
	}
	out := []*domain.Movie{}
	for movieID, cast := range m.d.links {
		if _, ok := cast[actorID]; ok {
			movie := m.d.movies[movieID]
			out = append(out, &movie)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// deleteActor must be called with mu held.
func (d *mockData) deleteActor(id int64) {
	delete(d.actors, id)
	for _, cast := range d.links {
		delete(cast, id)
	}
}
