// moviedb-service/internal/store/sql_movie_store.go
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"moviedb-service/internal/domain"

	"github.com/jmoiron/sqlx"
)

// SQLMovieStore implements MovieStore on top of a shared connection pool.
type SQLMovieStore struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// NewSQLMovieStore creates a new SQLMovieStore.
func NewSQLMovieStore(db *sqlx.DB, logger *slog.Logger) (*SQLMovieStore, error) {
	if db == nil {
		return nil, errors.New("database connection (db) cannot be nil")
	}
	return &SQLMovieStore{db: db, logger: logger}, nil
}

// List returns every movie ordered by id.
func (s *SQLMovieStore) List(ctx context.Context) (movies []*domain.Movie, err error) {
	defer func() { observe("movie", "list", err) }()

	movies = []*domain.Movie{}
	s.logger.DebugContext(ctx, "Executing List movies query")
	if err = s.db.SelectContext(ctx, &movies, `SELECT id, title, year, actors FROM movies ORDER BY id`); err != nil {
		s.logger.ErrorContext(ctx, "Failed to list movies from DB", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to list movies: %w", err)
	}
	return movies, nil
}

// GetByID finds a movie by its id.
func (s *SQLMovieStore) GetByID(ctx context.Context, id int64) (_ *domain.Movie, err error) {
	defer func() { observe("movie", "get", err) }()

	var movie domain.Movie
	query := s.db.Rebind(`SELECT id, title, year, actors FROM movies WHERE id = ?`)
	s.logger.DebugContext(ctx, "Executing GetMovieByID query", slog.Int64("movieID", id))
	if err = s.db.GetContext(ctx, &movie, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			s.logger.WarnContext(ctx, "Movie not found by ID in DB", slog.Int64("movieID", id))
			return nil, ErrMovieNotFound
		}
		s.logger.ErrorContext(ctx, "Failed to get movie by ID from DB", slog.Int64("movieID", id), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to get movie by ID: %w", err)
	}
	return &movie, nil
}

// Create inserts a movie and returns its generated id. movie.ID is set too.
func (s *SQLMovieStore) Create(ctx context.Context, movie *domain.Movie) (id int64, err error) {
	defer func() { observe("movie", "create", err) }()

	query := s.db.Rebind(`INSERT INTO movies (title, year, actors) VALUES (?, ?, ?) RETURNING id`)
	s.logger.DebugContext(ctx, "Executing Create movie query", slog.String("title", movie.Title), slog.Int("year", movie.Year))
	if err = s.db.QueryRowxContext(ctx, query, movie.Title, movie.Year, movie.Actors).Scan(&id); err != nil {
		if isUniqueViolation(err) {
			s.logger.WarnContext(ctx, "Movie already exists (unique constraint violation in DB)", slog.String("title", movie.Title), slog.Int("year", movie.Year))
			return 0, ErrDuplicateMovie
		}
		s.logger.ErrorContext(ctx, "Failed to create movie in DB", slog.String("error", err.Error()))
		return 0, fmt.Errorf("failed to create movie: %w", err)
	}
	movie.ID = id
	s.logger.InfoContext(ctx, "Movie created successfully in DB", slog.Int64("movieID", id))
	return id, nil
}

// Update replaces all mutable fields of the movie with the given id.
func (s *SQLMovieStore) Update(ctx context.Context, movie *domain.Movie) (err error) {
	defer func() { observe("movie", "update", err) }()

	query := s.db.Rebind(`UPDATE movies SET title = ?, year = ?, actors = ? WHERE id = ?`)
	s.logger.DebugContext(ctx, "Executing Update movie query", slog.Int64("movieID", movie.ID))
	res, err := s.db.ExecContext(ctx, query, movie.Title, movie.Year, movie.Actors, movie.ID)
	if err != nil {
		if isUniqueViolation(err) {
			s.logger.WarnContext(ctx, "Movie update collides with an existing movie", slog.Int64("movieID", movie.ID))
			return ErrDuplicateMovie
		}
		s.logger.ErrorContext(ctx, "Failed to update movie in DB", slog.Int64("movieID", movie.ID), slog.String("error", err.Error()))
		return fmt.Errorf("failed to update movie: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update movie: %w", err)
	}
	if rows == 0 {
		s.logger.WarnContext(ctx, "No movie found to update in DB", slog.Int64("movieID", movie.ID))
		return ErrMovieNotFound
	}
	s.logger.InfoContext(ctx, "Movie updated successfully in DB", slog.Int64("movieID", movie.ID))
	return nil
}

// Delete removes a movie together with its cast links.
func (s *SQLMovieStore) Delete(ctx context.Context, id int64) (err error) {
	defer func() { observe("movie", "delete", err) }()

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err = tx.ExecContext(ctx, tx.Rebind(`DELETE FROM movie_actors WHERE movie_id = ?`), id); err != nil {
		s.logger.ErrorContext(ctx, "Failed to delete movie links in DB", slog.Int64("movieID", id), slog.String("error", err.Error()))
		return fmt.Errorf("failed to delete movie links: %w", err)
	}
	res, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM movies WHERE id = ?`), id)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to delete movie in DB", slog.Int64("movieID", id), slog.String("error", err.Error()))
		return fmt.Errorf("failed to delete movie: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete movie: %w", err)
	}
	if rows == 0 {
		s.logger.WarnContext(ctx, "No movie found to delete in DB", slog.Int64("movieID", id))
		return ErrMovieNotFound
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit movie delete: %w", err)
	}
	s.logger.InfoContext(ctx, "Movie deleted successfully in DB", slog.Int64("movieID", id))
	return nil
}

// DeleteBatch removes every movie whose id is in ids, in one transaction.
// Ids without a matching row are ignored; the number of deleted movies is
// returned.
func (s *SQLMovieStore) DeleteBatch(ctx context.Context, ids []int64) (deleted int64, err error) {
	defer func() { observe("movie", "delete_batch", err) }()

	ids = uniqueIDs(ids)
	if len(ids) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err = execIn(ctx, tx, `DELETE FROM movie_actors WHERE movie_id IN (?)`, ids); err != nil {
		return 0, fmt.Errorf("failed to delete movie links: %w", err)
	}
	deleted, err = execIn(ctx, tx, `DELETE FROM movies WHERE id IN (?)`, ids)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to batch delete movies in DB", slog.String("error", err.Error()))
		return 0, fmt.Errorf("failed to delete movies: %w", err)
	}
	if err = tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit movie batch delete: %w", err)
	}
	s.logger.InfoContext(ctx, "Movies batch deleted in DB", slog.Int("requested", len(ids)), slog.Int64("deleted", deleted))
	return deleted, nil
}

// ListActors returns the actors linked to a movie.
func (s *SQLMovieStore) ListActors(ctx context.Context, movieID int64) (actors []*domain.Actor, err error) {
	defer func() { observe("movie", "list_actors", err) }()

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	ok, err := exists(ctx, tx, `SELECT COUNT(*) FROM movies WHERE id = ?`, movieID)
	if err != nil {
		return nil, fmt.Errorf("failed to check movie: %w", err)
	}
	if !ok {
		return nil, ErrMovieNotFound
	}

	actors = []*domain.Actor{}
	query := tx.Rebind(`SELECT a.id, a.name, a.surname
		FROM actors a
		JOIN movie_actors ma ON ma.actor_id = a.id
		WHERE ma.movie_id = ?
		ORDER BY a.id`)
	if err = tx.SelectContext(ctx, &actors, query, movieID); err != nil {
		s.logger.ErrorContext(ctx, "Failed to list movie actors from DB", slog.Int64("movieID", movieID), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to list movie actors: %w", err)
	}
	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit: %w", err)
	}
	return actors, nil
}

// AddActors links actors to a movie. Existing links are left untouched.
// Either all links are created or none.
func (s *SQLMovieStore) AddActors(ctx context.Context, movieID int64, actorIDs []int64) (err error) {
	defer func() { observe("movie", "add_actors", err) }()

	actorIDs = uniqueIDs(actorIDs)

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	ok, err := exists(ctx, tx, `SELECT COUNT(*) FROM movies WHERE id = ?`, movieID)
	if err != nil {
		return fmt.Errorf("failed to check movie: %w", err)
	}
	if !ok {
		return ErrMovieNotFound
	}

	if len(actorIDs) > 0 {
		found, err := countIn(ctx, tx, `SELECT COUNT(*) FROM actors WHERE id IN (?)`, actorIDs)
		if err != nil {
			return fmt.Errorf("failed to check actors: %w", err)
		}
		if found != len(actorIDs) {
			s.logger.WarnContext(ctx, "Attempt to link non-existent actor", slog.Int64("movieID", movieID), slog.Any("actorIDs", actorIDs))
			return ErrActorNotFound
		}
	}

	insert := tx.Rebind(`INSERT INTO movie_actors (movie_id, actor_id) VALUES (?, ?)
		ON CONFLICT (movie_id, actor_id) DO NOTHING`)
	for _, actorID := range actorIDs {
		if _, err = tx.ExecContext(ctx, insert, movieID, actorID); err != nil {
			if isForeignKeyViolation(err) {
				return ErrActorNotFound
			}
			s.logger.ErrorContext(ctx, "Failed to link actor to movie", slog.Int64("movieID", movieID), slog.Int64("actorID", actorID), slog.String("error", err.Error()))
			return fmt.Errorf("failed to link actor %d: %w", actorID, err)
		}
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit actor links: %w", err)
	}
	s.logger.InfoContext(ctx, "Actors linked to movie", slog.Int64("movieID", movieID), slog.Int("count", len(actorIDs)))
	return nil
}

// RemoveActor unlinks one actor from a movie.
func (s *SQLMovieStore) RemoveActor(ctx context.Context, movieID, actorID int64) (err error) {
	defer func() { observe("movie", "remove_actor", err) }()

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM movie_actors WHERE movie_id = ? AND actor_id = ?`), movieID, actorID)
	if err != nil {
		return fmt.Errorf("failed to unlink actor: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to unlink actor: %w", err)
	}
	if rows == 0 {
		ok, err := exists(ctx, tx, `SELECT COUNT(*) FROM movies WHERE id = ?`, movieID)
		if err != nil {
			return fmt.Errorf("failed to check movie: %w", err)
		}
		if !ok {
			return ErrMovieNotFound
		}
		return ErrAssociationNotFound
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit actor unlink: %w", err)
	}
	s.logger.InfoContext(ctx, "Actor unlinked from movie", slog.Int64("movieID", movieID), slog.Int64("actorID", actorID))
	return nil
}
