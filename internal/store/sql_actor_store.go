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

// SQLActorStore implements ActorStore on top of a shared connection pool.
type SQLActorStore struct {
	db     *sqlx.DB
	logger *slog.Logger
}

func NewSQLActorStore(db *sqlx.DB, logger *slog.Logger) (*SQLActorStore, error) {
	if db == nil {
		return nil, errors.New("database connection (db) cannot be nil")
	}
	return &SQLActorStore{db: db, logger: logger}, nil
}

func (s *SQLActorStore) List(ctx context.Context) (actors []*domain.Actor, err error) {
	defer func() { observe("actor", "list", err) }()

	actors = []*domain.Actor{}
	if err = s.db.SelectContext(ctx, &actors, `SELECT id, name, surname FROM actors ORDER BY id`); err != nil {
		s.logger.ErrorContext(ctx, "Failed to list actors from DB", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to list actors: %w", err)
	}
	return actors, nil
}

func (s *SQLActorStore) GetByID(ctx context.Context, id int64) (_ *domain.Actor, err error) {
	defer func() { observe("actor", "get", err) }()

	var actor domain.Actor
	query := s.db.Rebind(`SELECT id, name, surname FROM actors WHERE id = ?`)
	if err = s.db.GetContext(ctx, &actor, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			s.logger.WarnContext(ctx, "Actor not found by ID in DB", slog.Int64("actorID", id))
			return nil, ErrActorNotFound
		}
		s.logger.ErrorContext(ctx, "Failed to get actor by ID from DB", slog.Int64("actorID", id), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to get actor by ID: %w", err)
	}
	return &actor, nil
}

func (s *SQLActorStore) Create(ctx context.Context, actor *domain.Actor) (id int64, err error) {
	defer func() { observe("actor", "create", err) }()

	query := s.db.Rebind(`INSERT INTO actors (name, surname) VALUES (?, ?) RETURNING id`)
	if err = s.db.QueryRowxContext(ctx, query, actor.Name, actor.Surname).Scan(&id); err != nil {
		if isUniqueViolation(err) {
			s.logger.WarnContext(ctx, "Actor already exists (unique constraint violation in DB)", slog.String("name", actor.Name), slog.String("surname", actor.Surname))
			return 0, ErrDuplicateActor
		}
		s.logger.ErrorContext(ctx, "Failed to create actor in DB", slog.String("error", err.Error()))
		return 0, fmt.Errorf("failed to create actor: %w", err)
	}
	actor.ID = id
	s.logger.InfoContext(ctx, "Actor created successfully in DB", slog.Int64("actorID", id))
	return id, nil
}

func (s *SQLActorStore) Update(ctx context.Context, actor *domain.Actor) (err error) {
	defer func() { observe("actor", "update", err) }()

	query := s.db.Rebind(`UPDATE actors SET name = ?, surname = ? WHERE id = ?`)
	res, err := s.db.ExecContext(ctx, query, actor.Name, actor.Surname, actor.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateActor
		}
		s.logger.ErrorContext(ctx, "Failed to update actor in DB", slog.Int64("actorID", actor.ID), slog.String("error", err.Error()))
		return fmt.Errorf("failed to update actor: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update actor: %w", err)
	}
	if rows == 0 {
		s.logger.WarnContext(ctx, "No actor found to update in DB", slog.Int64("actorID", actor.ID))
		return ErrActorNotFound
	}
	return nil
}

// Delete removes an actor together with the actor's movie links.
func (s *SQLActorStore) Delete(ctx context.Context, id int64) (err error) {
	defer func() { observe("actor", "delete", err) }()

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err = tx.ExecContext(ctx, tx.Rebind(`DELETE FROM movie_actors WHERE actor_id = ?`), id); err != nil {
		return fmt.Errorf("failed to delete actor links: %w", err)
	}
	res, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM actors WHERE id = ?`), id)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to delete actor in DB", slog.Int64("actorID", id), slog.String("error", err.Error()))
		return fmt.Errorf("failed to delete actor: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete actor: %w", err)
	}
	if rows == 0 {
		return ErrActorNotFound
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit actor delete: %w", err)
	}
	s.logger.InfoContext(ctx, "Actor deleted successfully in DB", slog.Int64("actorID", id))
	return nil
}

func (s *SQLActorStore) DeleteBatch(ctx context.Context, ids []int64) (deleted int64, err error) {
	defer func() { observe("actor", "delete_batch", err) }()

	ids = uniqueIDs(ids)
	if len(ids) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err = execIn(ctx, tx, `DELETE FROM movie_actors WHERE actor_id IN (?)`, ids); err != nil {
		return 0, fmt.Errorf("failed to delete actor links: %w", err)
	}
	deleted, err = execIn(ctx, tx, `DELETE FROM actors WHERE id IN (?)`, ids)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to batch delete actors in DB", slog.String("error", err.Error()))
		return 0, fmt.Errorf("failed to delete actors: %w", err)
	}
	if err = tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit actor batch delete: %w", err)
	}
	s.logger.InfoContext(ctx, "Actors batch deleted in DB", slog.Int("requested", len(ids)), slog.Int64("deleted", deleted))
	return deleted, nil
}

// ListMovies returns the movies an actor is linked to.
func (s *SQLActorStore) ListMovies(ctx context.Context, actorID int64) (movies []*domain.Movie, err error) {
	defer func() { observe("actor", "list_movies", err) }()

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	ok, err := exists(ctx, tx, `SELECT COUNT(*) FROM actors WHERE id = ?`, actorID)
	if err != nil {
		return nil, fmt.Errorf("failed to check actor: %w", err)
	}
	if !ok {
		return nil, ErrActorNotFound
	}

	movies = []*domain.Movie{}
	query := tx.Rebind(`SELECT m.id, m.title, m.year, m.actors
		FROM movies m
		JOIN movie_actors ma ON ma.movie_id = m.id
		WHERE ma.actor_id = ?
		ORDER BY m.id`)
	if err = tx.SelectContext(ctx, &movies, query, actorID); err != nil {
		return nil, fmt.Errorf("failed to list actor movies: %w", err)
	}
	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit: %w", err)
	}
	return movies, nil
}
