// moviedb-service/internal/domain/movie.go
package domain

// Movie is the main movie model. Actors is the free-text cast list; the
// normalized cast lives in the movie_actors join table.
type Movie struct {
	ID     int64  `json:"id" db:"id"`
	Title  string `json:"title" db:"title"`
	Year   int    `json:"year" db:"year"`
	Actors string `json:"actors" db:"actors"`
}

// MovieRequest is the body of POST /movies and PUT /movies/{id}.
// PUT is a full replace, so both use the same rules.
type MovieRequest struct {
	Title  string `json:"title" validate:"required,min=1,max=255"`
	Year   int    `json:"year" validate:"required,gte=1888,lte=2100"`
	Actors string `json:"actors" validate:"required,min=1"`
}

// ToMovie builds a Movie with the given id from the request.
func (r MovieRequest) ToMovie(id int64) *Movie {
	return &Movie{ID: id, Title: r.Title, Year: r.Year, Actors: r.Actors}
}

// AssociateActorsRequest is the body of POST /movies/{id}/actors.
type AssociateActorsRequest struct {
	ActorIDs []int64 `json:"actor_ids" validate:"required,min=1,dive,gt=0"`
}
