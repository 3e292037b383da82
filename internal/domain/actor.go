package domain

// Actor is a person that can be linked to any number of movies.
type Actor struct {
	ID      int64  `json:"id" db:"id"`
	Name    string `json:"name" db:"name"`
	Surname string `json:"surname" db:"surname"`
}

// ActorRequest is the body of POST /actors and PUT /actors/{id}.
type ActorRequest struct {
	Name    string `json:"name" validate:"required,min=1,max=100"`
	Surname string `json:"surname" validate:"required,min=1,max=100"`
}

func (r ActorRequest) ToActor(id int64) *Actor {
	return &Actor{ID: id, Name: r.Name, Surname: r.Surname}
}
