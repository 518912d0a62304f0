package domain

import "time"

type Movie struct {
	ID          uint      `json:"id"`
	Title       string    `json:"title" validate:"required,max=200"`
	ReleaseDate time.Time `json:"release_date" validate:"required"`
}

type Actor struct {
	ID     uint   `json:"id"`
	Name   string `json:"name" validate:"required,max=120"`
	Age    int    `json:"age" validate:"gte=0,lte=150"`
	Gender string `json:"gender" validate:"required,max=32"`
}

const (
	PermGetMovies    = "get:movies"
	PermPostMovies   = "post:movies"
	PermPatchMovies  = "patch:movies"
	PermDeleteMovies = "delete:movies"
	PermGetActors    = "get:actors"
	PermPostActors   = "post:actors"
	PermPatchActors  = "patch:actors"
	PermDeleteActors = "delete:actors"
)
