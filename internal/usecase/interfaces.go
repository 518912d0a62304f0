package usecase

import (
	"context"

	"github.com/DanielD-Dev/capstone-fsnd-udacity2/internal/domain"
)

type MovieRepository interface {
	ListMovies(ctx context.Context) ([]domain.Movie, error)
	GetMovie(ctx context.Context, id uint) (domain.Movie, error)
	CreateMovie(ctx context.Context, movie domain.Movie) (domain.Movie, error)
	UpdateMovie(ctx context.Context, movie domain.Movie) (domain.Movie, error)
	DeleteMovie(ctx context.Context, id uint) error
}

type ActorRepository interface {
	ListActors(ctx context.Context) ([]domain.Actor, error)
	GetActor(ctx context.Context, id uint) (domain.Actor, error)
	CreateActor(ctx context.Context, actor domain.Actor) (domain.Actor, error)
	UpdateActor(ctx context.Context, actor domain.Actor) (domain.Actor, error)
	DeleteActor(ctx context.Context, id uint) error
}

// CredentialExtractor pulls the bearer token out of an Authorization header.
type CredentialExtractor func(header string) (string, error)

// AuthObserver records the outcome of each authorization decision. outcome
// is "ok" or the failing error kind.
type AuthObserver interface {
	ObserveAuthDecision(outcome string, status int)
}
