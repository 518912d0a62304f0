package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/DanielD-Dev/capstone-fsnd-udacity2/internal/domain"
	"github.com/DanielD-Dev/capstone-fsnd-udacity2/internal/validation"
)

// CatalogService holds the movie and actor operations that run once a
// request has been authorized.
type CatalogService struct {
	Movies MovieRepository
	Actors ActorRepository
}

type MoviePatch struct {
	Title       *string
	ReleaseDate *time.Time
}

func (p MoviePatch) empty() bool {
	return p.Title == nil && p.ReleaseDate == nil
}

type ActorPatch struct {
	Name   *string
	Age    *int
	Gender *string
}

func (p ActorPatch) empty() bool {
	return p.Name == nil && p.Age == nil && p.Gender == nil
}

var errEmptyPatch = fmt.Errorf("%w: no fields to update", domain.ErrValidation)

func NewCatalogService(movies MovieRepository, actors ActorRepository) *CatalogService {
	return &CatalogService{Movies: movies, Actors: actors}
}

func (s *CatalogService) ListMovies(ctx context.Context) ([]domain.Movie, error) {
	return s.Movies.ListMovies(ctx)
}

func (s *CatalogService) GetMovie(ctx context.Context, id uint) (domain.Movie, error) {
	if id == 0 {
		return domain.Movie{}, domain.ErrInvalidArgument
	}
	return s.Movies.GetMovie(ctx, id)
}

func (s *CatalogService) CreateMovie(ctx context.Context, movie domain.Movie) (domain.Movie, error) {
	movie.ID = 0
	movie.Title = strings.TrimSpace(movie.Title)
	if err := validation.Struct(movie); err != nil {
		return domain.Movie{}, err
	}
	return s.Movies.CreateMovie(ctx, movie)
}

func (s *CatalogService) UpdateMovie(ctx context.Context, id uint, patch MoviePatch) (domain.Movie, error) {
	if patch.empty() {
		return domain.Movie{}, errEmptyPatch
	}
	movie, err := s.GetMovie(ctx, id)
	if err != nil {
		return domain.Movie{}, err
	}
	if patch.Title != nil {
		movie.Title = strings.TrimSpace(*patch.Title)
	}
	if patch.ReleaseDate != nil {
		movie.ReleaseDate = *patch.ReleaseDate
	}
	if err := validation.Struct(movie); err != nil {
		return domain.Movie{}, err
	}
	return s.Movies.UpdateMovie(ctx, movie)
}

func (s *CatalogService) DeleteMovie(ctx context.Context, id uint) error {
	if id == 0 {
		return domain.ErrInvalidArgument
	}
	return s.Movies.DeleteMovie(ctx, id)
}

func (s *CatalogService) ListActors(ctx context.Context) ([]domain.Actor, error) {
	return s.Actors.ListActors(ctx)
}

func (s *CatalogService) GetActor(ctx context.Context, id uint) (domain.Actor, error) {
	if id == 0 {
		return domain.Actor{}, domain.ErrInvalidArgument
	}
	return s.Actors.GetActor(ctx, id)
}

func (s *CatalogService) CreateActor(ctx context.Context, actor domain.Actor) (domain.Actor, error) {
	actor.ID = 0
	actor.Name = strings.TrimSpace(actor.Name)
	actor.Gender = strings.TrimSpace(actor.Gender)
	if err := validation.Struct(actor); err != nil {
		return domain.Actor{}, err
	}
	return s.Actors.CreateActor(ctx, actor)
}

func (s *CatalogService) UpdateActor(ctx context.Context, id uint, patch ActorPatch) (domain.Actor, error) {
	if patch.empty() {
		return domain.Actor{}, errEmptyPatch
	}
	actor, err := s.GetActor(ctx, id)
	if err != nil {
		return domain.Actor{}, err
	}
	if patch.Name != nil {
		actor.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.Age != nil {
		actor.Age = *patch.Age
	}
	if patch.Gender != nil {
		actor.Gender = strings.TrimSpace(*patch.Gender)
	}
	if err := validation.Struct(actor); err != nil {
		return domain.Actor{}, err
	}
	return s.Actors.UpdateActor(ctx, actor)
}

func (s *CatalogService) DeleteActor(ctx context.Context, id uint) error {
	if id == 0 {
		return domain.ErrInvalidArgument
	}
	return s.Actors.DeleteActor(ctx, id)
}
