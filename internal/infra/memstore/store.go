// Package memstore keeps movies and actors in process memory. It backs the
// service when no database is configured.
package memstore

import (
	"context"
	"sort"
	"sync"

	"github.com/DanielD-Dev/capstone-fsnd-udacity2/internal/domain"
)

type Store struct {
	mu          sync.RWMutex
	movies      map[uint]domain.Movie
	actors      map[uint]domain.Actor
	nextMovieID uint
	nextActorID uint
}

func New() *Store {
	return &Store{
		movies: map[uint]domain.Movie{},
		actors: map[uint]domain.Actor{},
	}
}

func (s *Store) ListMovies(_ context.Context) ([]domain.Movie, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Movie, 0, len(s.movies))
	for _, m := range s.movies {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) GetMovie(_ context.Context, id uint) (domain.Movie, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.movies[id]
	if !ok {
		return domain.Movie{}, domain.ErrNotFound
	}
	return m, nil
}

func (s *Store) CreateMovie(_ context.Context, movie domain.Movie) (domain.Movie, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextMovieID++
	movie.ID = s.nextMovieID
	s.movies[movie.ID] = movie
	return movie, nil
}

func (s *Store) UpdateMovie(_ context.Context, movie domain.Movie) (domain.Movie, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.movies[movie.ID]; !ok {
		return domain.Movie{}, domain.ErrNotFound
	}
	s.movies[movie.ID] = movie
	return movie, nil
}

func (s *Store) DeleteMovie(_ context.Context, id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.movies[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.movies, id)
	return nil
}

func (s *Store) ListActors(_ context.Context) ([]domain.Actor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Actor, 0, len(s.actors))
	for _, a := range s.actors {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) GetActor(_ context.Context, id uint) (domain.Actor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.actors[id]
	if !ok {
		return domain.Actor{}, domain.ErrNotFound
	}
	return a, nil
}

func (s *Store) CreateActor(_ context.Context, actor domain.Actor) (domain.Actor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextActorID++
	actor.ID = s.nextActorID
	s.actors[actor.ID] = actor
	return actor, nil
}

func (s *Store) UpdateActor(_ context.Context, actor domain.Actor) (domain.Actor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.actors[actor.ID]; !ok {
		return domain.Actor{}, domain.ErrNotFound
	}
	s.actors[actor.ID] = actor
	return actor, nil
}

func (s *Store) DeleteActor(_ context.Context, id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.actors[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.actors, id)
	return nil
}
