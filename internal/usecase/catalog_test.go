package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DanielD-Dev/capstone-fsnd-udacity2/internal/domain"
	"github.com/DanielD-Dev/capstone-fsnd-udacity2/internal/infra/memstore"
)

func newCatalog() *CatalogService {
	store := memstore.New()
	return NewCatalogService(store, store)
}

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func TestCreateMovieValidates(t *testing.T) {
	svc := newCatalog()
	_, err := svc.CreateMovie(context.Background(), domain.Movie{Title: "  "})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	movie, err := svc.CreateMovie(context.Background(), domain.Movie{ID: 99, Title: " Heat ", ReleaseDate: time.Date(1995, 12, 15, 0, 0, 0, 0, time.UTC)})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if movie.ID != 1 || movie.Title != "Heat" {
		t.Fatalf("unexpected movie: %+v", movie)
	}
}

func TestUpdateMoviePartial(t *testing.T) {
	ctx := context.Background()
	svc := newCatalog()
	release := time.Date(1995, 12, 15, 0, 0, 0, 0, time.UTC)
	movie, err := svc.CreateMovie(ctx, domain.Movie{Title: "Heat", ReleaseDate: release})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	updated, err := svc.UpdateMovie(ctx, movie.ID, MoviePatch{Title: strPtr("Heat (Director's Cut)")})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Title != "Heat (Director's Cut)" || !updated.ReleaseDate.Equal(release) {
		t.Fatalf("unexpected movie: %+v", updated)
	}

	if _, err := svc.UpdateMovie(ctx, movie.ID, MoviePatch{}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected empty patch to fail validation, got %v", err)
	}
	if _, err := svc.UpdateMovie(ctx, 42, MoviePatch{Title: strPtr("x")}); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestActorLifecycle(t *testing.T) {
	ctx := context.Background()
	svc := newCatalog()

	if _, err := svc.CreateActor(ctx, domain.Actor{Name: "Val Kilmer", Age: 200, Gender: "male"}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	actor, err := svc.CreateActor(ctx, domain.Actor{Name: "Val Kilmer", Age: 35, Gender: "male"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	actor, err = svc.UpdateActor(ctx, actor.ID, ActorPatch{Age: intPtr(36)})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if actor.Age != 36 || actor.Name != "Val Kilmer" {
		t.Fatalf("unexpected actor: %+v", actor)
	}
	if err := svc.DeleteActor(ctx, actor.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := svc.GetActor(ctx, actor.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found after delete, got %v", err)
	}
	if err := svc.DeleteActor(ctx, 0); !errors.Is(err, domain.ErrInvalidArgument) {
		t.Fatalf("expected invalid argument, got %v", err)
	}
}
