package db

import (
	"context"
	"errors"
	"testing"

	"gorm.io/gorm"

	"github.com/DanielD-Dev/capstone-fsnd-udacity2/internal/config"
	"github.com/DanielD-Dev/capstone-fsnd-udacity2/internal/domain"
)

func TestNoDBMode(t *testing.T) {
	store, err := NewStore(config.Config{})
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	if store.Enabled() {
		t.Fatal("expected no-db mode without a DSN")
	}
	if err := store.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := store.Ping(context.Background()); !errors.Is(err, domain.ErrUnavailable) {
		t.Fatalf("expected unavailable ping, got %v", err)
	}
}

func TestRepositoriesWithoutDB(t *testing.T) {
	ctx := context.Background()
	movies := NewMovieRepository(nil)
	actors := NewActorRepository(nil)

	if _, err := movies.ListMovies(ctx); !errors.Is(err, domain.ErrUnavailable) {
		t.Fatalf("expected unavailable, got %v", err)
	}
	if err := movies.DeleteMovie(ctx, 1); !errors.Is(err, domain.ErrUnavailable) {
		t.Fatalf("expected unavailable, got %v", err)
	}
	if _, err := actors.CreateActor(ctx, domain.Actor{Name: "x"}); !errors.Is(err, domain.ErrUnavailable) {
		t.Fatalf("expected unavailable, got %v", err)
	}
}

func TestTranslateError(t *testing.T) {
	if err := translateError(gorm.ErrRecordNotFound); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if err := translateError(errors.New("conn reset")); !errors.Is(err, domain.ErrUnavailable) {
		t.Fatalf("expected unavailable, got %v", err)
	}
	if translateError(nil) != nil {
		t.Fatal("nil must stay nil")
	}
}
