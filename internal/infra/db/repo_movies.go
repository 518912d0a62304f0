package db

import (
	"context"

	"gorm.io/gorm"

	"github.com/DanielD-Dev/capstone-fsnd-udacity2/internal/domain"
)

type MovieRepository struct {
	db *gorm.DB
}

func NewMovieRepository(db *gorm.DB) *MovieRepository {
	return &MovieRepository{db: db}
}

func (r *MovieRepository) ListMovies(ctx context.Context) ([]domain.Movie, error) {
	if r.db == nil {
		return nil, errDBUnavailable
	}
	var models []MovieModel
	if err := r.db.WithContext(ctx).Order("id").Find(&models).Error; err != nil {
		return nil, translateError(err)
	}
	out := make([]domain.Movie, 0, len(models))
	for _, m := range models {
		out = append(out, movieFromModel(m))
	}
	return out, nil
}

func (r *MovieRepository) GetMovie(ctx context.Context, id uint) (domain.Movie, error) {
	if r.db == nil {
		return domain.Movie{}, errDBUnavailable
	}
	var model MovieModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return domain.Movie{}, translateError(err)
	}
	return movieFromModel(model), nil
}

func (r *MovieRepository) CreateMovie(ctx context.Context, movie domain.Movie) (domain.Movie, error) {
	if r.db == nil {
		return domain.Movie{}, errDBUnavailable
	}
	model := MovieModel{Title: movie.Title, ReleaseDate: movie.ReleaseDate}
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		return domain.Movie{}, translateError(err)
	}
	return movieFromModel(model), nil
}

func (r *MovieRepository) UpdateMovie(ctx context.Context, movie domain.Movie) (domain.Movie, error) {
	if r.db == nil {
		return domain.Movie{}, errDBUnavailable
	}
	res := r.db.WithContext(ctx).Model(&MovieModel{}).Where("id = ?", movie.ID).Updates(map[string]any{
		"title":        movie.Title,
		"release_date": movie.ReleaseDate,
	})
	if res.Error != nil {
		return domain.Movie{}, translateError(res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.Movie{}, domain.ErrNotFound
	}
	return r.GetMovie(ctx, movie.ID)
}

func (r *MovieRepository) DeleteMovie(ctx context.Context, id uint) error {
	if r.db == nil {
		return errDBUnavailable
	}
	res := r.db.WithContext(ctx).Delete(&MovieModel{}, id)
	if res.Error != nil {
		return translateError(res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
