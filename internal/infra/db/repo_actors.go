package db

import (
	"context"

	"gorm.io/gorm"

	"github.com/DanielD-Dev/capstone-fsnd-udacity2/internal/domain"
)

type ActorRepository struct {
	db *gorm.DB
}

func NewActorRepository(db *gorm.DB) *ActorRepository {
	return &ActorRepository{db: db}
}

func (r *ActorRepository) ListActors(ctx context.Context) ([]domain.Actor, error) {
	if r.db == nil {
		return nil, errDBUnavailable
	}
	var models []ActorModel
	if err := r.db.WithContext(ctx).Order("id").Find(&models).Error; err != nil {
		return nil, translateError(err)
	}
	out := make([]domain.Actor, 0, len(models))
	for _, m := range models {
		out = append(out, actorFromModel(m))
	}
	return out, nil
}

func (r *ActorRepository) GetActor(ctx context.Context, id uint) (domain.Actor, error) {
	if r.db == nil {
		return domain.Actor{}, errDBUnavailable
	}
	var model ActorModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return domain.Actor{}, translateError(err)
	}
	return actorFromModel(model), nil
}

func (r *ActorRepository) CreateActor(ctx context.Context, actor domain.Actor) (domain.Actor, error) {
	if r.db == nil {
		return domain.Actor{}, errDBUnavailable
	}
	model := ActorModel{Name: actor.Name, Age: actor.Age, Gender: actor.Gender}
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		return domain.Actor{}, translateError(err)
	}
	return actorFromModel(model), nil
}

func (r *ActorRepository) UpdateActor(ctx context.Context, actor domain.Actor) (domain.Actor, error) {
	if r.db == nil {
		return domain.Actor{}, errDBUnavailable
	}
	res := r.db.WithContext(ctx).Model(&ActorModel{}).Where("id = ?", actor.ID).Updates(map[string]any{
		"name":   actor.Name,
		"age":    actor.Age,
		"gender": actor.Gender,
	})
	if res.Error != nil {
		return domain.Actor{}, translateError(res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.Actor{}, domain.ErrNotFound
	}
	return r.GetActor(ctx, actor.ID)
}

func (r *ActorRepository) DeleteActor(ctx context.Context, id uint) error {
	if r.db == nil {
		return errDBUnavailable
	}
	res := r.db.WithContext(ctx).Delete(&ActorModel{}, id)
	if res.Error != nil {
		return translateError(res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
