package db

import (
	"time"

	"github.com/DanielD-Dev/capstone-fsnd-udacity2/internal/domain"
)

type MovieModel struct {
	ID          uint      `gorm:"primaryKey"`
	Title       string    `gorm:"size:200;not null"`
	ReleaseDate time.Time `gorm:"not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (MovieModel) TableName() string { return "movies" }

type ActorModel struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"size:120;not null"`
	Age       int    `gorm:"not null"`
	Gender    string `gorm:"size:32;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (ActorModel) TableName() string { return "actors" }

func movieFromModel(m MovieModel) domain.Movie {
	return domain.Movie{ID: m.ID, Title: m.Title, ReleaseDate: m.ReleaseDate.UTC()}
}

func actorFromModel(m ActorModel) domain.Actor {
	return domain.Actor{ID: m.ID, Name: m.Name, Age: m.Age, Gender: m.Gender}
}
