package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"campusroom/infras/otel"
	"campusroom/infras/postgres"
	"campusroom/internal/domains/course/model"
	gDto "campusroom/shared/dto"
	gRepo "campusroom/shared/repository"
	"context"
)

type Course interface {
	Insert(ctx context.Context, model model.Course) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Course, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Course, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	Delete(ctx context.Context, filter gDto.FilterGroup) error
}

type repositoryImpl struct {
	gRepo.Repository[model.Course]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Course {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Course](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}
