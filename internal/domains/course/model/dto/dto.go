package dto

import (
	"campusroom/internal/domains/course/model"
	"campusroom/shared"
	gDto "campusroom/shared/dto"
	gModel "campusroom/shared/model"
	"campusroom/shared/timezone"

	"github.com/google/uuid"
)

type CreateCourseRequest struct {
	Code       string `json:"code"        validate:"required,max=20"`
	Name       string `json:"name"        validate:"required,max=150"`
	LecturerID string `json:"lecturer_id" validate:"required,uuid"`
	Semester   string `json:"semester"    validate:"omitempty,max=20"`
}

func (c *CreateCourseRequest) ToModel(user string) model.Course {
	return model.Course{
		ID:         uuid.NewString(),
		Code:       c.Code,
		Name:       c.Name,
		LecturerID: c.LecturerID,
		Semester:   c.Semester,
		Active:     true,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

type UpdateCourseRequest struct {
	Code       string `db:"code"        json:"code"        validate:"omitempty,max=20"`
	Name       string `db:"name"        json:"name"        validate:"omitempty,max=150"`
	LecturerID string `db:"lecturer_id" json:"lecturer_id" validate:"omitempty,uuid"`
	Semester   string `db:"semester"    json:"semester"    validate:"omitempty,max=20"`
	Active     *bool  `db:"active"      json:"active"      validate:"omitempty"`
}

type CourseResponse struct {
	ID         string `json:"id"`
	Code       string `json:"code"`
	Name       string `json:"name"`
	LecturerID string `json:"lecturer_id"`
	Semester   string `json:"semester"`
	Active     bool   `json:"active"`
	gDto.Metadata
}

func (r *CourseResponse) FromModel(model model.Course) {
	r.ID = model.ID
	r.Code = model.Code
	r.Name = model.Name
	r.LecturerID = model.LecturerID
	r.Semester = model.Semester
	r.Active = model.Active
	r.Metadata.FromModel(model.Metadata)
}

type GetCoursesResponse struct {
	Courses   []CourseResponse `json:"courses"`
	TotalPage int              `json:"total_page"`
	TotalData int              `json:"total_data"`
}

func (r *GetCoursesResponse) FromModels(models []model.Course, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Courses = make([]CourseResponse, len(models))
	for i, mod := range models {
		r.Courses[i].FromModel(mod)
	}
}
