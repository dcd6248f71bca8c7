package model

import "campusroom/shared/model"

const (
	TableName  = "courses"
	EntityName = "course"

	FieldID         = "id"
	FieldCode       = "code"
	FieldName       = "name"
	FieldLecturerID = "lecturer_id"
	FieldSemester   = "semester"
	FieldActive     = "active"
)

type Course struct {
	ID   string `db:"id"`
	Code string `db:"code"`
	Name string `db:"name"`
	// LecturerID is the approver for this course's booking requests.
	LecturerID string `db:"lecturer_id"`
	Semester   string `db:"semester"`
	Active     bool   `db:"active"`
	model.Metadata
}
