package model

import (
	"campusroom/shared/model"

	"github.com/lib/pq"
)

const (
	TableName  = "rooms"
	EntityName = "room"

	FieldID         = "id"
	FieldName       = "name"
	FieldBuilding   = "building"
	FieldCapacity   = "capacity"
	FieldRoomType   = "room_type"
	FieldFacilities = "facilities"
	FieldImage      = "image"
	FieldActive     = "active"
)

const (
	RoomTypeClassroom  = "classroom"
	RoomTypeLab        = "lab"
	RoomTypeAuditorium = "auditorium"
)

type Room struct {
	ID         string         `db:"id"`
	Name       string         `db:"name"`
	Building   string         `db:"building"`
	Capacity   int            `db:"capacity"`
	RoomType   string         `db:"room_type"`
	Facilities pq.StringArray `db:"facilities"`
	Image      string         `db:"image"`
	Active     bool           `db:"active"`
	model.Metadata
}
