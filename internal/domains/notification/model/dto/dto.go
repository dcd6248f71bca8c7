package dto

import (
	"campusroom/internal/domains/notification/model"
	"campusroom/shared"
	"campusroom/shared/constant"
	"campusroom/shared/timezone"
)

type NotificationResponse struct {
	ID        string `json:"id"`
	BookingID string `json:"booking_id"`
	EventType string `json:"event_type"`
	Title     string `json:"title"`
	Message   string `json:"message"`
	Read      bool   `json:"read"`
	CreatedAt string `json:"created_at"`
}

func (r *NotificationResponse) FromModel(model model.Notification) {
	r.ID = model.ID
	r.BookingID = model.BookingID
	r.EventType = model.EventType
	r.Title = model.Title
	r.Message = model.Message
	r.Read = model.Read
	r.CreatedAt = timezone.Format(model.CreatedAt, constant.DateFormat)
}

type GetNotificationsResponse struct {
	Notifications []NotificationResponse `json:"notifications"`
	TotalPage     int                    `json:"total_page"`
	TotalData     int                    `json:"total_data"`
	Unread        int                    `json:"unread"`
}

func (r *GetNotificationsResponse) FromModels(models []model.Notification, totalData, unread, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)
	r.Unread = unread

	r.Notifications = make([]NotificationResponse, len(models))
	for i, mod := range models {
		r.Notifications[i].FromModel(mod)
	}
}
