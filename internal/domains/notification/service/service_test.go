package service_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"campusroom/config"
	"campusroom/infras/otel/mocks"
	notifMocks "campusroom/internal/domains/notification/mocks"
	"campusroom/internal/domains/notification/model"
	"campusroom/internal/domains/notification/service"
	"campusroom/permissions"
	gDto "campusroom/shared/dto"
	"campusroom/shared/failure"
)

type stubCache struct{}

func (stubCache) Save(context.Context, string, any, int) error { return nil }
func (stubCache) Get(context.Context, string, any) error       { return assert.AnError }
func (stubCache) Delete(context.Context, string) error         { return nil }
func (stubCache) Clear(context.Context, string) error          { return nil }

var recipient = permissions.Principal{UserID: "lecturer-1", Role: permissions.RoleLecturer}

func newService(t *testing.T) (*notifMocks.MockNotification, service.Notification) {
	t.Helper()

	ctrl := gomock.NewController(t)
	repo := notifMocks.NewMockNotification(ctrl)

	return repo, service.New(repo, &config.Config{}, stubCache{}, mocks.NewOtel())
}

func TestNotificationService_GetAll(t *testing.T) {
	repo, svc := newService(t)

	stored := model.Notification{
		ID:          "notif-1",
		RecipientID: "lecturer-1",
		BookingID:   "booking-1",
		EventType:   model.EventBookingCreated,
		Title:       "New booking request",
	}

	repo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(1, nil)
	repo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(1, nil)
	repo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return([]model.Notification{stored}, nil)

	res, err := svc.GetAll(context.Background(), recipient, gDto.QueryParams{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 1, res.TotalData)
	assert.Equal(t, 1, res.Unread)
	require.Len(t, res.Notifications, 1)
	assert.Equal(t, "notif-1", res.Notifications[0].ID)
}

func TestNotificationService_MarkRead(t *testing.T) {
	stored := model.Notification{
		ID:          "notif-1",
		RecipientID: "lecturer-1",
	}

	t.Run("recipient marks as read", func(t *testing.T) {
		repo, svc := newService(t)

		repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(stored, nil)
		repo.EXPECT().
			Update(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
				assert.Equal(t, true, fields[model.FieldRead])

				return nil
			})

		assert.NoError(t, svc.MarkRead(context.Background(), recipient, "notif-1"))
	})

	t.Run("already read is a no-op", func(t *testing.T) {
		repo, svc := newService(t)

		read := stored
		read.Read = true

		repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(read, nil)

		assert.NoError(t, svc.MarkRead(context.Background(), recipient, "notif-1"))
	})

	t.Run("someone else's notification is forbidden", func(t *testing.T) {
		repo, svc := newService(t)

		repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(stored, nil)

		err := svc.MarkRead(context.Background(), permissions.Principal{UserID: "rep-1", Role: permissions.RoleClassRep}, "notif-1")
		assert.Equal(t, http.StatusForbidden, failure.GetCode(err))
	})

	t.Run("unknown notification", func(t *testing.T) {
		repo, svc := newService(t)

		repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Notification{}, nil)

		err := svc.MarkRead(context.Background(), recipient, "missing")
		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})
}

func TestNotificationService_CreateFromEvent(t *testing.T) {
	repo, svc := newService(t)

	event := model.BookingEvent{
		Type:        model.EventBookingCreated,
		BookingID:   "booking-1",
		RoomName:    "Lecture Hall A",
		CourseName:  "Distributed Systems",
		BookedBy:    "rep-1",
		ApproverID:  "lecturer-1",
		ActorID:     "rep-1",
		BookingDate: "2026-09-10",
		StartTime:   "10:00",
		EndTime:     "12:00",
		Priority:    "medium",
	}

	repo.EXPECT().
		Insert(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, notification model.Notification) error {
			assert.NotEmpty(t, notification.ID)
			assert.Equal(t, "lecturer-1", notification.RecipientID)
			assert.Equal(t, model.EventBookingCreated, notification.EventType)
			assert.False(t, notification.CreatedAt.IsZero())

			return nil
		})

	assert.NoError(t, svc.CreateFromEvent(context.Background(), event))
}
