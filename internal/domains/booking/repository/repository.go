package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"campusroom/infras/otel"
	"campusroom/infras/postgres"
	"campusroom/internal/domains/booking/model"
	"campusroom/shared/constant"
	gDto "campusroom/shared/dto"
	"campusroom/shared/failure"
	"campusroom/shared/logger"
	gRepo "campusroom/shared/repository"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
)

// QuotaCheck configures the per-course daily minute budget applied inside
// CreateChecked. Enforce is false for quota-exempt principals.
type QuotaCheck struct {
	Enforce      bool
	LimitMinutes int
}

type Booking interface {
	Insert(ctx context.Context, model model.Booking) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Booking, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Booking, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	Delete(ctx context.Context, filter gDto.FilterGroup) error

	// CreateChecked inserts the booking only if no pending or approved
	// booking overlaps it and the quota allows it, all inside one
	// transaction guarded by advisory locks.
	CreateChecked(ctx context.Context, booking model.Booking, quota QuotaCheck) error

	// HasConflict reports whether an active booking in the room overlaps
	// the window on the date. excludeBookingID, when non-empty, leaves one
	// booking out of the check so it can be re-validated against a new
	// window.
	HasConflict(ctx context.Context, roomID string, date, start, end time.Time, excludeBookingID string) (bool, error)
	SumBookedMinutes(ctx context.Context, courseID string, date time.Time) (int, error)
	CountByStatus(ctx context.Context, filter gDto.FilterGroup) (map[string]int, error)
	GetActiveByRoomAndDate(ctx context.Context, roomID string, date time.Time, statuses []string) ([]model.Booking, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Booking]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Booking {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Booking](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

const (
	queryOverlapExists = `
		SELECT EXISTS(
			SELECT 1 FROM bookings
			WHERE room_id = $1
			  AND booking_date = $2
			  AND status IN ('pending', 'approved')
			  AND start_time < $3
			  AND end_time > $4
			  AND ($5 = '' OR id::text <> $5)
		)`

	querySumBookedMinutes = `
		SELECT COALESCE(SUM(EXTRACT(EPOCH FROM (end_time - start_time)) / 60), 0)::int
		FROM bookings
		WHERE course_id = $1
		  AND booking_date = $2
		  AND status IN ('pending', 'approved')`

	queryAdvisoryLock = `SELECT pg_advisory_xact_lock(hashtext($1))`
)

func (repo *repositoryImpl) CreateChecked(ctx context.Context, booking model.Booking, quota QuotaCheck) (err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.CreateChecked")
	defer scope.End()
	defer scope.TraceIfError(err)

	tx, err := repo.db.Write.BeginTxx(ctx, nil)
	if err != nil {
		logger.ErrorWithStack(err)

		return failure.InternalError(fmt.Errorf("failed to begin booking transaction: %w", err)) // nolint:wrapcheck
	}

	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	date := booking.BookingDate.Format(constant.CalendarDayFormat)

	// Serialize writers on the same room-day and course-day. Lock order is
	// fixed (room first) so concurrent creates cannot deadlock.
	if _, err = tx.ExecContext(ctx, queryAdvisoryLock, booking.RoomID+":"+date); err != nil {
		logger.ErrorWithStack(err)

		return failure.InternalError(fmt.Errorf("failed to acquire room lock: %w", err)) // nolint:wrapcheck
	}

	if _, err = tx.ExecContext(ctx, queryAdvisoryLock, booking.CourseID+":"+date); err != nil {
		logger.ErrorWithStack(err)

		return failure.InternalError(fmt.Errorf("failed to acquire course lock: %w", err)) // nolint:wrapcheck
	}

	// Fail closed: a broken conflict check must never let a booking through.
	var overlaps bool
	err = tx.GetContext(ctx, &overlaps, queryOverlapExists, booking.RoomID, booking.BookingDate, booking.EndTime, booking.StartTime, booking.ID)
	if err != nil {
		logger.ErrorWithStack(err)

		return failure.InternalError(fmt.Errorf("conflict check failed: %w", err)) // nolint:wrapcheck
	}

	if overlaps {
		return failure.Conflict("room is already booked for the requested time") // nolint:wrapcheck
	}

	if quota.Enforce {
		var usedMinutes int

		err = tx.GetContext(ctx, &usedMinutes, querySumBookedMinutes, booking.CourseID, booking.BookingDate)
		if err != nil {
			logger.ErrorWithStack(err)

			return failure.InternalError(fmt.Errorf("quota check failed: %w", err)) // nolint:wrapcheck
		}

		if usedMinutes+booking.DurationMinutes() > quota.LimitMinutes {
			return failure.UnprocessableEntity(
				fmt.Sprintf("daily booking quota exceeded: %d of %d minutes already used", usedMinutes, quota.LimitMinutes),
			) // nolint:wrapcheck
		}
	}

	if err = repo.InsertTx(ctx, tx, booking); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == constant.PqErrorCodeExclusion {
			return failure.Conflict("room is already booked for the requested time") // nolint:wrapcheck
		}

		return err
	}

	if err = tx.Commit(); err != nil {
		logger.ErrorWithStack(err)

		return failure.InternalError(fmt.Errorf("failed to commit booking: %w", err)) // nolint:wrapcheck
	}

	return nil
}

func (repo *repositoryImpl) HasConflict(ctx context.Context, roomID string, date, start, end time.Time, excludeBookingID string) (conflict bool, err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.HasConflict")
	defer scope.End()
	defer scope.TraceIfError(err)

	err = repo.db.Read.GetContext(ctx, &conflict, queryOverlapExists, roomID, date, end, start, excludeBookingID)
	if err != nil {
		logger.ErrorWithStack(err)

		return false, fmt.Errorf("failed to check booking conflict: %w", err)
	}

	return conflict, nil
}

func (repo *repositoryImpl) SumBookedMinutes(ctx context.Context, courseID string, date time.Time) (minutes int, err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.SumBookedMinutes")
	defer scope.End()
	defer scope.TraceIfError(err)

	err = repo.db.Read.GetContext(ctx, &minutes, querySumBookedMinutes, courseID, date)
	if err != nil {
		logger.ErrorWithStack(err)

		return 0, fmt.Errorf("failed to sum booked minutes: %w", err)
	}

	return minutes, nil
}

func (repo *repositoryImpl) CountByStatus(ctx context.Context, filter gDto.FilterGroup) (counts map[string]int, err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.CountByStatus")
	defer scope.End()
	defer scope.TraceIfError(err)

	where, args := repo.BuildWhereClause(ctx, filter)

	query := fmt.Sprintf("SELECT status, COUNT(*) AS total FROM %s %s GROUP BY status", model.TableName, where)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	rows := []struct {
		Status string `db:"status"`
		Total  int    `db:"total"`
	}{}

	prepare, err := repo.db.Read.PrepareNamedContext(ctx, query)
	if err != nil {
		logger.ErrorWithStack(err)

		return nil, fmt.Errorf("failed to prepare statement (booking stats): %w", err)
	}
	defer prepare.Close()

	if err = prepare.SelectContext(ctx, &rows, args); err != nil {
		logger.ErrorWithStack(err)

		return nil, fmt.Errorf("failed to count bookings by status: %w", err)
	}

	counts = make(map[string]int, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Total
	}

	return counts, nil
}

func (repo *repositoryImpl) GetActiveByRoomAndDate(ctx context.Context, roomID string, date time.Time, statuses []string) ([]model.Booking, error) {
	filter := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldRoomID,
				Operator: gDto.FilterOperatorEq,
				Value:    roomID,
				Table:    model.TableName,
			},
			gDto.Filter{
				Field:    model.FieldBookingDate,
				Operator: gDto.FilterOperatorEq,
				Value:    date,
				Table:    model.TableName,
			},
			gDto.Filter{
				Field:    model.FieldStatus,
				Operator: gDto.FilterOperatorIn,
				Value:    statuses,
				Table:    model.TableName,
			},
		},
	}

	return repo.GetAll(ctx, gDto.QueryParams{}, filter) //nolint:wrapcheck
}
