package shared

import (
	"campusroom/shared/cache"
	"campusroom/shared/constant"
	"campusroom/shared/dto"
	"campusroom/shared/timezone"
	"context"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
)

func ConvertStringToInt(value string) (int, error) {
	parsed, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0, fmt.Errorf("converting %q to int: %w", value, err)
	}

	return parsed, nil
}

func ConvertStringToBool(value string) *bool {
	if value == "" {
		return nil
	}

	boolValue, err := strconv.ParseBool(value)
	if err != nil {
		log.Error().Err(err).Msg("failed to convert string to bool")

		return nil
	}

	return &boolValue
}

func CalculateTotalPage(total, limit int) (res int) {
	if total == 0 || limit <= 0 {
		res = 1
	} else {
		res = int(math.Ceil(float64(total) / float64(limit)))
	}

	return res
}

// TransformFields converts the fields of a struct into a map of updated fields.
func TransformFields(data interface{}, username string) map[string]any {
	val := reflect.ValueOf(data)
	typ := reflect.TypeOf(data)

	updatedFields := make(map[string]any)

	for index := range val.NumField() {
		field := val.Field(index)
		if field.IsZero() {
			continue
		}

		fieldName := typ.Field(index).Tag.Get("db")
		if fieldName == "" {
			continue
		}

		updatedFields[fieldName] = field.Interface()
	}

	updatedFields[constant.FieldModifiedAt] = timezone.Now()
	updatedFields[constant.FieldModifiedBy] = username

	return updatedFields
}

func FilterByID(id, fieldID, table string) dto.FilterGroup {
	return dto.FilterGroup{
		Filters: []any{
			dto.Filter{
				Field:    fieldID,
				Value:    id,
				Operator: dto.FilterOperatorEq,
				Table:    table,
			},
		},
	}
}

// BuildCacheKey composes a cache key from a prefix and its discriminating
// parts, e.g. BuildCacheKey("booking:get", id).
func BuildCacheKey(prefix string, parts ...string) string {
	if len(parts) == 0 {
		return prefix
	}

	return prefix + ":" + strings.Join(parts, ":")
}

// BuildCacheKeyWithQuery derives a deterministic cache key for list queries
// from the pagination params and filter group, so every distinct query gets
// its own entry under the shared prefix.
func BuildCacheKeyWithQuery(prefix string, params dto.QueryParams, filter dto.FilterGroup) string {
	var builder strings.Builder

	builder.WriteString(fmt.Sprintf("p=%d:l=%d", params.Page, params.Limit))

	if params.SortBy != "" {
		builder.WriteString(fmt.Sprintf(":s=%s.%s", params.SortBy, params.SortDir))
	}

	for _, entry := range filter.Filters {
		switch f := entry.(type) {
		case dto.Filter:
			builder.WriteString(fmt.Sprintf(":%s.%s=%v", f.Field, f.Operator, f.Value))
		case dto.FilterGroup:
			builder.WriteString(":(" + BuildCacheKeyWithQuery("", dto.QueryParams{}, f) + ")")
		}
	}

	return BuildCacheKey(prefix, builder.String())
}

// InvalidateCaches clears every cache entry under the given prefix. It is
// meant to run on a goroutine after a successful write, so failures are only
// logged.
func InvalidateCaches(ctx context.Context, redisCache cache.RedisCache, prefix string) {
	if err := redisCache.Clear(ctx, prefix+constant.Asterix); err != nil {
		log.Error().Err(err).Str("prefix", prefix).Msg("failed to invalidate cache")
	}
}
