package shared

import (
	"context"
	"fmt"
	"hms/shared/cache"
	"hms/shared/constant"
	"hms/shared/dto"
	"hms/shared/timezone"
	"math"
	"reflect"
	"strings"

	"github.com/rs/zerolog/log"
)

func CalculateTotalPage(total, limit int) (res int) {
	if total == 0 || limit <= 0 {
		res = 1
	} else {
		res = int(math.Ceil(float64(total) / float64(limit)))
	}

	return res
}

// TransformFields converts the non zero `db` tagged fields of a struct into an update map
// and stamps modified_at.
func TransformFields(data interface{}) map[string]any {
	val := reflect.ValueOf(data)
	typ := reflect.TypeOf(data)

	updatedFields := make(map[string]any)

	for index := range val.NumField() {
		field := val.Field(index)
		if field.IsZero() {
			continue
		}

		fieldName := typ.Field(index).Tag.Get("db")
		if fieldName == "" || fieldName == "-" {
			continue
		}

		updatedFields[fieldName] = field.Interface()
	}

	updatedFields[constant.FieldModifiedAt] = timezone.Now()

	return updatedFields
}

func FilterByID(id any, fieldID, table string) dto.FilterGroup {
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

// BuildCacheKey joins the prefix and parts with ':'.
func BuildCacheKey(prefix string, parts ...any) string {
	var builder strings.Builder

	builder.WriteString(prefix)

	for _, part := range parts {
		builder.WriteString(":")
		builder.WriteString(fmt.Sprint(part))
	}

	return builder.String()
}

// BuildCacheKeyWithQuery derives a stable key from paging parameters and the rendered filter.
func BuildCacheKeyWithQuery(prefix string, params dto.QueryParams, filter dto.FilterGroup) string {
	where, args := filter.GetWhereClause()

	return BuildCacheKey(prefix, params.Page, params.Limit, params.SortBy, params.SortDir, where, fmt.Sprint(args))
}

// CacheGeneration returns the counter that versions every key under prefix. Readers put
// it in their keys, so an entry saved by a read that raced InvalidateCaches is never read
// back. ok is false when the counter cannot be read and the cache must be bypassed.
func CacheGeneration(ctx context.Context, redisCache cache.RedisCache, prefix string) (generation string, ok bool) {
	err := redisCache.Get(ctx, BuildCacheKey(prefix, constant.CacheKeyGeneration), &generation)

	switch {
	case err == nil:
		return generation, true
	case cache.IsMiss(err):
		return "0", true
	default:
		log.Warn().Err(err).Str("prefix", prefix).Msg("failed to read cache generation")

		return "", false
	}
}

// InvalidateCaches bumps the generation of prefix. When the bump fails the keys are
// deleted instead. Failures are logged only.
func InvalidateCaches(ctx context.Context, redisCache cache.RedisCache, prefix string) {
	_, err := redisCache.Incr(ctx, BuildCacheKey(prefix, constant.CacheKeyGeneration))
	if err == nil {
		return
	}

	log.Error().Err(err).Str("prefix", prefix).Msg("failed to bump cache generation")

	if err = redisCache.Clear(ctx, prefix+constant.Asterix); err != nil {
		log.Error().Err(err).Str("prefix", prefix).Msg("failed to invalidate caches")
	}
}
