package service

import (
	"context"
	"hms/config"
	"hms/infras/metrics"
	"hms/infras/otel"
	"hms/internal/domains/booking/model"
	"hms/internal/domains/booking/repository"
	"hms/shared"
	"hms/shared/cache"
	"hms/shared/constant"
	gDto "hms/shared/dto"
	"hms/shared/timezone"
	"hms/shared/transaction"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

// Sweeper deletes checked-out bookings older than the retention window.
type Sweeper interface {
	Purge(ctx context.Context) (int64, error)
	// Run purges once, then on every tick of the configured interval until ctx is done.
	Run(ctx context.Context)
}

type sweeperImpl struct {
	repo    repository.Booking
	tx      transaction.Manager
	cfg     *config.Config
	cache   cache.RedisCache
	metrics metrics.Metrics
	clock   timezone.Clock
	otel    otel.Otel
}

func NewSweeper(
	repo repository.Booking,
	tx transaction.Manager,
	cfg *config.Config,
	cache cache.RedisCache,
	metrics metrics.Metrics,
	clock timezone.Clock,
	otel otel.Otel,
) Sweeper {
	return &sweeperImpl{
		repo:    repo,
		tx:      tx,
		cfg:     cfg,
		cache:   cache,
		metrics: metrics,
		clock:   clock,
		otel:    otel,
	}
}

func (s *sweeperImpl) cutoff() time.Time {
	return s.clock.Today().AddDate(0, 0, -s.cfg.Hotel.RetentionDays)
}

func purgeFilter(cutoff time.Time) gDto.FilterGroup {
	return gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldStatus,
				Value:    model.StatusCheckedOut.String(),
				Operator: gDto.FilterOperatorEq,
				Table:    model.TableName,
			},
			gDto.Filter{
				Field:    model.FieldCheckout,
				Value:    cutoff.Format(constant.CalendarDate),
				Operator: gDto.FilterOperatorLess,
				Table:    model.TableName,
			},
		},
	}
}

func (s *sweeperImpl) Purge(ctx context.Context) (purged int64, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Purge")
	defer scope.End()

	cutoff := s.cutoff()

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context, tx *sqlx.Tx) error {
		var err error

		purged, err = s.repo.DeleteTx(ctx, tx, purgeFilter(cutoff))

		return err //nolint:wrapcheck
	})
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Time("cutoff", cutoff).Msg("retention sweep failed, rolled back")

		return 0, err //nolint:wrapcheck
	}

	s.metrics.SweepPurged(purged)

	if purged > 0 {
		shared.InvalidateCaches(ctx, s.cache, constant.CacheKeyAvailability)
		shared.InvalidateCaches(ctx, s.cache, constant.CacheKeyRecords)
	}

	log.Info().Int64("purged", purged).Str("cutoff", cutoff.Format(constant.CalendarDate)).Msg("retention sweep finished")

	return purged, nil
}

func (s *sweeperImpl) Run(ctx context.Context) {
	_, _ = s.Purge(ctx)

	if s.cfg.Sweep.IntervalMinutes <= 0 {
		return
	}

	ticker := time.NewTicker(time.Duration(s.cfg.Sweep.IntervalMinutes) * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("retention sweeper stopped")

			return
		case <-ticker.C:
			_, _ = s.Purge(ctx)
		}
	}
}
