package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"hms/infras/metrics"
	"hms/infras/otel/mocks"
	bookingMocks "hms/internal/domains/booking/mocks"
	"hms/internal/domains/booking/service"
	cacheMocks "hms/shared/cache/mocks"
	gDto "hms/shared/dto"
	"hms/shared/timezone"
	txMocks "hms/shared/transaction/mocks"
)

func TestSweeper_Purge(t *testing.T) {
	t.Run("deletes checked out bookings past the retention window", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		mockRepo := bookingMocks.NewMockBooking(ctrl)
		mockTx := txMocks.NewMockManager(ctrl)
		mockCache := cacheMocks.NewMockRedisCache(ctrl)

		mockTx.EXPECT().WithinTransaction(gomock.Any(), gomock.Any()).DoAndReturn(runsTx)
		mockRepo.EXPECT().DeleteTx(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, _ *sqlx.Tx, filter gDto.FilterGroup) (int64, error) {
				where, args := filter.GetWhereClause()

				assert.Equal(t, "(bookings.status = :status AND bookings.checkout < :checkout)", where)
				assert.Equal(t, "checkedout", args["status"])
				// 2024-12-01 minus 183 days
				assert.Equal(t, "2024-06-01", args["checkout"])

				return 3, nil
			},
		)
		mockCache.EXPECT().Incr(gomock.Any(), "availability:generation").Return(int64(1), nil)
		mockCache.EXPECT().Incr(gomock.Any(), "records:generation").Return(int64(1), nil)

		sweeper := service.NewSweeper(mockRepo, mockTx, newConfig(), mockCache, metrics.NewNoop(), timezone.FixedClock(date("2024-12-01")), mocks.NewOtel())

		purged, err := sweeper.Purge(context.Background())

		require.NoError(t, err)
		assert.Equal(t, int64(3), purged)
	})

	t.Run("nothing to purge leaves the caches alone", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		mockRepo := bookingMocks.NewMockBooking(ctrl)
		mockTx := txMocks.NewMockManager(ctrl)

		mockTx.EXPECT().WithinTransaction(gomock.Any(), gomock.Any()).DoAndReturn(runsTx)
		mockRepo.EXPECT().DeleteTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(int64(0), nil)

		sweeper := service.NewSweeper(mockRepo, mockTx, newConfig(), cacheMocks.NewMockRedisCache(ctrl), metrics.NewNoop(), timezone.FixedClock(date("2024-12-01")), mocks.NewOtel())

		purged, err := sweeper.Purge(context.Background())

		require.NoError(t, err)
		assert.Zero(t, purged)
	})

	t.Run("failure is returned after rollback", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		mockTx := txMocks.NewMockManager(ctrl)

		mockTx.EXPECT().WithinTransaction(gomock.Any(), gomock.Any()).Return(errors.New("connection refused"))

		sweeper := service.NewSweeper(bookingMocks.NewMockBooking(ctrl), mockTx, newConfig(), cacheMocks.NewMockRedisCache(ctrl), metrics.NewNoop(), timezone.FixedClock(date("2024-12-01")), mocks.NewOtel())

		_, err := sweeper.Purge(context.Background())

		assert.Error(t, err)
	})
}

func TestSweeper_Run(t *testing.T) {
	t.Run("without an interval it purges once and returns", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		mockRepo := bookingMocks.NewMockBooking(ctrl)
		mockTx := txMocks.NewMockManager(ctrl)

		mockTx.EXPECT().WithinTransaction(gomock.Any(), gomock.Any()).DoAndReturn(runsTx).Times(1)
		mockRepo.EXPECT().DeleteTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(int64(0), nil)

		sweeper := service.NewSweeper(mockRepo, mockTx, newConfig(), cacheMocks.NewMockRedisCache(ctrl), metrics.NewNoop(), timezone.FixedClock(date("2024-12-01")), mocks.NewOtel())

		sweeper.Run(context.Background())
	})

	t.Run("with an interval it stops when the context is cancelled", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		mockRepo := bookingMocks.NewMockBooking(ctrl)
		mockTx := txMocks.NewMockManager(ctrl)

		mockTx.EXPECT().WithinTransaction(gomock.Any(), gomock.Any()).DoAndReturn(runsTx).MinTimes(1)
		mockRepo.EXPECT().DeleteTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(int64(0), nil).MinTimes(1)

		cfg := newConfig()
		cfg.Sweep.IntervalMinutes = 60

		sweeper := service.NewSweeper(mockRepo, mockTx, cfg, cacheMocks.NewMockRedisCache(ctrl), metrics.NewNoop(), timezone.FixedClock(date("2024-12-01")), mocks.NewOtel())

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan struct{})

		go func() {
			sweeper.Run(ctx)
			close(done)
		}()

		time.Sleep(50 * time.Millisecond)
		cancel()

		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("sweeper did not stop")
		}
	})
}
