package transaction

//go:generate go run go.uber.org/mock/mockgen -source=./transaction.go -destination=./mocks/transaction_mock.go -package=mocks

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"hms/config"
	"hms/infras/otel"
	"hms/infras/postgres"
	"hms/shared/constant"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/rs/zerolog/log"
)

const (
	otelScopeName = "transaction"
	retryBackoff  = 20 * time.Millisecond
)

// Func runs inside a transaction. Returning an error rolls the transaction back.
type Func func(ctx context.Context, tx *sqlx.Tx) error

// Manager hands a request-scoped transaction to the caller. Serialization failures and
// deadlocks are retried up to HOTEL_TX_MAX_RETRY times, so fn must be safe to run again.
type Manager interface {
	WithinSerializable(ctx context.Context, fn Func) error
	WithinTransaction(ctx context.Context, fn Func) error
}

type managerImpl struct {
	db       *postgres.Connection
	otel     otel.Otel
	maxRetry int
}

func New(db *postgres.Connection, cfg *config.Config, otel otel.Otel) Manager {
	return &managerImpl{
		db:       db,
		otel:     otel,
		maxRetry: cfg.Hotel.TxMaxRetry,
	}
}

func (m *managerImpl) WithinSerializable(ctx context.Context, fn Func) error {
	return m.within(ctx, sql.LevelSerializable, fn)
}

func (m *managerImpl) WithinTransaction(ctx context.Context, fn Func) error {
	return m.within(ctx, sql.LevelReadCommitted, fn)
}

func (m *managerImpl) within(ctx context.Context, level sql.IsolationLevel, fn Func) (err error) {
	ctx, scope := m.otel.NewScope(ctx, otelScopeName, otelScopeName+".within")
	defer scope.End()

	scope.SetAttribute("isolation", level.String())

	for attempt := 1; ; attempt++ {
		err = m.run(ctx, level, fn)
		if err == nil || !IsRetryable(err) || attempt >= m.maxRetry {
			break
		}

		log.Warn().Err(err).Int("attempt", attempt).Msg("transaction conflict, retrying")

		select {
		case <-ctx.Done():
			return fmt.Errorf("transaction retry aborted: %w", ctx.Err())
		case <-time.After(time.Duration(attempt) * retryBackoff):
		}
	}

	if err != nil {
		scope.TraceError(err)
	}

	return err
}

func (m *managerImpl) run(ctx context.Context, level sql.IsolationLevel, fn Func) (err error) {
	tx, err := m.db.Write.BeginTxx(ctx, &sql.TxOptions{Isolation: level})
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()

			panic(p)
		}
	}()

	if err = fn(ctx, tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			log.Error().Err(rbErr).Msg("failed to rollback transaction")
		}

		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// IsRetryable reports whether err is a serialization failure or a detected deadlock.
func IsRetryable(err error) bool {
	code := PqCode(err)

	return code == constant.PqErrorCodeSerializationFailure || code == constant.PqErrorCodeDeadlockDetected
}

// PqCode extracts the SQLSTATE of a wrapped *pq.Error, or "" when err is not one.
func PqCode(err error) string {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code)
	}

	return ""
}

// Constraint returns the violated constraint name of a wrapped *pq.Error.
func Constraint(err error) string {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Constraint
	}

	return ""
}
