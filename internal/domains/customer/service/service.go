package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks -mock_names=Customer=MockCustomerService

import (
	"context"
	"errors"
	"fmt"
	"hms/config"
	"hms/infras/metrics"
	"hms/infras/otel"
	"hms/internal/domains/customer/model"
	"hms/internal/domains/customer/model/dto"
	"hms/internal/domains/customer/repository"
	"hms/shared"
	"hms/shared/constant"
	"hms/shared/failure"
	"hms/shared/identity"
	"hms/shared/logger"
	"hms/shared/timezone"
	"hms/shared/transaction"
	"hms/shared/validator"
)

var errCustomerIDExhausted = errors.New("no unused customer id found")

type Customer interface {
	Upsert(ctx context.Context, req dto.UpsertCustomerRequest) (dto.CustomerResult, error)
	Get(ctx context.Context, id string) (dto.CustomerResponse, error)
}

type serviceImpl struct {
	repo       repository.Customer
	cfg        *config.Config
	metrics    metrics.Metrics
	otel       otel.Otel
	generateID func() string
}

func New(repo repository.Customer, cfg *config.Config, metrics metrics.Metrics, otel otel.Otel) Customer {
	return NewWithIDGenerator(repo, cfg, metrics, otel, identity.GenerateCustomerID)
}

// NewWithIDGenerator lets callers control candidate ids, e.g. to force collisions.
func NewWithIDGenerator(repo repository.Customer, cfg *config.Config, metrics metrics.Metrics, otel otel.Otel, generateID func() string) Customer {
	return &serviceImpl{
		repo:       repo,
		cfg:        cfg,
		metrics:    metrics,
		otel:       otel,
		generateID: generateID,
	}
}

// Upsert registers a customer keyed by government id. An existing pair returns its id with
// ALREADY_EXISTS; a concurrent insert of the same pair yields CONFLICT.
func (s *serviceImpl) Upsert(ctx context.Context, req dto.UpsertCustomerRequest) (res dto.CustomerResult, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".customer.Upsert")
	defer scope.End()

	req.Normalize()

	if err = validator.ValidateStruct(&req); err != nil {
		return res, err
	}

	req.GovtIDNumber = identity.FormatGovtID(req.GovtIDType, req.GovtIDNumber)

	existing, found, err := s.repo.Get(ctx, repository.FilterByGovtID(req.GovtIDType, req.GovtIDNumber), model.FieldID)
	if err != nil {
		scope.TraceError(err)
		logger.Ctx(ctx).Error().Err(err).Msg("failed to look up customer by govt id")

		return res, failure.Unavailable(err)
	}

	if found {
		return s.result(true, model.OutcomeAlreadyExists, "customer already registered", existing.ID), nil
	}

	for attempt := 1; attempt <= s.cfg.Hotel.CustomerIDMaxAttempts; attempt++ {
		candidate := s.generateID()

		taken, err := s.repo.Exist(ctx, shared.FilterByID(candidate, model.FieldID, model.TableName))
		if err != nil {
			scope.TraceError(err)
			logger.Ctx(ctx).Error().Err(err).Msg("failed to check customer id")

			return res, failure.Unavailable(err)
		}

		if taken {
			continue
		}

		err = s.repo.Insert(ctx, req.ToModel(candidate, timezone.Now()))
		if err == nil {
			return s.result(true, model.OutcomeCreated, "customer registered", candidate), nil
		}

		if transaction.PqCode(err) == constant.PqErrorCodeUniqueViolation {
			switch transaction.Constraint(err) {
			case model.ConstraintPrimaryKey:
				logger.Ctx(ctx).Warn().Str("candidate", candidate).Msg("customer id taken concurrently, retrying")

				continue
			case model.ConstraintGovtID:
				return s.result(false, model.OutcomeConflict, "customer with this government id was registered concurrently", ""), nil
			}
		}

		scope.TraceError(err)
		logger.Ctx(ctx).Error().Err(err).Msg("failed to insert customer")

		return res, failure.Unavailable(err)
	}

	err = fmt.Errorf("%w after %d attempts", errCustomerIDExhausted, s.cfg.Hotel.CustomerIDMaxAttempts)
	scope.TraceError(err)

	return res, failure.InternalError(err)
}

func (s *serviceImpl) result(success bool, outcome, message, id string) dto.CustomerResult {
	s.metrics.CustomerOutcome(outcome)

	return dto.CustomerResult{
		Success:    success,
		Outcome:    outcome,
		Message:    message,
		CustomerID: id,
	}
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.CustomerResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".customer.Get")
	defer scope.End()

	if err = validator.ValidateVar(id, "required,customerid"); err != nil {
		return res, err
	}

	customer, found, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		scope.TraceError(err)

		return res, failure.Unavailable(err)
	}

	if !found {
		return res, failure.NotFound("customer not found")
	}

	res.FromModel(customer)

	return res, nil
}
