package service_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"hms/config"
	"hms/infras/metrics"
	"hms/infras/otel/mocks"
	customerMocks "hms/internal/domains/customer/mocks"
	"hms/internal/domains/customer/model"
	"hms/internal/domains/customer/model/dto"
	"hms/internal/domains/customer/service"
	gDto "hms/shared/dto"
	"hms/shared/failure"
)

func validRequest() dto.UpsertCustomerRequest {
	return dto.UpsertCustomerRequest{
		Name:         "  asha rao ",
		Phone:        "9876543210",
		Address:      "12 MG ROAD, BENGALURU",
		GovtIDType:   "uid",
		GovtIDNumber: "123456789012",
	}
}

// sequence hands out the given ids in order.
func sequence(ids ...string) func() string {
	next := 0

	return func() string {
		id := ids[next%len(ids)]
		next++

		return id
	}
}

func newConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Hotel.CustomerIDMaxAttempts = 3

	return cfg
}

func TestCustomerService_Upsert(t *testing.T) {
	tests := []struct {
		name        string
		req         dto.UpsertCustomerRequest
		ids         []string
		setupMock   func(repo *customerMocks.MockCustomer)
		wantErrCode int
		wantResult  dto.CustomerResult
	}{
		{
			name: "new customer is created",
			req:  validRequest(),
			ids:  []string{"K9Z2Q"},
			setupMock: func(repo *customerMocks.MockCustomer) {
				repo.EXPECT().Get(gomock.Any(), gomock.Any(), model.FieldID).Return(model.Customer{}, false, nil)
				repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
				repo.EXPECT().Insert(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, customer model.Customer) error {
					assert.Equal(t, "K9Z2Q", customer.ID)
					assert.Equal(t, "Asha Rao", customer.Name)
					assert.Equal(t, "12 mg road, bengaluru", customer.Address)
					assert.Equal(t, "UID", customer.GovtIDType)
					assert.Equal(t, "1234 5678 9012", customer.GovtIDNumber)

					return nil
				})
			},
			wantResult: dto.CustomerResult{Success: true, Outcome: model.OutcomeCreated, Message: "customer registered", CustomerID: "K9Z2Q"},
		},
		{
			name: "existing govt id returns the stored id",
			req:  validRequest(),
			ids:  []string{"UNUSED"},
			setupMock: func(repo *customerMocks.MockCustomer) {
				repo.EXPECT().Get(gomock.Any(), gomock.Any(), model.FieldID).Return(model.Customer{ID: "AB12C"}, true, nil)
			},
			wantResult: dto.CustomerResult{Success: true, Outcome: model.OutcomeAlreadyExists, Message: "customer already registered", CustomerID: "AB12C"},
		},
		{
			name: "taken candidate is skipped",
			req:  validRequest(),
			ids:  []string{"AAAAA", "BBBBB"},
			setupMock: func(repo *customerMocks.MockCustomer) {
				repo.EXPECT().Get(gomock.Any(), gomock.Any(), model.FieldID).Return(model.Customer{}, false, nil)
				repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
				repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
				repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(nil)
			},
			wantResult: dto.CustomerResult{Success: true, Outcome: model.OutcomeCreated, Message: "customer registered", CustomerID: "BBBBB"},
		},
		{
			name: "primary key race retries with a new candidate",
			req:  validRequest(),
			ids:  []string{"AAAAA", "BBBBB"},
			setupMock: func(repo *customerMocks.MockCustomer) {
				repo.EXPECT().Get(gomock.Any(), gomock.Any(), model.FieldID).Return(model.Customer{}, false, nil)
				repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil).Times(2)
				gomock.InOrder(
					repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(
						fmt.Errorf("failed to insert data (customer): %w", &pq.Error{Code: "23505", Constraint: model.ConstraintPrimaryKey}),
					),
					repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(nil),
				)
			},
			wantResult: dto.CustomerResult{Success: true, Outcome: model.OutcomeCreated, Message: "customer registered", CustomerID: "BBBBB"},
		},
		{
			name: "concurrent insert of the same govt id is a conflict",
			req:  validRequest(),
			ids:  []string{"AAAAA"},
			setupMock: func(repo *customerMocks.MockCustomer) {
				repo.EXPECT().Get(gomock.Any(), gomock.Any(), model.FieldID).Return(model.Customer{}, false, nil)
				repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
				repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(
					&pq.Error{Code: "23505", Constraint: model.ConstraintGovtID},
				)
			},
			wantResult: dto.CustomerResult{Success: false, Outcome: model.OutcomeConflict, Message: "customer with this government id was registered concurrently"},
		},
		{
			name: "every candidate taken is an internal error",
			req:  validRequest(),
			ids:  []string{"AAAAA"},
			setupMock: func(repo *customerMocks.MockCustomer) {
				repo.EXPECT().Get(gomock.Any(), gomock.Any(), model.FieldID).Return(model.Customer{}, false, nil)
				repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil).Times(3)
			},
			wantErrCode: http.StatusInternalServerError,
		},
		{
			name: "invalid phone is rejected before storage",
			req: func() dto.UpsertCustomerRequest {
				req := validRequest()
				req.Phone = "98765"

				return req
			}(),
			ids:         []string{"AAAAA"},
			setupMock:   func(_ *customerMocks.MockCustomer) {},
			wantErrCode: http.StatusBadRequest,
		},
		{
			name: "unknown govt id type is rejected",
			req: func() dto.UpsertCustomerRequest {
				req := validRequest()
				req.GovtIDType = "PAN"

				return req
			}(),
			ids:         []string{"AAAAA"},
			setupMock:   func(_ *customerMocks.MockCustomer) {},
			wantErrCode: http.StatusBadRequest,
		},
		{
			name: "storage failure is reported as unavailable",
			req:  validRequest(),
			ids:  []string{"AAAAA"},
			setupMock: func(repo *customerMocks.MockCustomer) {
				repo.EXPECT().Get(gomock.Any(), gomock.Any(), model.FieldID).Return(model.Customer{}, false, errors.New("connection refused"))
			},
			wantErrCode: http.StatusServiceUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockRepo := customerMocks.NewMockCustomer(ctrl)
			tt.setupMock(mockRepo)

			svc := service.NewWithIDGenerator(mockRepo, newConfig(), metrics.NewNoop(), mocks.NewOtel(), sequence(tt.ids...))

			res, err := svc.Upsert(context.Background(), tt.req)

			if tt.wantErrCode != 0 {
				require.Error(t, err)
				assert.Equal(t, tt.wantErrCode, failure.GetCode(err))

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantResult, res)
		})
	}
}

func TestCustomerService_UpsertIsIdempotent(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := customerMocks.NewMockCustomer(ctrl)
	stored := map[string]model.Customer{}

	mockRepo.EXPECT().Get(gomock.Any(), gomock.Any(), model.FieldID).DoAndReturn(
		func(_ context.Context, _ gDto.FilterGroup, _ ...string) (model.Customer, bool, error) {
			for _, customer := range stored {
				return customer, true, nil
			}

			return model.Customer{}, false, nil
		},
	).Times(2)
	mockRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
	mockRepo.EXPECT().Insert(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, customer model.Customer) error {
		stored[customer.ID] = customer

		return nil
	})

	svc := service.NewWithIDGenerator(mockRepo, newConfig(), metrics.NewNoop(), mocks.NewOtel(), sequence("Q1W2E"))

	first, err := svc.Upsert(context.Background(), validRequest())
	require.NoError(t, err)

	second, err := svc.Upsert(context.Background(), validRequest())
	require.NoError(t, err)

	assert.Equal(t, model.OutcomeCreated, first.Outcome)
	assert.Equal(t, model.OutcomeAlreadyExists, second.Outcome)
	assert.Equal(t, first.CustomerID, second.CustomerID)
}

func TestCustomerService_Get(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := customerMocks.NewMockCustomer(ctrl)
	svc := service.New(mockRepo, newConfig(), metrics.NewNoop(), mocks.NewOtel())

	t.Run("found", func(t *testing.T) {
		mockRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Customer{
			ID:           "K9Z2Q",
			Name:         "Asha Rao",
			GovtIDType:   "PSP",
			GovtIDNumber: "A-1234567",
		}, true, nil)

		res, err := svc.Get(context.Background(), "K9Z2Q")

		require.NoError(t, err)
		assert.Equal(t, "K9Z2Q", res.ID)
		assert.Equal(t, "A-1234567", res.GovtIDNumber)
	})

	t.Run("unknown id", func(t *testing.T) {
		mockRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Customer{}, false, nil)

		_, err := svc.Get(context.Background(), "ZZZZZ")

		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})

	t.Run("malformed id", func(t *testing.T) {
		_, err := svc.Get(context.Background(), "abc")

		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})
}
