package availability_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	otelMocks "hms/infras/otel/mocks"
	"hms/internal/domains/booking/mocks"
	"hms/internal/domains/booking/model/dto"
	"hms/internal/handlers/availability"
	"hms/shared/failure"
)

func TestHandler_GetAvailableRooms(t *testing.T) {
	tests := []struct {
		name      string
		target    string
		setupMock func(svc *mocks.MockAvailability)
		wantCode  int
		wantBody  string
		wantError bool
	}{
		{
			name:   "rooms for the stay",
			target: "/availability?checkin=2024-06-01&checkout=2024-06-05",
			setupMock: func(svc *mocks.MockAvailability) {
				svc.EXPECT().GetAvailableRooms(gomock.Any(), dto.AvailabilityRequest{Checkin: "2024-06-01", Checkout: "2024-06-05"}).
					Return(dto.AvailabilityResponse{Checkin: "2024-06-01", Checkout: "2024-06-05", Rooms: []int{2, 3}, Count: 2}, nil)
			},
			wantCode: http.StatusOK,
			wantBody: `{"data":{"checkin":"2024-06-01","checkout":"2024-06-05","rooms":[2,3],"count":2}}`,
		},
		{
			name:   "inverted range is a bad request",
			target: "/availability?checkin=2024-06-05&checkout=2024-06-01",
			setupMock: func(svc *mocks.MockAvailability) {
				svc.EXPECT().GetAvailableRooms(gomock.Any(), gomock.Any()).Return(dto.AvailabilityResponse{}, failure.InvalidDateRange)
			},
			wantCode:  http.StatusBadRequest,
			wantBody:  `{"error":"check-out date must be after check-in date"}`,
			wantError: true,
		},
		{
			name:   "storage failure is unavailable",
			target: "/availability?checkin=2024-06-01&checkout=2024-06-05",
			setupMock: func(svc *mocks.MockAvailability) {
				svc.EXPECT().GetAvailableRooms(gomock.Any(), gomock.Any()).
					Return(dto.AvailabilityResponse{}, failure.Unavailable(errors.New("connection refused")))
			},
			wantCode:  http.StatusServiceUnavailable,
			wantBody:  `{"error":"` + failure.MessageStorageUnavailable + `"}`,
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			svc := mocks.NewMockAvailability(ctrl)
			recorder := otelMocks.NewRecorder()
			router := chi.NewRouter()

			tt.setupMock(svc)

			handler := availability.New(svc, recorder)
			handler.Router(router)

			response := httptest.NewRecorder()
			router.ServeHTTP(response, httptest.NewRequest(http.MethodGet, tt.target, nil))

			assert.Equal(t, tt.wantCode, response.Code)
			assert.JSONEq(t, tt.wantBody, response.Body.String())

			span, found := recorder.Find("handler.GetAvailableRooms")
			require.True(t, found)

			if tt.wantError {
				assert.Len(t, span.Errors, 1)
			} else {
				assert.Empty(t, span.Errors)
			}
		})
	}
}
