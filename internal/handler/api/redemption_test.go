//go:build unit

package api_test

import (
	"net/http"
	"testing"
	"time"

	"cng-slot-booking/internal/domain/scan"
	"cng-slot-booking/internal/domain/user"
	"cng-slot-booking/internal/handler/api"
	resdto "cng-slot-booking/internal/handler/dto/response"
	"cng-slot-booking/internal/pkg/errs"
	"cng-slot-booking/internal/usecase/commands"
	"cng-slot-booking/tests/common/builder"
	"cng-slot-booking/tests/common/httptest"
	commandsmock "cng-slot-booking/tests/mock/commands"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type RedemptionHandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	mockCtrl     *gomock.Controller
	mockCommands *commandsmock.MockRedemptionCommands
	handler      *api.RedemptionHandler
	staffID      uuid.UUID
	pumpID       uuid.UUID
}

func (s *RedemptionHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockCommands = commandsmock.NewMockRedemptionCommands(s.mockCtrl)
	s.handler = api.NewRedemptionHandler(s.mockCommands)
	s.staffID = uuid.New()
	s.pumpID = uuid.New()

	// identity is set only when a token is sent, so the handler's own 401 path stays reachable
	identity := func(c *gin.Context) {
		if c.GetHeader("Authorization") != "" {
			c.Set("user_id", s.staffID)
			c.Set("user_role", user.RolePumpAdmin)
		}
		c.Next()
	}
	s.router.POST("/tokens/redeem", identity, s.handler.Redeem)
}

func (s *RedemptionHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestRedemptionHandlerSuite(t *testing.T) {
	suite.Run(t, new(RedemptionHandlerTestSuite))
}

func (s *RedemptionHandlerTestSuite) body(tokenCode any) map[string]any {
	return map[string]any{"tokenCode": tokenCode, "pumpId": s.pumpID.String()}
}

func (s *RedemptionHandlerTestSuite) expectRedeem(code string, result *commands.RedemptionResult, err error) {
	s.mockCommands.EXPECT().Redeem(gomock.Any(),
		commands.Actor{UserID: s.staffID, Role: user.RolePumpAdmin},
		commands.RedeemTokenRequest{Code: code, PumpID: s.pumpID}).
		Return(result, err).Times(1)
}

func (s *RedemptionHandlerTestSuite) TestRedeem_Success() {
	snap := builder.NewBookingBuilder().WithPump(s.pumpID).WithStatus("completed").BuildSnapshot()
	tokenID := uuid.New()
	success := &commands.RedemptionResult{Result: scan.ResultSuccess, TokenID: &tokenID, Booking: &snap}

	s.Run("raw code", func() {
		s.expectRedeem("CNG-AB3XK9", success, nil)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/tokens/redeem", s.body("CNG-AB3XK9"), "bearer-token")

		var resp resdto.RedeemSuccessResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &resp)
		s.True(resp.Success)
		s.Equal("Token verified successfully", resp.Message)
		s.Require().NotNil(resp.Booking)
		s.Equal(snap.ID, resp.Booking.ID)
		s.Equal("10.50", resp.Booking.FuelQuantity)
		s.Equal("892.50", resp.Booking.Amount)
		s.Equal("Test Customer", resp.Booking.CustomerName)
		s.Equal("KA01AB1234", resp.Booking.VehicleNumber)
	})

	s.Run("missing profile fields get placeholders", func() {
		bare := snap
		bare.CustomerName = ""
		bare.VehicleNumber = nil
		empty := ""
		bare.Phone = &empty
		s.expectRedeem("CNG-AB3XK9", &commands.RedemptionResult{Result: scan.ResultSuccess, TokenID: &tokenID, Booking: &bare}, nil)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/tokens/redeem", s.body("CNG-AB3XK9"), "bearer-token")

		var resp resdto.RedeemSuccessResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &resp)
		s.Require().NotNil(resp.Booking)
		s.Equal("Unknown", resp.Booking.CustomerName)
		s.Equal("N/A", resp.Booking.VehicleNumber)
		s.Equal("N/A", resp.Booking.Phone)
	})

	s.Run("JSON envelope text from the QR", func() {
		s.expectRedeem("CNG-AB3XK9", success, nil)

		envelope := `{"bookingId":"` + snap.ID.String() + `","tokenCode":"CNG-AB3XK9"}`
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/tokens/redeem", s.body(envelope), "bearer-token")
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, nil)
	})

	s.Run("inline JSON envelope object", func() {
		s.expectRedeem("CNG-AB3XK9", success, nil)

		envelope := map[string]any{"bookingId": snap.ID.String(), "tokenCode": "CNG-AB3XK9"}
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/tokens/redeem", s.body(envelope), "bearer-token")
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, nil)
	})
}

func (s *RedemptionHandlerTestSuite) TestRedeem_FailureOutcomes() {
	earliest := time.Date(2024, 6, 1, 14, 15, 0, 0, time.FixedZone("IST", 19800))

	testCases := []struct {
		name           string
		result         scan.Result
		earliest       *time.Time
		expectedStatus int
		expectedMsg    string
	}{
		{"invalid format", scan.ResultInvalidFormat, nil, http.StatusBadRequest, "Invalid token format"},
		{"unauthorized pump", scan.ResultUnauthorizedPump, nil, http.StatusForbidden, "Not authorized for this pump"},
		{"not found", scan.ResultNotFound, nil, http.StatusNotFound, "Token not found"},
		{"wrong pump", scan.ResultWrongPump, nil, http.StatusBadRequest, "Token not valid for this pump"},
		{"already used", scan.ResultAlreadyUsed, nil, http.StatusBadRequest, "Token already used"},
		{"expired", scan.ResultExpired, nil, http.StatusBadRequest, "Token has expired"},
		{"too early", scan.ResultTooEarly, &earliest, http.StatusBadRequest, "Token not yet valid. Scan after 14:15"},
		{"race lost", scan.ResultRaceCondition, nil, http.StatusBadRequest, "Token already used or expired"},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			s.expectRedeem("CNG-AB3XK9", &commands.RedemptionResult{Result: tc.result, EarliestValidAt: tc.earliest}, nil)

			rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/tokens/redeem", s.body("CNG-AB3XK9"), "bearer-token")
			httptest.AssertEnvelopeError(s.T(), rec, tc.expectedStatus, tc.expectedMsg)

			var resp resdto.RedeemFailureResponse
			s.Require().NoError(httptest.DecodeResponseBody(s.T(), rec.Body, &resp))
			s.Equal(tc.result.String(), resp.Result)
		})
	}
}

func (s *RedemptionHandlerTestSuite) TestRedeem_Malformed() {
	s.Run("a garbage code still reaches the use case for auditing", func() {
		s.expectRedeem("hello", &commands.RedemptionResult{Result: scan.ResultInvalidFormat}, nil)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/tokens/redeem", s.body("hello"), "bearer-token")
		httptest.AssertEnvelopeError(s.T(), rec, http.StatusBadRequest, "Invalid token format")
	})

	s.Run("a numeric code is decoded from its JSON text", func() {
		s.expectRedeem("123456", &commands.RedemptionResult{Result: scan.ResultInvalidFormat}, nil)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/tokens/redeem", s.body(123456), "bearer-token")
		httptest.AssertEnvelopeError(s.T(), rec, http.StatusBadRequest, "Invalid token format")
	})

	s.Run("an unparsable pump id is rejected before the use case", func() {
		body := map[string]any{"tokenCode": "CNG-AB3XK9", "pumpId": "pump-7"}
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/tokens/redeem", body, "bearer-token")
		httptest.AssertEnvelopeError(s.T(), rec, http.StatusBadRequest, "Invalid pump id")
	})

	s.Run("a body that is not JSON", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/tokens/redeem", "CNG-AB3XK9", "bearer-token")
		httptest.AssertEnvelopeError(s.T(), rec, http.StatusBadRequest, "Invalid request format")
	})
}

func (s *RedemptionHandlerTestSuite) TestRedeem_Errors() {
	s.Run("401 without an identity, and the use case is not called", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/tokens/redeem", s.body("CNG-AB3XK9"), "")
		httptest.AssertEnvelopeError(s.T(), rec, http.StatusUnauthorized, "Unauthorized")
	})

	s.Run("500 on storage failure", func() {
		s.expectRedeem("CNG-AB3XK9", nil, errs.Mark(errs.New("connection reset"), commands.ErrRedemptionStorage))

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/tokens/redeem", s.body("CNG-AB3XK9"), "bearer-token")
		httptest.AssertEnvelopeError(s.T(), rec, http.StatusInternalServerError, "Internal server error")
	})
}
