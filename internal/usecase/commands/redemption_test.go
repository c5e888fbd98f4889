//go:build unit

package commands_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"cng-slot-booking/internal/domain/booking"
	"cng-slot-booking/internal/domain/scan"
	"cng-slot-booking/internal/domain/token"
	"cng-slot-booking/internal/domain/user"
	"cng-slot-booking/internal/pkg/clock"
	"cng-slot-booking/internal/pkg/errs"
	"cng-slot-booking/internal/usecase/commands"
	"cng-slot-booking/internal/usecase/shared"
	"cng-slot-booking/tests/common/memuow"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const testCode = "CNG-AB3XK9"

type RedemptionCommandsTestSuite struct {
	suite.Suite
	loc       *time.Location
	store     *memuow.Store
	audit     *memuow.AuditLog
	clock     *clock.MockClock
	uc        commands.RedemptionCommands
	staff     commands.Actor
	pumpID    uuid.UUID
	bookingID uuid.UUID
	tokenID   uuid.UUID
	slotStart time.Time
	expiry    time.Time
}

func TestRedemptionCommandsSuite(t *testing.T) {
	suite.Run(t, new(RedemptionCommandsTestSuite))
}

func (s *RedemptionCommandsTestSuite) SetupTest() {
	loc, err := time.LoadLocation("Asia/Kolkata")
	s.Require().NoError(err)
	s.loc = loc

	window := token.DefaultWindowPolicy(loc)
	s.store = memuow.New()
	s.audit = &memuow.AuditLog{}

	s.pumpID = s.store.AddPump("Ring Road CNG", true)
	s.staff = commands.Actor{UserID: uuid.New(), Role: user.RolePumpAdmin}
	s.store.Grant(s.staff.UserID, s.pumpID)

	s.slotStart = time.Date(2024, 6, 1, 14, 30, 0, 0, loc)
	s.expiry = window.ExpiryFor(s.slotStart)
	s.bookingID = uuid.New()
	s.tokenID = s.store.AddBookingWithToken(shared.BookingSnapshot{
		ID:           s.bookingID,
		UserID:       uuid.New(),
		PumpID:       s.pumpID,
		SlotDate:     "2024-06-01",
		SlotTime:     "14:30",
		FuelQuantity: decimal.RequireFromString("10.5"),
		Amount:       decimal.RequireFromString("892.50"),
		CustomerName: "Test Customer",
	}, testCode, s.expiry)

	s.clock = clock.NewMockClock(time.Date(2024, 6, 1, 14, 20, 0, 0, loc))
	s.uc = commands.NewRedemptionCommands(s.store, s.audit, window, s.clock, time.Second)
}

func (s *RedemptionCommandsTestSuite) redeem(code string) *commands.RedemptionResult {
	res, err := s.uc.Redeem(context.Background(), s.staff, commands.RedeemTokenRequest{Code: code, PumpID: s.pumpID})
	s.Require().NoError(err)
	s.Require().NotNil(res)
	return res
}

func (s *RedemptionCommandsTestSuite) TestRedeem_Success() {
	res := s.redeem(testCode)

	s.Equal(scan.ResultSuccess, res.Result)
	s.Require().NotNil(res.TokenID)
	s.Equal(s.tokenID, *res.TokenID)
	s.Require().NotNil(res.Booking)
	s.Equal(booking.StatusCompleted.String(), res.Booking.Status)
	s.Equal("Test Customer", res.Booking.CustomerName)
	s.Nil(res.EarliestValidAt)

	s.Equal(token.StatusUsed.String(), s.store.TokenStatus(s.tokenID))
	s.Require().NotNil(s.store.TokenScanTime(s.tokenID))
	s.True(s.clock.Now().Equal(*s.store.TokenScanTime(s.tokenID)))

	b, ok := s.store.Booking(s.bookingID)
	s.Require().True(ok)
	s.Equal(booking.StatusCompleted.String(), b.Status)

	jobs := s.store.Jobs()
	s.Require().Len(jobs, 1)
	s.Equal(shared.JobTokenRedeemed, jobs[0].Kind)
	s.Contains(string(jobs[0].Payload), s.tokenID.String())

	attempts := s.audit.Attempts()
	s.Require().Len(attempts, 1)
	s.Equal(scan.ResultSuccess, attempts[0].Result)
	s.Equal(s.pumpID, attempts[0].PumpID)
	s.Equal(s.staff.UserID, attempts[0].ScannedBy)
	s.Require().NotNil(attempts[0].TokenID)
	s.Equal(s.tokenID, *attempts[0].TokenID)
}

func (s *RedemptionCommandsTestSuite) TestRedeem_NormalizesInput() {
	res := s.redeem("  cng-ab3xk9 ")

	s.Equal(scan.ResultSuccess, res.Result)
	s.Equal(token.StatusUsed.String(), s.store.TokenStatus(s.tokenID))
}

func (s *RedemptionCommandsTestSuite) TestRedeem_Window() {
	testCases := []struct {
		name         string
		offset       time.Duration
		expected     scan.Result
		storedStatus token.Status
	}{
		{name: "16 minutes early", offset: -16 * time.Minute, expected: scan.ResultTooEarly, storedStatus: token.StatusValid},
		{name: "exactly at early edge", offset: -15 * time.Minute, expected: scan.ResultSuccess, storedStatus: token.StatusUsed},
		{name: "14 minutes early", offset: -14 * time.Minute, expected: scan.ResultSuccess, storedStatus: token.StatusUsed},
		{name: "slot start", offset: 0, expected: scan.ResultSuccess, storedStatus: token.StatusUsed},
		{name: "exactly at expiry", offset: 20 * time.Minute, expected: scan.ResultSuccess, storedStatus: token.StatusUsed},
		{name: "one second past expiry", offset: 20*time.Minute + time.Second, expected: scan.ResultExpired, storedStatus: token.StatusExpired},
		{name: "next day", offset: 24 * time.Hour, expected: scan.ResultExpired, storedStatus: token.StatusExpired},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			s.SetupTest()
			s.clock.Set(s.slotStart.Add(tc.offset))

			res := s.redeem(testCode)

			s.Equal(tc.expected, res.Result)
			s.Equal(tc.storedStatus.String(), s.store.TokenStatus(s.tokenID))
			s.Len(s.audit.Attempts(), 1)
		})
	}
}

func (s *RedemptionCommandsTestSuite) TestRedeem_TooEarlyReportsEarliestTime() {
	s.clock.Set(s.slotStart.Add(-16 * time.Minute))

	res := s.redeem(testCode)

	s.Equal(scan.ResultTooEarly, res.Result)
	s.Require().NotNil(res.EarliestValidAt)
	s.Equal("14:15", res.EarliestValidAt.In(s.loc).Format("15:04"))
	s.Empty(s.store.Jobs())
}

func (s *RedemptionCommandsTestSuite) TestRedeem_DoubleScan() {
	first := s.redeem(testCode)
	second := s.redeem(testCode)

	s.Equal(scan.ResultSuccess, first.Result)
	s.Equal(scan.ResultAlreadyUsed, second.Result)
	s.Require().NotNil(second.TokenID)
	s.Equal(s.tokenID, *second.TokenID)
	s.Len(s.store.Jobs(), 1)
	s.Len(s.audit.Attempts(), 2)
}

func (s *RedemptionCommandsTestSuite) TestRedeem_ExpiredStaysExpired() {
	s.clock.Set(s.expiry.Add(time.Minute))
	s.Equal(scan.ResultExpired, s.redeem(testCode).Result)

	// back inside the window, the stored status wins
	s.clock.Set(s.slotStart)
	s.Equal(scan.ResultExpired, s.redeem(testCode).Result)
	s.Equal(token.StatusExpired.String(), s.store.TokenStatus(s.tokenID))
}

func (s *RedemptionCommandsTestSuite) TestRedeem_Rejections() {
	otherPump := s.store.AddPump("Highway CNG", true)

	testCases := []struct {
		name        string
		setup       func() (commands.Actor, uuid.UUID)
		code        string
		expected    scan.Result
		expectToken bool
	}{
		{
			name: "wrong pump",
			setup: func() (commands.Actor, uuid.UUID) {
				s.store.Grant(s.staff.UserID, otherPump)
				return s.staff, otherPump
			},
			code:        testCode,
			expected:    scan.ResultWrongPump,
			expectToken: true,
		},
		{
			name: "no grant for pump",
			setup: func() (commands.Actor, uuid.UUID) {
				return commands.Actor{UserID: uuid.New(), Role: user.RolePumpAdmin}, s.pumpID
			},
			code:     testCode,
			expected: scan.ResultUnauthorizedPump,
		},
		{
			name: "super admin without grant",
			setup: func() (commands.Actor, uuid.UUID) {
				return commands.Actor{UserID: uuid.New(), Role: user.RoleSuperAdmin}, s.pumpID
			},
			code:     testCode,
			expected: scan.ResultUnauthorizedPump,
		},
		{
			name: "customer",
			setup: func() (commands.Actor, uuid.UUID) {
				return commands.Actor{UserID: uuid.New(), Role: user.RoleCustomer}, s.pumpID
			},
			code:     testCode,
			expected: scan.ResultUnauthorizedPump,
		},
		{
			name: "unknown code",
			setup: func() (commands.Actor, uuid.UUID) {
				return s.staff, s.pumpID
			},
			code:     "CNG-ZZZZZZ",
			expected: scan.ResultNotFound,
		},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			actor, pumpID := tc.setup()
			before := len(s.audit.Attempts())

			res, err := s.uc.Redeem(context.Background(), actor, commands.RedeemTokenRequest{Code: tc.code, PumpID: pumpID})

			s.Require().NoError(err)
			s.Equal(tc.expected, res.Result)
			s.Equal(tc.expectToken, res.TokenID != nil)
			s.Equal(token.StatusValid.String(), s.store.TokenStatus(s.tokenID))

			attempts := s.audit.Attempts()
			s.Require().Len(attempts, before+1)
			last := attempts[len(attempts)-1]
			s.Equal(tc.expected, last.Result)
			s.Equal(pumpID, last.PumpID)
			s.Equal(actor.UserID, last.ScannedBy)
		})
	}
}

func (s *RedemptionCommandsTestSuite) TestRedeem_InvalidFormat() {
	testCases := []struct {
		name      string
		input     string
		auditCode string
	}{
		{name: "plain text", input: "hello", auditCode: "hello"},
		{name: "empty", input: "", auditCode: ""},
		{name: "too short", input: "CNG-123", auditCode: "CNG-123"},
		{name: "oversized input is truncated", input: strings.Repeat("x", 100), auditCode: strings.Repeat("x", 64)},
		{name: "multibyte input is truncated by rune", input: strings.Repeat("ä", 80), auditCode: strings.Repeat("ä", 64)},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			s.SetupTest()

			res := s.redeem(tc.input)

			s.Equal(scan.ResultInvalidFormat, res.Result)
			s.Nil(res.TokenID)
			s.Zero(s.store.TransactionCount)

			attempts := s.audit.Attempts()
			s.Require().Len(attempts, 1)
			s.Equal(tc.auditCode, attempts[0].TokenCode)
			s.Nil(attempts[0].TokenID)
		})
	}
}

func (s *RedemptionCommandsTestSuite) TestRedeem_StorageFailureIsNotAudited() {
	s.store.ReadErr = errors.New("connection reset by peer")

	res, err := s.uc.Redeem(context.Background(), s.staff, commands.RedeemTokenRequest{Code: testCode, PumpID: s.pumpID})

	s.Require().Error(err)
	s.True(errs.Is(err, commands.ErrRedemptionStorage))
	s.Nil(res)
	s.Empty(s.audit.Attempts())
}

func (s *RedemptionCommandsTestSuite) TestRedeem_WriteFailureRollsBack() {
	s.store.WriteErr = errors.New("disk full")

	_, err := s.uc.Redeem(context.Background(), s.staff, commands.RedeemTokenRequest{Code: testCode, PumpID: s.pumpID})

	s.True(errs.Is(err, commands.ErrRedemptionStorage))
	s.Equal(token.StatusValid.String(), s.store.TokenStatus(s.tokenID))
	s.Empty(s.store.Jobs())
	s.Empty(s.audit.Attempts())
}

func (s *RedemptionCommandsTestSuite) TestRedeem_AuditFailureDoesNotChangeResult() {
	s.audit.Err = errors.New("audit table locked")

	res := s.redeem(testCode)

	s.Equal(scan.ResultSuccess, res.Result)
	s.Equal(token.StatusUsed.String(), s.store.TokenStatus(s.tokenID))
}

func (s *RedemptionCommandsTestSuite) TestRedeem_AuditSurvivesCallerCancellation() {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := s.uc.Redeem(ctx, s.staff, commands.RedeemTokenRequest{Code: "garbage", PumpID: s.pumpID})

	s.Require().NoError(err)
	s.Equal(scan.ResultInvalidFormat, res.Result)
	s.Len(s.audit.Attempts(), 1)
}

func (s *RedemptionCommandsTestSuite) TestRedeem_LostSwapIsRaceCondition() {
	s.store.BeforeMarkUsed = func() {
		s.store.ForceTokenStatus(s.tokenID, token.StatusUsed)
	}

	res := s.redeem(testCode)

	s.Equal(scan.ResultRaceCondition, res.Result)
	s.Require().NotNil(res.TokenID)
	s.Empty(s.store.Jobs())

	attempts := s.audit.Attempts()
	s.Require().Len(attempts, 1)
	s.Equal(scan.ResultRaceCondition, attempts[0].Result)
}

func (s *RedemptionCommandsTestSuite) TestRedeem_CancelledBookingIsRejectedBeforeWriting() {
	s.store.ForceBookingStatus(s.bookingID, booking.StatusCancelled)

	res := s.redeem(testCode)

	s.Equal(scan.ResultRaceCondition, res.Result)
	s.Zero(s.store.TransactionCount)
	s.Equal(token.StatusValid.String(), s.store.TokenStatus(s.tokenID))
	s.Len(s.audit.Attempts(), 1)
}

func (s *RedemptionCommandsTestSuite) TestRedeem_CancelDuringSwapRollsBackToken() {
	s.store.BeforeMarkUsed = func() {
		s.store.ForceBookingStatus(s.bookingID, booking.StatusCancelled)
	}

	res := s.redeem(testCode)

	s.Equal(scan.ResultRaceCondition, res.Result)
	s.Equal(token.StatusValid.String(), s.store.TokenStatus(s.tokenID))
	s.Nil(s.store.TokenScanTime(s.tokenID))
	s.Empty(s.store.Jobs())
}

func (s *RedemptionCommandsTestSuite) TestRedeem_ConcurrentScansRedeemOnce() {
	const scanners = 20

	var wg sync.WaitGroup
	results := make([]scan.Result, scanners)
	start := make(chan struct{})
	for i := range scanners {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			res, err := s.uc.Redeem(context.Background(), s.staff, commands.RedeemTokenRequest{Code: testCode, PumpID: s.pumpID})
			if assert.NoError(s.T(), err) {
				results[i] = res.Result
			}
		}()
	}
	close(start)
	wg.Wait()

	successes := 0
	for _, r := range results {
		switch r {
		case scan.ResultSuccess:
			successes++
		case scan.ResultAlreadyUsed, scan.ResultRaceCondition:
		default:
			s.Failf("unexpected result", "got %q", r)
		}
	}
	s.Equal(1, successes)
	s.Len(s.audit.Attempts(), scanners)
	s.Len(s.store.Jobs(), 1)
	s.Equal(token.StatusUsed.String(), s.store.TokenStatus(s.tokenID))

	b, _ := s.store.Booking(s.bookingID)
	require.Equal(s.T(), booking.StatusCompleted.String(), b.Status)
}
