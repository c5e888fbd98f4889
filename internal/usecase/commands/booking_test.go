//go:build unit

package commands_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"cng-slot-booking/internal/domain/booking"
	"cng-slot-booking/internal/domain/token"
	"cng-slot-booking/internal/domain/user"
	"cng-slot-booking/internal/pkg/clock"
	"cng-slot-booking/internal/pkg/errs"
	"cng-slot-booking/internal/usecase/commands"
	"cng-slot-booking/internal/usecase/shared"
	"cng-slot-booking/tests/common/memuow"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

// sequenceGenerator hands out fixed codes in order.
type sequenceGenerator struct {
	codes []string
	calls int
}

func (g *sequenceGenerator) Generate() (token.Code, error) {
	code := g.codes[g.calls%len(g.codes)]
	g.calls++
	return token.NewCode(code)
}

type brokenEntropy struct{}

func (brokenEntropy) Read([]byte) (int, error) {
	return 0, errors.New("entropy exhausted")
}

type BookingCommandsTestSuite struct {
	suite.Suite
	loc      *time.Location
	window   token.WindowPolicy
	store    *memuow.Store
	gen      *sequenceGenerator
	clock    *clock.MockClock
	uc       commands.BookingCommands
	customer commands.Actor
	pumpID   uuid.UUID
}

func TestBookingCommandsSuite(t *testing.T) {
	suite.Run(t, new(BookingCommandsTestSuite))
}

func (s *BookingCommandsTestSuite) SetupTest() {
	loc, err := time.LoadLocation("Asia/Kolkata")
	s.Require().NoError(err)
	s.loc = loc
	s.window = token.DefaultWindowPolicy(loc)

	s.store = memuow.New()
	s.pumpID = s.store.AddPump("Ring Road CNG", true)
	s.customer = commands.Actor{UserID: uuid.New(), Role: user.RoleCustomer}
	s.store.AddCustomer(s.customer.UserID, memuow.Customer{Name: "Test Customer"})

	s.gen = &sequenceGenerator{codes: []string{"CNG-AB3XK9"}}
	s.clock = clock.NewMockClock(time.Date(2024, 6, 1, 10, 0, 0, 0, loc))
	s.uc = commands.NewBookingCommands(s.store, s.gen, s.window, s.clock, 3)
}

func (s *BookingCommandsTestSuite) request() commands.CreateBookingRequest {
	return commands.CreateBookingRequest{
		PumpID:       s.pumpID,
		SlotDate:     "2024-06-01",
		SlotTime:     "14:30",
		FuelQuantity: decimal.RequireFromString("10.5"),
		Amount:       decimal.RequireFromString("892.50"),
	}
}

func (s *BookingCommandsTestSuite) create() *commands.CreateBookingResult {
	res, err := s.uc.CreateBooking(context.Background(), s.customer, s.request())
	s.Require().NoError(err)
	return res
}

func (s *BookingCommandsTestSuite) TestCreateBooking_Success() {
	res := s.create()

	s.Equal("CNG-AB3XK9", res.TokenCode)
	s.True(time.Date(2024, 6, 1, 14, 50, 0, 0, s.loc).Equal(res.ExpiryTime))

	var qr map[string]string
	s.Require().NoError(json.Unmarshal([]byte(res.QRData), &qr))
	s.Equal(res.BookingID.String(), qr["bookingId"])
	s.Equal(res.TokenCode, qr["tokenCode"])

	b, ok := s.store.Booking(res.BookingID)
	s.Require().True(ok)
	s.Equal(booking.StatusConfirmed.String(), b.Status)
	s.Require().NotNil(b.ConfirmationStatus)
	s.Equal(booking.ConfirmationPending.String(), *b.ConfirmationStatus)
	s.Equal(s.customer.UserID, b.UserID)
	s.Equal("Test Customer", b.CustomerName)
	s.True(decimal.RequireFromString("892.50").Equal(b.Amount))

	tokenID, code, status, ok := s.store.TokenForBooking(res.BookingID)
	s.Require().True(ok)
	s.Equal(res.TokenID, tokenID)
	s.Equal(res.TokenCode, code)
	s.Equal(token.StatusValid.String(), status)

	jobs := s.store.Jobs()
	s.Require().Len(jobs, 1)
	s.Equal(shared.JobBookingCreated, jobs[0].Kind)
	s.Contains(string(jobs[0].Payload), res.TokenCode)
}

func (s *BookingCommandsTestSuite) TestCreateBooking_RetriesOnCodeCollision() {
	s.store.AddBookingWithToken(shared.BookingSnapshot{ID: uuid.New(), PumpID: s.pumpID}, "CNG-AAAAAA", s.clock.Now())
	s.gen.codes = []string{"CNG-AAAAAA", "CNG-BBBBBB"}

	res := s.create()

	s.Equal("CNG-BBBBBB", res.TokenCode)
	s.Equal(2, s.gen.calls)
	s.Contains(res.QRData, "CNG-BBBBBB")
}

func (s *BookingCommandsTestSuite) TestCreateBooking_CodeSpaceExhausted() {
	s.store.InsertCollisions = 10

	res, err := s.uc.CreateBooking(context.Background(), s.customer, s.request())

	s.Nil(res)
	s.ErrorIs(err, commands.ErrTokenCodeExhausted)
	s.Equal(3, s.gen.calls)
	s.Zero(s.store.BookingCount())
	s.Empty(s.store.Jobs())
}

func (s *BookingCommandsTestSuite) TestCreateBooking_GeneratorFailure() {
	uc := commands.NewBookingCommands(s.store, token.NewGeneratorFromReader(brokenEntropy{}), s.window, s.clock, 3)

	_, err := uc.CreateBooking(context.Background(), s.customer, s.request())

	s.True(errs.Is(err, commands.ErrTokenIssueFailed))
	s.Zero(s.store.BookingCount())
}

func (s *BookingCommandsTestSuite) TestCreateBooking_Rejected() {
	closedPump := s.store.AddPump("Closed CNG", false)

	testCases := []struct {
		name   string
		modify func(*commands.CreateBookingRequest)
		errIs  error
	}{
		{
			name:   "unknown pump",
			modify: func(r *commands.CreateBookingRequest) { r.PumpID = uuid.New() },
			errIs:  commands.ErrPumpNotFound,
		},
		{
			name:   "closed pump",
			modify: func(r *commands.CreateBookingRequest) { r.PumpID = closedPump },
			errIs:  commands.ErrPumpClosed,
		},
		{
			name:   "slot already started",
			modify: func(r *commands.CreateBookingRequest) { r.SlotTime = "09:30" },
			errIs:  booking.ErrSlotInPast,
		},
		{
			name:   "malformed slot time",
			modify: func(r *commands.CreateBookingRequest) { r.SlotTime = "25:00" },
		},
		{
			name:   "zero fuel",
			modify: func(r *commands.CreateBookingRequest) { r.FuelQuantity = decimal.Zero },
		},
		{
			name:   "negative amount",
			modify: func(r *commands.CreateBookingRequest) { r.Amount = decimal.NewFromInt(-1) },
		},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			req := s.request()
			tc.modify(&req)

			res, err := s.uc.CreateBooking(context.Background(), s.customer, req)

			s.Nil(res)
			s.Require().Error(err)
			if tc.errIs != nil {
				s.ErrorIs(err, tc.errIs)
			}
			s.Zero(s.store.BookingCount())
		})
	}
}

func (s *BookingCommandsTestSuite) TestCancelBooking_ByOwnerExpiresToken() {
	created := s.create()

	err := s.uc.CancelBooking(context.Background(), s.customer, created.BookingID)

	s.Require().NoError(err)
	b, _ := s.store.Booking(created.BookingID)
	s.Equal(booking.StatusCancelled.String(), b.Status)
	s.Require().NotNil(b.ConfirmationStatus)
	s.Equal(booking.ConfirmationNotComing.String(), *b.ConfirmationStatus)
	_, _, status, _ := s.store.TokenForBooking(created.BookingID)
	s.Equal(token.StatusExpired.String(), status)

	jobs := s.store.Jobs()
	s.Require().Len(jobs, 2)
	s.Equal(shared.JobBookingCancelled, jobs[1].Kind)
	s.Contains(string(jobs[1].Payload), s.customer.UserID.String())
}

func (s *BookingCommandsTestSuite) TestCancelBooking_Twice() {
	created := s.create()
	s.Require().NoError(s.uc.CancelBooking(context.Background(), s.customer, created.BookingID))

	err := s.uc.CancelBooking(context.Background(), s.customer, created.BookingID)

	s.ErrorIs(err, commands.ErrBookingNotActive)
	s.Len(s.store.Jobs(), 2)
}

func (s *BookingCommandsTestSuite) TestCancelBooking_Access() {
	testCases := []struct {
		name  string
		actor func(bookingID uuid.UUID) (commands.Actor, uuid.UUID)
		errIs error
	}{
		{
			name: "staff with grant",
			actor: func(id uuid.UUID) (commands.Actor, uuid.UUID) {
				staff := commands.Actor{UserID: uuid.New(), Role: user.RolePumpAdmin}
				s.store.Grant(staff.UserID, s.pumpID)
				return staff, id
			},
		},
		{
			name: "staff without grant",
			actor: func(id uuid.UUID) (commands.Actor, uuid.UUID) {
				return commands.Actor{UserID: uuid.New(), Role: user.RolePumpAdmin}, id
			},
			errIs: commands.ErrBookingAccessDenied,
		},
		{
			name: "another customer",
			actor: func(id uuid.UUID) (commands.Actor, uuid.UUID) {
				return commands.Actor{UserID: uuid.New(), Role: user.RoleCustomer}, id
			},
			errIs: commands.ErrBookingAccessDenied,
		},
		{
			name: "unknown booking",
			actor: func(uuid.UUID) (commands.Actor, uuid.UUID) {
				return s.customer, uuid.New()
			},
			errIs: commands.ErrBookingNotFound,
		},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			s.SetupTest()
			created := s.create()
			actor, id := tc.actor(created.BookingID)

			err := s.uc.CancelBooking(context.Background(), actor, id)

			b, _ := s.store.Booking(created.BookingID)
			if tc.errIs != nil {
				s.ErrorIs(err, tc.errIs)
				s.Equal(booking.StatusConfirmed.String(), b.Status)
				return
			}
			s.NoError(err)
			s.Equal(booking.StatusCancelled.String(), b.Status)
		})
	}
}

func (s *BookingCommandsTestSuite) TestUpdateConfirmation() {
	testCases := []struct {
		name         string
		actor        func() commands.Actor
		confirmation string
		cancelFirst  bool
		errIs        error
		expected     string
	}{
		{name: "coming", confirmation: "coming", expected: "coming"},
		{name: "not coming", confirmation: "not_coming", expected: "not_coming"},
		{name: "pending rejected", confirmation: "pending", errIs: commands.ErrConfirmationRejected},
		{name: "empty rejected", confirmation: "", errIs: commands.ErrConfirmationRejected},
		{name: "unknown value", confirmation: "maybe", errIs: booking.ErrInvalidConfirmation},
		{name: "cancelled booking", confirmation: "coming", cancelFirst: true, errIs: commands.ErrBookingNotActive},
		{
			name: "staff cannot answer for customer",
			actor: func() commands.Actor {
				staff := commands.Actor{UserID: uuid.New(), Role: user.RolePumpAdmin}
				s.store.Grant(staff.UserID, s.pumpID)
				return staff
			},
			confirmation: "coming",
			errIs:        commands.ErrBookingAccessDenied,
		},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			s.SetupTest()
			created := s.create()
			if tc.cancelFirst {
				s.Require().NoError(s.uc.CancelBooking(context.Background(), s.customer, created.BookingID))
			}
			before, _ := s.store.Booking(created.BookingID)
			s.Require().NotNil(before.ConfirmationStatus)
			actor := s.customer
			if tc.actor != nil {
				actor = tc.actor()
			}

			err := s.uc.UpdateConfirmation(context.Background(), actor, created.BookingID, tc.confirmation)

			b, _ := s.store.Booking(created.BookingID)
			s.Require().NotNil(b.ConfirmationStatus)
			if tc.errIs != nil {
				s.ErrorIs(err, tc.errIs)
				s.Equal(*before.ConfirmationStatus, *b.ConfirmationStatus)
				return
			}
			s.NoError(err)
			s.Equal(tc.expected, *b.ConfirmationStatus)
		})
	}
}
