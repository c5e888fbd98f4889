//go:build unit || e2e

// Package memuow is an in-memory shared.UnitOfWork for use case tests.
// Transactions are serialized and rolled back on error, so conditional
// writes behave like the Postgres repositories.
package memuow

import (
	"context"
	"maps"
	"slices"
	"sync"
	"time"

	"cng-slot-booking/internal/domain/booking"
	"cng-slot-booking/internal/domain/scan"
	"cng-slot-booking/internal/domain/token"
	"cng-slot-booking/internal/infra"
	"cng-slot-booking/internal/usecase/shared"

	"github.com/google/uuid"
)

type Customer struct {
	Name    string
	Vehicle *string
	Phone   *string
}

type tokenRow struct {
	ID         uuid.UUID
	BookingID  uuid.UUID
	Code       string
	QRData     string
	Status     string
	ExpiryTime time.Time
	ScanTime   *time.Time
	CreatedAt  time.Time
}

type JobRow struct {
	shared.NotificationJob
	Status    string
	RunAt     time.Time
	LastError string
}

type state struct {
	tokens   map[uuid.UUID]tokenRow
	bookings map[uuid.UUID]shared.BookingSnapshot
	jobs     []JobRow
}

func (s state) clone() state {
	return state{
		tokens:   maps.Clone(s.tokens),
		bookings: maps.Clone(s.bookings),
		jobs:     slices.Clone(s.jobs),
	}
}

type Store struct {
	txMu sync.Mutex
	mu   sync.Mutex

	st        state
	pumps     map[uuid.UUID]shared.PumpSnapshot
	grants    map[[2]uuid.UUID]bool
	customers map[uuid.UUID]Customer
	logins    map[uuid.UUID]int

	// ReadErr and WriteErr, when set, fail every read or write.
	ReadErr  error
	WriteErr error
	// InsertCollisions makes the next n token inserts report a taken code.
	InsertCollisions int
	// BeforeMarkUsed runs inside the transaction right before the swap.
	BeforeMarkUsed func()
	// TransactionCount is the number of Within calls.
	TransactionCount int
}

func New() *Store {
	return &Store{
		st: state{
			tokens:   map[uuid.UUID]tokenRow{},
			bookings: map[uuid.UUID]shared.BookingSnapshot{},
		},
		pumps:     map[uuid.UUID]shared.PumpSnapshot{},
		grants:    map[[2]uuid.UUID]bool{},
		customers: map[uuid.UUID]Customer{},
		logins:    map[uuid.UUID]int{},
	}
}

// Seeding

func (s *Store) AddPump(name string, isOpen bool) uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := uuid.New()
	s.pumps[id] = shared.PumpSnapshot{ID: id, Name: name, IsOpen: isOpen}
	return id
}

func (s *Store) Grant(userID, pumpID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.grants[[2]uuid.UUID{userID, pumpID}] = true
}

func (s *Store) AddCustomer(userID uuid.UUID, c Customer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.customers[userID] = c
}

// AddBookingWithToken stores a confirmed booking with a valid token.
func (s *Store) AddBookingWithToken(b shared.BookingSnapshot, code string, expiry time.Time) uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()
	if b.Status == "" {
		b.Status = booking.StatusConfirmed.String()
	}
	s.st.bookings[b.ID] = b
	id := uuid.New()
	s.st.tokens[id] = tokenRow{
		ID:         id,
		BookingID:  b.ID,
		Code:       code,
		QRData:     code,
		Status:     token.StatusValid.String(),
		ExpiryTime: expiry,
	}
	return id
}

func (s *Store) ForceTokenStatus(id uuid.UUID, status token.Status) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := s.st.tokens[id]
	t.Status = status.String()
	s.st.tokens[id] = t
}

func (s *Store) ForceBookingStatus(id uuid.UUID, status booking.Status) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b := s.st.bookings[id]
	b.Status = status.String()
	s.st.bookings[id] = b
}

// Inspection

func (s *Store) TokenStatus(id uuid.UUID) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.tokens[id].Status
}

func (s *Store) TokenScanTime(id uuid.UUID) *time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.tokens[id].ScanTime
}

func (s *Store) TokenForBooking(bookingID uuid.UUID) (uuid.UUID, string, string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.st.tokens {
		if t.BookingID == bookingID {
			return t.ID, t.Code, t.Status, true
		}
	}
	return uuid.Nil, "", "", false
}

func (s *Store) Booking(id uuid.UUID) (shared.BookingSnapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.st.bookings[id]
	return b, ok
}

func (s *Store) BookingCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.st.bookings)
}

func (s *Store) Jobs() []JobRow {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.st.jobs)
}

func (s *Store) Logins(userID uuid.UUID) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.logins[userID]
}

// shared.UnitOfWork

func (s *Store) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.Lock()
	s.TransactionCount++
	saved := s.st.clone()
	s.mu.Unlock()

	if err := fn(ctx, &memTx{s: s}); err != nil {
		s.mu.Lock()
		s.st = saved
		s.mu.Unlock()
		return err
	}
	return nil
}

func (s *Store) CommandReads() shared.CommandReads {
	return &reads{s: s}
}

type memTx struct{ s *Store }

func (t *memTx) Bookings() shared.BookingRepository           { return &bookings{s: t.s} }
func (t *memTx) Tokens() shared.TokenRepository               { return &tokens{s: t.s} }
func (t *memTx) Notifications() shared.NotificationRepository { return &notifications{s: t.s} }
func (t *memTx) Users() shared.UserRepository                 { return &users{s: t.s} }
func (t *memTx) Reads() shared.CommandReads                   { return &reads{s: t.s} }

// CommandReads

type reads struct{ s *Store }

func notFound(what string) error {
	return infra.WrapRepoErr(what+" not found", nil, infra.KindNotFound)
}

func (r *reads) snapshot(t tokenRow) *shared.TokenSnapshot {
	return &shared.TokenSnapshot{
		ID:         t.ID,
		BookingID:  t.BookingID,
		Code:       t.Code,
		QRData:     t.QRData,
		Status:     t.Status,
		ExpiryTime: t.ExpiryTime,
		ScanTime:   t.ScanTime,
		CreatedAt:  t.CreatedAt,
		Booking:    r.s.st.bookings[t.BookingID],
	}
}

func (r *reads) TokenByCode(_ context.Context, code string) (*shared.TokenSnapshot, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.ReadErr != nil {
		return nil, infra.WrapRepoErr("failed to get token", r.s.ReadErr)
	}
	for _, t := range r.s.st.tokens {
		if t.Code == code {
			return r.snapshot(t), nil
		}
	}
	return nil, notFound("token")
}

func (r *reads) TokenByBookingID(_ context.Context, bookingID uuid.UUID) (*shared.TokenSnapshot, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.ReadErr != nil {
		return nil, infra.WrapRepoErr("failed to get token", r.s.ReadErr)
	}
	for _, t := range r.s.st.tokens {
		if t.BookingID == bookingID {
			return r.snapshot(t), nil
		}
	}
	return nil, notFound("token")
}

func (r *reads) BookingByID(_ context.Context, id uuid.UUID) (*shared.BookingSnapshot, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.ReadErr != nil {
		return nil, infra.WrapRepoErr("failed to get booking", r.s.ReadErr)
	}
	b, ok := r.s.st.bookings[id]
	if !ok {
		return nil, notFound("booking")
	}
	return &b, nil
}

func (r *reads) PumpByID(_ context.Context, id uuid.UUID) (*shared.PumpSnapshot, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.ReadErr != nil {
		return nil, infra.WrapRepoErr("failed to get pump", r.s.ReadErr)
	}
	p, ok := r.s.pumps[id]
	if !ok {
		return nil, notFound("pump")
	}
	return &p, nil
}

func (r *reads) HasPumpGrant(_ context.Context, userID, pumpID uuid.UUID) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.ReadErr != nil {
		return false, infra.WrapRepoErr("failed to check pump grant", r.s.ReadErr)
	}
	return r.s.grants[[2]uuid.UUID{userID, pumpID}], nil
}

// Writes

type tokens struct{ s *Store }

func (r *tokens) InsertIfAbsent(_ context.Context, t *token.Token) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.WriteErr != nil {
		return false, infra.WrapRepoErr("failed to insert token", r.s.WriteErr)
	}
	if r.s.InsertCollisions > 0 {
		r.s.InsertCollisions--
		return false, nil
	}
	for _, existing := range r.s.st.tokens {
		if existing.Code == t.Code().String() {
			return false, nil
		}
	}
	r.s.st.tokens[t.ID()] = tokenRow{
		ID:         t.ID(),
		BookingID:  t.BookingID(),
		Code:       t.Code().String(),
		QRData:     t.QRPayload(),
		Status:     t.Status().String(),
		ExpiryTime: t.ExpiryTime(),
		CreatedAt:  t.CreatedAt(),
	}
	return true, nil
}

func (r *tokens) swap(id uuid.UUID, apply func(*tokenRow)) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.WriteErr != nil {
		return false, infra.WrapRepoErr("failed to update token", r.s.WriteErr)
	}
	t, ok := r.s.st.tokens[id]
	if !ok || t.Status != token.StatusValid.String() {
		return false, nil
	}
	apply(&t)
	r.s.st.tokens[id] = t
	return true, nil
}

func (r *tokens) MarkUsed(_ context.Context, id uuid.UUID, at time.Time) (bool, error) {
	if hook := r.s.BeforeMarkUsed; hook != nil {
		hook()
	}
	return r.swap(id, func(t *tokenRow) {
		t.Status = token.StatusUsed.String()
		t.ScanTime = &at
	})
}

func (r *tokens) Expire(_ context.Context, id uuid.UUID) (bool, error) {
	return r.swap(id, func(t *tokenRow) { t.Status = token.StatusExpired.String() })
}

func (r *tokens) ExpireByBookingID(ctx context.Context, bookingID uuid.UUID) (bool, error) {
	r.s.mu.Lock()
	var id uuid.UUID
	for _, t := range r.s.st.tokens {
		if t.BookingID == bookingID {
			id = t.ID
		}
	}
	r.s.mu.Unlock()
	return r.Expire(ctx, id)
}

func (r *tokens) expireWhere(match func(tokenRow) bool) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.WriteErr != nil {
		return 0, infra.WrapRepoErr("failed to expire tokens", r.s.WriteErr)
	}
	var n int64
	for id, t := range r.s.st.tokens {
		if t.Status == token.StatusValid.String() && match(t) {
			t.Status = token.StatusExpired.String()
			r.s.st.tokens[id] = t
			n++
		}
	}
	return n, nil
}

func (r *tokens) ExpireOverdue(_ context.Context, now time.Time) (int64, error) {
	return r.expireWhere(func(t tokenRow) bool { return t.ExpiryTime.Before(now) })
}

func (r *tokens) ExpireCancelled(_ context.Context) (int64, error) {
	return r.expireWhere(func(t tokenRow) bool {
		return r.s.st.bookings[t.BookingID].Status == booking.StatusCancelled.String()
	})
}

type bookings struct{ s *Store }

func (r *bookings) Create(_ context.Context, b *booking.Booking) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.WriteErr != nil {
		return infra.WrapRepoErr("failed to create booking", r.s.WriteErr)
	}
	c := r.s.customers[b.UserID()]
	var confirmation *string
	if b.Confirmation() != nil {
		v := b.Confirmation().String()
		confirmation = &v
	}
	r.s.st.bookings[b.ID()] = shared.BookingSnapshot{
		ID:                 b.ID(),
		UserID:             b.UserID(),
		PumpID:             b.PumpID(),
		SlotDate:           b.Slot().Date(),
		SlotTime:           b.Slot().Time(),
		FuelQuantity:       b.FuelQuantity().Decimal(),
		Amount:             b.Amount().Decimal(),
		Status:             b.Status().String(),
		ConfirmationStatus: confirmation,
		CustomerName:       c.Name,
		VehicleNumber:      c.Vehicle,
		Phone:              c.Phone,
		CreatedAt:          b.CreatedAt(),
		UpdatedAt:          b.UpdatedAt(),
	}
	return nil
}

func (r *bookings) update(id uuid.UUID, from booking.Status, apply func(*shared.BookingSnapshot)) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.WriteErr != nil {
		return false, infra.WrapRepoErr("failed to update booking", r.s.WriteErr)
	}
	b, ok := r.s.st.bookings[id]
	if !ok || b.Status != from.String() {
		return false, nil
	}
	apply(&b)
	r.s.st.bookings[id] = b
	return true, nil
}

func (r *bookings) TransitionStatus(_ context.Context, id uuid.UUID, from, to booking.Status) (bool, error) {
	return r.update(id, from, func(b *shared.BookingSnapshot) { b.Status = to.String() })
}

func (r *bookings) Cancel(_ context.Context, id uuid.UUID) (bool, error) {
	return r.update(id, booking.StatusConfirmed, func(b *shared.BookingSnapshot) {
		notComing := booking.ConfirmationNotComing.String()
		b.Status = booking.StatusCancelled.String()
		b.ConfirmationStatus = &notComing
	})
}

func (r *bookings) UpdateConfirmation(_ context.Context, id uuid.UUID, c booking.ConfirmationStatus) (bool, error) {
	return r.update(id, booking.StatusConfirmed, func(b *shared.BookingSnapshot) {
		v := c.String()
		b.ConfirmationStatus = &v
	})
}

type notifications struct{ s *Store }

func (r *notifications) CreateJob(_ context.Context, kind, topic string, payload []byte, runAt time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.WriteErr != nil {
		return infra.WrapRepoErr("failed to create job", r.s.WriteErr)
	}
	r.s.st.jobs = append(r.s.st.jobs, JobRow{
		NotificationJob: shared.NotificationJob{
			ID:      uuid.New(),
			Kind:    kind,
			Topic:   topic,
			Payload: payload,
		},
		Status: "queued",
		RunAt:  runAt,
	})
	return nil
}

func (r *notifications) ClaimDue(_ context.Context, now time.Time, limit int32) ([]shared.NotificationJob, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.ReadErr != nil {
		return nil, infra.WrapRepoErr("failed to claim jobs", r.s.ReadErr)
	}
	var out []shared.NotificationJob
	for _, j := range r.s.st.jobs {
		if int32(len(out)) >= limit {
			break
		}
		if j.Status == "queued" && !j.RunAt.After(now) {
			out = append(out, j.NotificationJob)
		}
	}
	return out, nil
}

func (r *notifications) find(id uuid.UUID) *JobRow {
	for i := range r.s.st.jobs {
		if r.s.st.jobs[i].ID == id {
			return &r.s.st.jobs[i]
		}
	}
	return nil
}

func (r *notifications) MarkSent(_ context.Context, id uuid.UUID, _ time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if j := r.find(id); j != nil {
		j.Status = "sent"
		j.Attempts++
	}
	return nil
}

func (r *notifications) MarkFailed(_ context.Context, id uuid.UUID, lastError string, retryAt time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if j := r.find(id); j != nil {
		j.Attempts++
		j.LastError = lastError
		j.RunAt = retryAt
	}
	return nil
}

type users struct{ s *Store }

func (r *users) UpdateLastLogin(_ context.Context, userID uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.WriteErr != nil {
		return infra.WrapRepoErr("failed to update last login", r.s.WriteErr)
	}
	r.s.logins[userID]++
	return nil
}

// AuditLog is an in-memory shared.ScanAuditLog.
type AuditLog struct {
	mu       sync.Mutex
	attempts []scan.Attempt
	Err      error
}

func (a *AuditLog) Append(ctx context.Context, attempt scan.Attempt) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.Err != nil {
		return a.Err
	}
	a.attempts = append(a.attempts, attempt)
	return nil
}

func (a *AuditLog) Attempts() []scan.Attempt {
	a.mu.Lock()
	defer a.mu.Unlock()
	return slices.Clone(a.attempts)
}
