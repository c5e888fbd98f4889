//go:build unit

package readstore

import (
	"context"
	"testing"

	"cng-slot-booking/internal/infra"
	"cng-slot-booking/tests/common/builder"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockDBTX struct {
	mock.Mock
}

func (m *MockDBTX) Exec(ctx context.Context, query string, args ...any) (pgconn.CommandTag, error) {
	mockArgs := m.Called(ctx, query, args)
	return mockArgs.Get(0).(pgconn.CommandTag), mockArgs.Error(1)
}

func (m *MockDBTX) Query(ctx context.Context, query string, args ...any) (pgx.Rows, error) {
	mockArgs := m.Called(ctx, query, args)
	rows, _ := mockArgs.Get(0).(pgx.Rows)
	return rows, mockArgs.Error(1)
}

func (m *MockDBTX) QueryRow(ctx context.Context, query string, args ...any) pgx.Row {
	mockArgs := m.Called(ctx, query, args)
	return mockArgs.Get(0).(pgx.Row)
}

// stubRow fills Scan destinations through fill, or fails with err.
type stubRow struct {
	fill func(dest ...any)
	err  error
}

func (r stubRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	r.fill(dest...)
	return nil
}

func TestFindByEmail(t *testing.T) {
	testUser := builder.NewUserBuilder().BuildReadModel()
	inactiveUser := builder.NewUserBuilder().AsInactive().BuildReadModel()

	tests := []struct {
		name      string
		email     string
		row       stubRow
		wantUser  bool
		wantHash  string
		wantKind  infra.RepositoryErrorKind
		wantError bool
	}{
		{
			name:  "success - active user",
			email: testUser.Email,
			row: stubRow{fill: func(dest ...any) {
				*dest[0].(*uuid.UUID) = testUser.ID
				*dest[1].(*string) = testUser.Email
				*dest[2].(*string) = testUser.Role
				*dest[6].(*bool) = true
				*dest[7].(*string) = "hashed_password"
			}},
			wantUser: true,
			wantHash: "hashed_password",
		},
		{
			name:  "success - inactive user (for validation)",
			email: inactiveUser.Email,
			row: stubRow{fill: func(dest ...any) {
				*dest[0].(*uuid.UUID) = inactiveUser.ID
				*dest[1].(*string) = inactiveUser.Email
				*dest[6].(*bool) = false
				*dest[7].(*string) = "other_hash"
			}},
			wantUser: true,
			wantHash: "other_hash",
		},
		{
			name:      "user not found",
			email:     "notfound@example.com",
			row:       stubRow{err: pgx.ErrNoRows},
			wantKind:  infra.KindNotFound,
			wantError: true,
		},
		{
			name:      "database error",
			email:     testUser.Email,
			row:       stubRow{err: assert.AnError},
			wantKind:  infra.KindDBFailure,
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockDB := new(MockDBTX)
			mockDB.On("QueryRow", mock.Anything, findUserByEmailSQL, []any{tt.email}).Return(tt.row)

			store := NewUserReadStore(mockDB)
			user, hash, err := store.FindByEmail(context.Background(), tt.email)

			if tt.wantError {
				assert.Error(t, err)
				assert.Nil(t, user)
				assert.Empty(t, hash)
				assert.True(t, infra.IsKind(err, tt.wantKind))
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, user)
				assert.Equal(t, tt.email, user.Email)
				assert.Equal(t, tt.wantHash, hash)
			}

			mockDB.AssertExpectations(t)
		})
	}
}

func TestFindByID(t *testing.T) {
	id := uuid.New()

	t.Run("success", func(t *testing.T) {
		mockDB := new(MockDBTX)
		mockDB.On("QueryRow", mock.Anything, findUserByIDSQL, []any{id}).Return(stubRow{fill: func(dest ...any) {
			*dest[0].(*uuid.UUID) = id
			*dest[2].(*string) = "pump_admin"
			*dest[6].(*bool) = true
		}})

		user, err := NewUserReadStore(mockDB).FindByID(context.Background(), id)
		assert.NoError(t, err)
		assert.Equal(t, id, user.ID)
		assert.Equal(t, "pump_admin", user.Role)
		assert.True(t, user.IsActive)
	})

	t.Run("not found", func(t *testing.T) {
		mockDB := new(MockDBTX)
		mockDB.On("QueryRow", mock.Anything, findUserByIDSQL, []any{id}).Return(stubRow{err: pgx.ErrNoRows})

		user, err := NewUserReadStore(mockDB).FindByID(context.Background(), id)
		assert.Nil(t, user)
		assert.True(t, infra.IsKind(err, infra.KindNotFound))
	})
}
