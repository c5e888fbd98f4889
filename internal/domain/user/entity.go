package user

import (
	"time"

	"github.com/google/uuid"
)

// User is the account behind a session: customers own bookings, staff redeem tokens.
type User struct {
	id            uuid.UUID
	email         Email
	passwordHash  string
	role          Role
	fullName      string
	vehicleNumber *string
	phone         *string
	lastLogin     *time.Time
	isActive      bool
	createdAt     time.Time
	updatedAt     time.Time
}

func NewUser(email Email, passwordHash string, role Role, fullName string, vehicleNumber, phone *string) *User {
	return &User{
		id:            uuid.New(),
		email:         email,
		passwordHash:  passwordHash,
		role:          role,
		fullName:      fullName,
		vehicleNumber: vehicleNumber,
		phone:         phone,
		isActive:      true,
	}
}

func (u *User) ID() uuid.UUID          { return u.id }
func (u *User) Email() Email           { return u.email }
func (u *User) PasswordHash() string   { return u.passwordHash }
func (u *User) Role() Role             { return u.role }
func (u *User) FullName() string       { return u.fullName }
func (u *User) VehicleNumber() *string { return u.vehicleNumber }
func (u *User) Phone() *string         { return u.phone }
func (u *User) LastLogin() *time.Time  { return u.lastLogin }
func (u *User) IsActive() bool         { return u.isActive }
func (u *User) CreatedAt() time.Time   { return u.createdAt }
func (u *User) UpdatedAt() time.Time   { return u.updatedAt }
