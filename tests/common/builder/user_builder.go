//go:build unit || e2e

package builder

import (
	"cng-slot-booking/internal/domain/user"
	"cng-slot-booking/internal/usecase/queries"

	"github.com/google/uuid"
)

type UserBuilder struct {
	Email         string
	PasswordHash  string
	Role          string
	FullName      string
	VehicleNumber *string
	Phone         *string
	IsActive      bool
}

func NewUserBuilder() *UserBuilder {
	vehicle := "KA01AB1234"
	phone := "+919800000000"
	return &UserBuilder{
		Email:         "test@example.com",
		PasswordHash:  "hashed_password",
		Role:          "customer",
		FullName:      "Test Customer",
		VehicleNumber: &vehicle,
		Phone:         &phone,
		IsActive:      true,
	}
}

func (u *UserBuilder) With(mutate func(*UserBuilder)) *UserBuilder {
	mutate(u)
	return u
}

// Build methods
func (u *UserBuilder) BuildDomain() (*user.User, error) {
	email, err := user.NewEmail(u.Email)
	if err != nil {
		return nil, err
	}

	role, err := user.NewRole(u.Role)
	if err != nil {
		return nil, err
	}

	return user.NewUser(email, u.PasswordHash, role, u.FullName, u.VehicleNumber, u.Phone), nil
}

func (u *UserBuilder) BuildReadModel() *queries.AuthorizedUserView {
	return &queries.AuthorizedUserView{
		ID:            uuid.New(),
		Email:         u.Email,
		Role:          u.Role,
		FullName:      u.FullName,
		VehicleNumber: u.VehicleNumber,
		Phone:         u.Phone,
		IsActive:      u.IsActive,
	}
}

// Fluent builder methods
func (u *UserBuilder) WithEmail(email string) *UserBuilder {
	u.Email = email
	return u
}

func (u *UserBuilder) WithRole(role string) *UserBuilder {
	u.Role = role
	return u
}

func (u *UserBuilder) WithPasswordHash(hash string) *UserBuilder {
	u.PasswordHash = hash
	return u
}

func (u *UserBuilder) WithVehicle(number string) *UserBuilder {
	u.VehicleNumber = &number
	return u
}

func (u *UserBuilder) WithoutVehicle() *UserBuilder {
	u.VehicleNumber = nil
	return u
}

func (u *UserBuilder) AsInactive() *UserBuilder {
	u.IsActive = false
	return u
}
