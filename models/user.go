package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

// Role determines which operations a user may perform. It is fixed at
// registration time; no endpoint changes it afterwards.
type Role string

const (
	RoleCitizen Role = "citizen"
	RoleStaff   Role = "staff"
	RoleAdmin   Role = "admin"
)

// AccountStatus gates access at the account level. Blocked and terminated
// accounts cannot log in, and already-issued tokens stop working on the next
// request.
type AccountStatus string

const (
	StatusActive     AccountStatus = "active"
	StatusBlocked    AccountStatus = "blocked"
	StatusTerminated AccountStatus = "terminated"
)

// ValidAccountStatus reports whether s is one of the three account statuses.
func ValidAccountStatus(s AccountStatus) bool {
	switch s {
	case StatusActive, StatusBlocked, StatusTerminated:
		return true
	}
	return false
}

type User struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name      string             `bson:"name" json:"name"`
	Email     string             `bson:"email" json:"email"`
	Password  string             `bson:"password,omitempty" json:"-"`
	Role      Role               `bson:"role" json:"role"`
	Status    AccountStatus      `bson:"status" json:"status"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

func (u *User) HashPassword() error {
	hashed, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hashed)
	return nil
}

func (u *User) ComparePassword(candidate string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(candidate))
	return err == nil
}

// UserCounts aggregates user totals for the admin summary.
type UserCounts struct {
	Total    int64 `json:"total"`
	Citizens int64 `json:"citizens"`
	Staff    int64 `json:"staff"`
	Admins   int64 `json:"admins"`
}
