package entity

import (
	"slices"
	"time"
)

type UserRole string

const (
	RoleAdmin    UserRole = "admin"
	RoleManager  UserRole = "manager"
	RoleCashier  UserRole = "cashier"
	RoleCustomer UserRole = "customer"
)

// StaffRoles may operate the cashier and management surfaces.
var StaffRoles = []UserRole{RoleAdmin, RoleManager, RoleCashier}

type User struct {
	Base
	Name                  string     `db:"name"`
	Email                 string     `db:"email"`
	PasswordHash          string     `db:"password"`
	Phone                 *string    `db:"phone"`
	Roles                 []string   `db:"roles"`
	IsActive              bool       `db:"is_active"`
	IsBanned              bool       `db:"is_banned"`
	BannedAt              *time.Time `db:"banned_at"`
	FailedDeliveriesCount int        `db:"failed_deliveries_count"`
}

func (u *User) HasRole(roles ...UserRole) bool {
	for _, role := range roles {
		if slices.Contains(u.Roles, string(role)) {
			return true
		}
	}
	return false
}

func (u *User) IsStaff() bool {
	return u.HasRole(StaffRoles...)
}

// RecordFailedDelivery bumps the counter and bans the user once it reaches
// threshold. BannedAt keeps the time of the first ban. Returns true when this
// call banned the user.
func (u *User) RecordFailedDelivery(threshold int, now time.Time) bool {
	u.FailedDeliveriesCount++
	if u.FailedDeliveriesCount < threshold {
		return false
	}

	newlyBanned := !u.IsBanned
	u.IsBanned = true
	if u.BannedAt == nil {
		u.BannedAt = &now
	}
	return newlyBanned
}

func RoleStrings(roles ...UserRole) []string {
	out := make([]string, len(roles))
	for i, role := range roles {
		out[i] = string(role)
	}
	return out
}
