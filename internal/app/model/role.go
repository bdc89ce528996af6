package model

import (
	"fmt"
	"strings"
)

type UserRole string // closed set of caller roles carried in the JWT

const (
	RoleAdmin           UserRole = "admin"
	RoleHRManager       UserRole = "hr_manager"
	RoleDeliveryManager UserRole = "delivery_manager"
	RoleDeliveryPerson  UserRole = "delivery_person"
	RoleEmployee        UserRole = "employee"
	RoleCustomer        UserRole = "customer"
)

// Valid reports whether r is one of the known roles.
func (r UserRole) Valid() bool {
	switch r {
	case RoleAdmin, RoleHRManager, RoleDeliveryManager, RoleDeliveryPerson, RoleEmployee, RoleCustomer:
		return true
	}
	return false
}

// IsStaff reports whether r belongs to an employee of the store.
func (r UserRole) IsStaff() bool {
	switch r {
	case RoleAdmin, RoleHRManager, RoleDeliveryManager, RoleDeliveryPerson, RoleEmployee:
		return true
	case RoleCustomer:
		return false
	}
	return false
}

// ParseUserRole accepts the legacy upper-case spellings ("HR_MANAGER").
func ParseUserRole(s string) (UserRole, error) {
	role := UserRole(strings.ToLower(strings.TrimSpace(s)))
	if !role.Valid() {
		return "", fmt.Errorf("unknown role %q", s)
	}
	return role, nil
}
