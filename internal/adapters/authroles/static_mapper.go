// Package authroles maps identity provider groups to application roles.
package authroles

import (
	domainauth "github.com/tenderwatch/tenderwatch-api/internal/domain/auth"
)

// StaticRoleMapper grants admin to members of AdminGroup. Members of
// UserGroup get the user role; when UserGroup is empty every authenticated
// identity does. Everyone else is a guest.
type StaticRoleMapper struct {
	AdminGroup string
	UserGroup  string
}

func (m StaticRoleMapper) Map(groups []string) domainauth.Role {
	isUser := m.UserGroup == ""
	for _, g := range groups {
		if m.AdminGroup != "" && g == m.AdminGroup {
			return domainauth.RoleAdmin
		}
		if g == m.UserGroup {
			isUser = true
		}
	}
	if isUser {
		return domainauth.RoleUser
	}
	return domainauth.RoleGuest
}
