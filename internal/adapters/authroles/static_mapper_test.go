package authroles

import (
	"testing"

	"github.com/stretchr/testify/assert"

	domainauth "github.com/tenderwatch/tenderwatch-api/internal/domain/auth"
)

func TestStaticRoleMapper_Map(t *testing.T) {
	tests := []struct {
		name   string
		mapper StaticRoleMapper
		groups []string
		want   domainauth.Role
	}{
		{"admin group wins", StaticRoleMapper{AdminGroup: "admins", UserGroup: "users"}, []string{"users", "admins"}, domainauth.RoleAdmin},
		{"user group", StaticRoleMapper{AdminGroup: "admins", UserGroup: "users"}, []string{"users"}, domainauth.RoleUser},
		{"not in any group", StaticRoleMapper{AdminGroup: "admins", UserGroup: "users"}, []string{"other"}, domainauth.RoleGuest},
		{"open user group", StaticRoleMapper{AdminGroup: "admins"}, nil, domainauth.RoleUser},
		{"open user group admin", StaticRoleMapper{AdminGroup: "admins"}, []string{"admins"}, domainauth.RoleAdmin},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.mapper.Map(tt.groups))
		})
	}
}
