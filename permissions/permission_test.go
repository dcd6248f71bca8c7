package permissions_test

import (
	"campusroom/permissions"
	"campusroom/shared/failure"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	t.Run("KnownRoles", func(t *testing.T) {
		for _, value := range []string{"admin", "lecturer", "class_rep", "student"} {
			role, err := permissions.ParseRole(value)
			require.NoError(t, err)
			assert.Equal(t, permissions.Role(value), role)
		}
	})

	t.Run("UnknownRoleRejected", func(t *testing.T) {
		_, err := permissions.ParseRole("superuser")
		require.Error(t, err)
		assert.Equal(t, http.StatusForbidden, failure.GetCode(err))
	})

	t.Run("EmptyRoleRejected", func(t *testing.T) {
		_, err := permissions.ParseRole("")
		require.Error(t, err)
	})
}

func TestCan(t *testing.T) {
	testCases := []struct {
		role    permissions.Role
		action  permissions.Action
		allowed bool
	}{
		{permissions.RoleAdmin, permissions.ActionApproveBooking, true},
		{permissions.RoleAdmin, permissions.ActionCancelAny, true},
		{permissions.RoleLecturer, permissions.ActionApproveBooking, true},
		{permissions.RoleLecturer, permissions.ActionRejectBooking, true},
		{permissions.RoleLecturer, permissions.ActionCreateBooking, false},
		{permissions.RoleClassRep, permissions.ActionCreateBooking, true},
		{permissions.RoleClassRep, permissions.ActionCancelOwn, true},
		{permissions.RoleClassRep, permissions.ActionApproveBooking, false},
		{permissions.RoleStudent, permissions.ActionCreateBooking, false},
		{permissions.RoleStudent, permissions.ActionCancelOwn, false},
		{permissions.Role("ghost"), permissions.ActionCreateBooking, false},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.allowed, permissions.Can(tc.role, tc.action), "%s / %s", tc.role, tc.action)
	}
}

func TestVisibility(t *testing.T) {
	assert.Equal(t, permissions.ScopeAll, permissions.Visibility(permissions.RoleAdmin))
	assert.Equal(t, permissions.ScopeAll, permissions.Visibility(permissions.RoleLecturer))
	assert.Equal(t, permissions.ScopeCourse, permissions.Visibility(permissions.RoleClassRep))
	assert.Equal(t, permissions.ScopeCourse, permissions.Visibility(permissions.RoleStudent))
	assert.Equal(t, permissions.ScopeOwn, permissions.Visibility(permissions.Role("ghost")))
}

func TestPrincipalRequire(t *testing.T) {
	t.Run("Granted", func(t *testing.T) {
		principal := permissions.Principal{UserID: "u1", Role: permissions.RoleClassRep, CourseID: "c1"}
		assert.NoError(t, principal.Require(permissions.ActionCreateBooking))
	})

	t.Run("DeniedNamesCapability", func(t *testing.T) {
		principal := permissions.Principal{UserID: "u2", Role: permissions.RoleStudent}

		err := principal.Require(permissions.ActionCreateBooking)
		require.Error(t, err)
		assert.Equal(t, http.StatusForbidden, failure.GetCode(err))
		assert.Contains(t, err.Error(), "booking:create")
	})
}

func TestCapabilitiesCopy(t *testing.T) {
	caps := permissions.Capabilities(permissions.RoleLecturer)
	require.NotEmpty(t, caps)

	caps[0] = permissions.ActionManageUsers
	assert.False(t, permissions.Can(permissions.RoleLecturer, permissions.ActionManageUsers))
}
