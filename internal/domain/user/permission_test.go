package user

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHasPermission(t *testing.T) {
	assert.True(t, HasPermission(RoleOwner, PermissionWorkLogManageAll))
	assert.False(t, HasPermission(RoleManager, PermissionWorkLogManageAll))
	assert.True(t, HasPermission(RoleManager, PermissionAttendanceApprove))
	assert.False(t, HasPermission(RoleEmployee, PermissionAttendanceApprove))
	assert.False(t, HasPermission(Role("pending"), PermissionAttendanceCreate))
}

func TestIdentity_CanAccessUser(t *testing.T) {
	employee := Identity{UserID: "u-1", Role: RoleEmployee}
	manager := Identity{UserID: "u-2", Role: RoleManager}

	assert.True(t, employee.CanAccessUser("u-1"))
	assert.False(t, employee.CanAccessUser("u-2"))
	assert.True(t, manager.CanAccessUser("u-1"))
	assert.True(t, manager.IsManager())
	assert.False(t, employee.IsManager())
}
