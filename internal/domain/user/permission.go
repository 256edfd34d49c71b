package user

type Permission string

const (
	// Attendance
	PermissionAttendanceViewOwn Permission = "attendance.view_own"
	PermissionAttendanceCreate  Permission = "attendance.create"
	PermissionAttendanceViewAll Permission = "attendance.view_all"
	PermissionAttendanceApprove Permission = "attendance.approve"

	// Work logs
	PermissionWorkLogViewOwn   Permission = "worklog.view_own"
	PermissionWorkLogCreate    Permission = "worklog.create"
	PermissionWorkLogManageAll Permission = "worklog.manage_all"

	// Reports
	PermissionReportsView Permission = "reports.view"
)

// RolePermissions maps roles to their permissions
var RolePermissions = map[Role][]Permission{
	RoleOwner: {
		PermissionAttendanceViewOwn,
		PermissionAttendanceCreate,
		PermissionAttendanceViewAll,
		PermissionAttendanceApprove,
		PermissionWorkLogViewOwn,
		PermissionWorkLogCreate,
		PermissionWorkLogManageAll,
		PermissionReportsView,
	},
	RoleManager: {
		// Manager reviews attendance and reads team data, but only edits own logs
		PermissionAttendanceViewOwn,
		PermissionAttendanceCreate,
		PermissionAttendanceViewAll,
		PermissionAttendanceApprove,
		PermissionWorkLogViewOwn,
		PermissionWorkLogCreate,
		PermissionReportsView,
	},
	RoleEmployee: {
		PermissionAttendanceViewOwn,
		PermissionAttendanceCreate,
		PermissionWorkLogViewOwn,
		PermissionWorkLogCreate,
	},
}

// HasPermission checks if a role has a specific permission
func HasPermission(role Role, permission Permission) bool {
	permissions, exists := RolePermissions[role]
	if !exists {
		return false
	}

	for _, p := range permissions {
		if p == permission {
			return true
		}
	}

	return false
}
