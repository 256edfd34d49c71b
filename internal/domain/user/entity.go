package user

type Role string

const (
	RoleOwner    Role = "owner"    // Organization owner - full access
	RoleManager  Role = "manager"  // Can review attendance and read team stats
	RoleEmployee Role = "employee" // Regular employee
)

var RoleValues = []string{
	string(RoleOwner),
	string(RoleManager),
	string(RoleEmployee),
}

// Identity is the authenticated caller as supplied by the auth collaborator.
type Identity struct {
	UserID string
	Role   Role
}

// IsManager checks if the caller is manager or owner
func (i Identity) IsManager() bool {
	return i.Role == RoleManager || i.Role == RoleOwner
}

// Can checks the caller's role against a permission
func (i Identity) Can(permission Permission) bool {
	return HasPermission(i.Role, permission)
}

// CanAccessUser reports whether the caller may read data scoped to userID.
func (i Identity) CanAccessUser(userID string) bool {
	return i.UserID == userID || i.Can(PermissionReportsView)
}
