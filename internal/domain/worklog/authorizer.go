package worklog

import "github.com/cmlabs-hris/worktime-backend-go/internal/domain/user"

// Authorizer decides whether caller may change a log. The work log service
// only calls the hook; role rules live with the identity collaborator.
type Authorizer interface {
	CanModify(caller user.Identity, log WorkLog) bool
	CanActFor(caller user.Identity, userID string) bool
}

// OwnerOrAdmin allows the log's owner or any role holding worklog.manage_all.
type OwnerOrAdmin struct{}

func (OwnerOrAdmin) CanModify(caller user.Identity, log WorkLog) bool {
	return caller.UserID == log.UserID || caller.Can(user.PermissionWorkLogManageAll)
}

func (OwnerOrAdmin) CanActFor(caller user.Identity, userID string) bool {
	return caller.UserID == userID || caller.Can(user.PermissionWorkLogManageAll)
}
