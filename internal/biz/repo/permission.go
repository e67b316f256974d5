package repo

import "context"

// PermissionChecker resolves runtime permission prompts on platforms that
// require them. The check suspends the caller until the platform dialog
// resolves; internal failures resolve to denied.
type PermissionChecker interface {
	// RequestLocationPermission reports whether the location permission is
	// granted. Cancellation of ctx resolves to denied.
	RequestLocationPermission(ctx context.Context) bool
}
