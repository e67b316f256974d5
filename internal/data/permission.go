package data

import (
	"context"
	"fmt"

	"github.com/mobilemsg/push-js-bridge/internal/biz/repo"
)

// PermissionBoundary asks the host platform to resolve a runtime permission
// prompt. The call blocks until the dialog resolves or ctx expires.
type PermissionBoundary interface {
	RequestPermission(ctx context.Context, permission string) (bool, error)
}

const permissionLocation = "location"

// permissionChecker resolves permission checks over the runtime boundary.
// Any internal failure resolves to denied.
type permissionChecker struct {
	boundary PermissionBoundary
}

// NewPermissionChecker creates a checker backed by the host platform.
func NewPermissionChecker(boundary PermissionBoundary) repo.PermissionChecker {
	return &permissionChecker{boundary: boundary}
}

func (c *permissionChecker) RequestLocationPermission(ctx context.Context) bool {
	granted, err := c.boundary.RequestPermission(ctx, permissionLocation)
	if err != nil {
		fmt.Printf("[Permission] Location permission check failed, treating as denied: %v\n", err)
		return false
	}
	return granted
}
