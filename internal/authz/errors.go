package authz

import "errors"

var (
	// ErrMissingTenant indicates the guard ran without a resolved tenant in
	// context. This is caller misconfiguration, not a user-facing denial.
	ErrMissingTenant = errors.New("authz: tenant context missing")
	// ErrUnauthenticated indicates no usable user identity on the request.
	ErrUnauthenticated = errors.New("authz: unauthenticated")
	// ErrAccountInactive indicates the user exists but is disabled.
	ErrAccountInactive = errors.New("authz: account not active")
	// ErrPermissionDenied indicates the evaluator rejected the requirement.
	ErrPermissionDenied = errors.New("authz: insufficient permissions")
)
