package server

// Route path constants
// All application routes are defined here to ensure consistency and prevent typos
const (
	// Sign in
	RouteAPILogin   = "/api/auth/login"
	RouteAPILogout  = "/api/auth/logout"
	RouteAPIRefresh = "/api/auth/refresh"
	RouteAPIMe      = "/api/auth/me"

	// Centers
	RouteAPICenters      = "/api/centers"
	RouteAPIAdminCenters = "/api/admin/centers"

	RouteAPIPrefix = "/api/"
	RouteHealth    = "/health"
)
