package server

import "github.com/jrsteele09/hifz-auth/users"

func (s *Server) initRoutes() {
	s.RegisterRouteFunc("GET "+RouteHealth, ChainMiddleware(s.HealthHandler(), s.RecoverMiddleware))

	// Sign in
	s.RegisterRouteHandler("POST "+RouteAPILogin, ChainMiddleware(s.LoginHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("POST "+RouteAPILogout, ChainMiddleware(s.LogoutHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("POST "+RouteAPIRefresh, ChainMiddleware(s.RefreshHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("GET "+RouteAPIMe, ChainMiddleware(s.MeHandler(), s.APIMiddleware(s.RequireAuth())...))

	// Center picker on the sign in screen
	s.RegisterRouteHandler("GET "+RouteAPICenters, ChainMiddleware(s.CentersHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("GET "+RouteAPIAdminCenters, ChainMiddleware(s.AdminCentersHandler(),
		s.APIMiddleware(s.RequireAuth(), s.RequireRole(users.RoleSuperAdmin))...))

	// CORS preflight for every API route
	s.RegisterRouteHandler("OPTIONS "+RouteAPIPrefix, ChainMiddleware(s.PreflightHandler(), s.APIMiddleware()...))
}
