// Package authcasebridge serves the /auth endpoints and manages the auth
// cookies.
package authcasebridge

import (
	"github.com/kingjawir/marketplace/core/cases/authcase"
	"github.com/kingjawir/marketplace/infrastructure/web"
	"github.com/kingjawir/marketplace/sdk/logger"
)

type Config struct {
	Log     *logger.Logger
	Case    *authcase.Case
	Cookies web.CookieOptions
	// AppURL is where the browser lands after Google sign in.
	AppURL        string
	Authenticated web.Middleware
}

// AddHttpRoutes registers the auth routes.
func AddHttpRoutes(group *web.RouteGroup, cfg Config) {
	b := newBridge(cfg)

	auth := group.Group("/auth")
	auth.POST("/register", b.httpRegister)
	auth.POST("/login", b.httpLogin)
	auth.POST("/refresh", b.httpRefresh)
	auth.POST("/logout", b.httpLogout)
	auth.GET("/me", b.httpMe, cfg.Authenticated)

	auth.GET("/verify-email", b.httpVerifyEmailLink)
	auth.POST("/verify-email", b.httpVerifyEmail)
	auth.POST("/resend-verification", b.httpResendVerification)
	auth.POST("/forgot-password", b.httpForgotPassword)
	auth.POST("/reset-password", b.httpResetPassword)
	auth.POST("/change-password", b.httpChangePassword, cfg.Authenticated)

	auth.GET("/google", b.httpGoogleStart)
	auth.GET("/google/callback", b.httpGoogleCallback)
}
