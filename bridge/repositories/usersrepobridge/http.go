// Package usersrepobridge serves the profile and admin user endpoints.
package usersrepobridge

import (
	"github.com/kingjawir/marketplace/bridge/scaffolding/mid"
	"github.com/kingjawir/marketplace/core/repositories/schemamigrationsrepo"
	"github.com/kingjawir/marketplace/core/repositories/usersrepo"
	"github.com/kingjawir/marketplace/infrastructure/web"
	"github.com/kingjawir/marketplace/sdk/logger"
)

// Config holds configuration for the user bridge.
type Config struct {
	Log        *logger.Logger
	Repository *usersrepo.Repository
	Migrations *schemamigrationsrepo.Repository
	// MigrationFiles are the embedded migration names, used to report
	// pending migrations.
	MigrationFiles []string
	// Authenticated guards every route.
	Authenticated web.Middleware
}

// AddHttpRoutes registers the profile and admin user routes.
func AddHttpRoutes(group *web.RouteGroup, cfg Config) {
	b := newBridge(cfg)

	group.GET("/profile", b.httpProfile, cfg.Authenticated)
	group.PUT("/profile", b.httpUpdateProfile, cfg.Authenticated)
	group.PUT("/profile/avatar", b.httpUpdateAvatar, cfg.Authenticated)

	admin := group.Group("/admin", cfg.Authenticated, mid.RequireRoles(mid.RoleAdmin))
	admin.GET("/users", b.httpList)
	admin.GET("/users/{user_id}", b.httpGetByID)
	admin.PUT("/users/{user_id}/role", b.httpUpdateRole)
	admin.DELETE("/users/{user_id}", b.httpDelete)
	admin.GET("/migrations", b.httpMigrations)
}
