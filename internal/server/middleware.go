// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package server

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/unityvote/unityvote/internal/config"
	"github.com/unityvote/unityvote/internal/handlers"
	"github.com/unityvote/unityvote/internal/models"
	"github.com/unityvote/unityvote/internal/services/session"
)

func setupMiddleware(e *echo.Echo, cfg *config.Config) {
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(requestLogger())
	e.Use(middleware.Secure())
	e.Use(middleware.BodyLimit(fmt.Sprintf("%dM", cfg.Server.MaxBodySize)))
}

// requestLogger returns middleware that logs requests using slog.
func requestLogger() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:   true,
		LogURI:      true,
		LogMethod:   true,
		LogLatency:  true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			attrs := []slog.Attr{
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.Int("status", v.Status),
				slog.Duration("latency", v.Latency),
			}

			if v.Error != nil {
				attrs = append(attrs, slog.String("error", v.Error.Error()))
				slog.LogAttrs(c.Request().Context(), slog.LevelError, "request", attrs...)
			} else {
				slog.LogAttrs(c.Request().Context(), slog.LevelInfo, "request", attrs...)
			}

			return nil
		},
	})
}

// requireAdmin resolves the session cookie to an active admin and rejects the
// request otherwise.
func requireAdmin(sessions *session.Manager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			admin, sess, err := sessions.Validate(c.Request().Context(), c.Request())
			if err != nil {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "not authenticated"})
			}
			handlers.SetCurrentAdmin(c, admin, sess)
			return next(c)
		}
	}
}

// requireRole rejects authenticated requests whose admin lacks the role.
// Runs after requireAdmin.
func requireRole(role string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			admin := handlers.CurrentAdmin(c)
			if admin == nil || admin.Role != role {
				return c.JSON(http.StatusForbidden, map[string]string{"error": "insufficient permissions"})
			}
			return next(c)
		}
	}
}

func setupRoutes(e *echo.Echo, h *handlers.Handlers, sessions *session.Manager) {
	e.GET("/health", h.Health)

	api := e.Group("/api")

	// Public voting API
	api.POST("/votes", h.CastVote)
	api.PATCH("/votes/:id/verify", h.ConfirmVote)
	api.GET("/contests", h.ListContests)
	api.GET("/contests/:id", h.GetContest)
	api.GET("/contests/:id/categories", h.ListCategories)
	api.GET("/contestants", h.ListContestants)
	api.GET("/contestants/:id", h.GetContestant)

	// Auth
	api.POST("/auth/login", h.Login)
	api.POST("/auth/verify-otp", h.VerifyOTP)
	api.GET("/invitations/verify", h.VerifyInvitation)
	api.POST("/invitations/accept", h.AcceptInvitation)

	// Admin portal API
	admin := api.Group("", requireAdmin(sessions))
	admin.GET("/auth/session", h.Session)
	admin.DELETE("/auth/session", h.Logout)

	admin.POST("/contests", h.CreateContest)
	admin.PATCH("/contests/:id", h.UpdateContest)
	admin.DELETE("/contests/:id", h.DeleteContest)
	admin.PATCH("/categories/:id", h.UpdateCategory)
	admin.DELETE("/categories/:id", h.DeleteCategory)
	admin.POST("/contestants", h.CreateContestant)
	admin.PATCH("/contestants/:id", h.UpdateContestant)
	admin.DELETE("/contestants/:id", h.DeleteContestant)

	// Account management is restricted to full admins
	manage := admin.Group("", requireRole(models.RoleAdmin))
	manage.POST("/invitations", h.Invite)
	manage.GET("/invitations", h.ListInvitations)
	manage.DELETE("/invitations/:id", h.RevokeInvitation)
	manage.GET("/admins", h.ListAdmins)
	manage.PATCH("/admins/:id", h.UpdateAdmin)
	manage.DELETE("/admins/:id", h.DeleteAdmin)
}
