// Package routes declares the HTTP surface of the application.
package routes

import (
	"net/http"
	"time"

	"github.com/rewearhq/rewear/app/controllers"
	"github.com/rewearhq/rewear/app/graph"
	"github.com/rewearhq/rewear/app/models"
	gql "github.com/rewearhq/rewear/pkg/graphql"
	"github.com/rewearhq/rewear/pkg/logger"
	"github.com/rewearhq/rewear/pkg/metrics"
	"github.com/rewearhq/rewear/pkg/middleware"
	"github.com/rewearhq/rewear/pkg/rbac"
	"github.com/rewearhq/rewear/pkg/response"
	"github.com/rewearhq/rewear/pkg/router"
	"github.com/rewearhq/rewear/pkg/ws"
)

// RegisterAPI mounts every route. hub must already be running.
func RegisterAPI(r *router.Router, hub *ws.Hub) {
	auth := controllers.NewAuthController()
	users := controllers.NewUserController()
	items := controllers.NewItemController()
	swaps := controllers.NewSwapController()
	points := controllers.NewPointsController()
	redemptions := controllers.NewRedemptionController()
	categories := controllers.NewCategoryController()
	messages := controllers.NewMessageController()

	r.Get("/healthz", "healthz", func(w http.ResponseWriter, _ *http.Request) {
		response.Success(w, map[string]string{"status": "ok"})
	})
	r.HandleFunc("/metrics", metrics.Handler())

	api := r.Group("/api")

	// Public surface.
	api.Post("/users", "users.register", auth.Register,
		middleware.RateLimit(10, time.Minute))
	api.Post("/auth/login", "auth.login", auth.Login,
		middleware.RateLimit(20, time.Minute))
	api.Post("/auth/refresh", "auth.refresh", auth.Refresh)
	api.Get("/items", "items.list", items.List)
	api.Get("/items/featured", "items.featured", items.Featured)
	api.Get("/items/{id}", "items.get", items.Get)
	api.Get("/categories", "categories.list", categories.List)

	schema, err := graph.NewSchema()
	if err != nil {
		logger.Error("graphql schema build failed", "error", err)
	} else {
		api.Get("/graphql", "graphql.get", gql.Handler(schema))
		api.Post("/graphql", "graphql.post", gql.Handler(schema))
	}

	// Authenticated surface.
	protected := api.Group("", middleware.Auth)

	protected.Get("/users/me", "users.me", users.Me)
	protected.Get("/users/{id}", "users.get", users.Get)
	protected.Put("/users/{id}", "users.update", users.Update)
	protected.Delete("/users/{id}", "users.delete", users.Delete)

	protected.Get("/items/mine", "items.mine", items.Mine)
	protected.Post("/items", "items.create", items.Create)
	protected.Put("/items/{id}", "items.update", items.Update)
	protected.Delete("/items/{id}", "items.delete", items.Delete)
	protected.Post("/items/{id}/images", "items.images.upload", items.UploadImage)

	protected.Get("/swaps", "swaps.list", swaps.List)
	protected.Get("/swaps/{id}", "swaps.get", swaps.Get)
	protected.Post("/swaps", "swaps.create", swaps.Create)
	protected.Put("/swaps/{id}", "swaps.update", swaps.UpdateStatus)
	protected.Delete("/swaps/{id}", "swaps.cancel", swaps.Cancel)

	protected.Get("/points", "points.list", points.List)
	protected.Get("/points/{id}", "points.get", points.Get)

	protected.Get("/redemptions", "redemptions.list", redemptions.List)
	protected.Get("/redemptions/{id}", "redemptions.get", redemptions.Get)
	protected.Post("/redemptions", "redemptions.create", redemptions.Create)

	protected.Get("/messages", "messages.list", messages.List)
	protected.Post("/messages", "messages.create", messages.Create)
	protected.Put("/messages/{id}/read", "messages.read", messages.MarkRead)

	// Admin surface.
	admin := protected.Group("", rbac.HasRole(models.RoleAdmin))
	admin.Get("/users", "users.list", users.List)
	admin.Post("/items/{id}/approve", "items.approve", items.Approve)
	admin.Post("/points", "points.adjust", points.Adjust)
	admin.Post("/redemptions/{id}/approve", "redemptions.approve", redemptions.Approve)
	admin.Post("/redemptions/{id}/reject", "redemptions.reject", redemptions.Reject)
	admin.Post("/categories", "categories.create", categories.Create)

	// Live notifications. Token comes via ?token= since browsers cannot set
	// headers on WebSocket dials.
	r.Get("/ws/notifications", "ws.notifications",
		func(w http.ResponseWriter, r *http.Request) {
			userID, ok := middleware.UserIDFromCtx(r)
			if !ok {
				response.Unauthorized(w)
				return
			}
			ws.UpgradeUser(w, r, hub, userID)
		}, middleware.Auth)
}
