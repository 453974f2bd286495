package router

import (
	"github.com/oksasatya/go-otp-auth/internal/container"
	handlers "github.com/oksasatya/go-otp-auth/internal/interface/http"
	"github.com/oksasatya/go-otp-auth/internal/router/modules"
)

// InitModules builds the handlers from c and adds every module to r.
// Call RegisterAll afterwards.
func InitModules(r *Registry, c *container.Container) {
	authHandler := handlers.NewAuthHandler(c.Auth, c.Logger)
	r.Add(modules.NewAuthModule(authHandler, c.Auth))

	health := handlers.NewHealthHandler(c.HealthChecks)
	if c.Registry != nil {
		r.AddRoot(modules.NewOpsModule(health, c.Registry))
		return
	}
	r.AddRoot(modules.NewOpsModule(health, nil))
}
