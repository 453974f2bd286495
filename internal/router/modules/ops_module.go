package modules

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"

	handlers "github.com/oksasatya/go-otp-auth/internal/interface/http"
	"github.com/oksasatya/go-otp-auth/internal/metrics"
)

// OpsModule serves /healthz and, when a gatherer is set, /metrics.
type OpsModule struct {
	Health   *handlers.HealthHandler
	Gatherer prometheus.Gatherer
}

func NewOpsModule(health *handlers.HealthHandler, gatherer prometheus.Gatherer) *OpsModule {
	return &OpsModule{Health: health, Gatherer: gatherer}
}

func (m *OpsModule) Register(rg *gin.RouterGroup) {
	rg.GET("/healthz", m.Health.Health)
	if m.Gatherer != nil {
		rg.GET("/metrics", gin.WrapH(metrics.Handler(m.Gatherer)))
	}
}
