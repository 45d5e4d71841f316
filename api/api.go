package api

import (
	"github.com/gin-gonic/gin"

	"github.com/spendtrail/spendtrail"
	"github.com/spendtrail/spendtrail/admission"
	"github.com/spendtrail/spendtrail/api/middleware"
	"github.com/spendtrail/spendtrail/config"
)

type Api struct {
	spendtrail *spendtrail.Spendtrail
	router     *gin.Engine
}

func (a Api) Router() *gin.Engine {
	return a.router
}

// NewAPI assembles the HTTP surface. The admission gate guards the
// transactions group only; the health endpoint stays reachable so load
// balancers are never rate limited away.
func NewAPI(s *spendtrail.Spendtrail, gate *admission.Gate) *Api {
	gin.SetMode(gin.ReleaseMode)
	conf, err := config.Fetch()
	if err != nil {
		return nil
	}

	r := gin.Default()
	r.Use(middleware.RateLimitMiddleware(conf))
	if conf.Server.Secure {
		r.Use(middleware.SecretKeyAuthMiddleware())
	}

	r.GET("/", func(c *gin.Context) {
		c.JSON(200, "server running...")
	})

	a := &Api{spendtrail: s, router: r}

	transactions := r.Group("/transactions")
	if gate != nil && !conf.Admission.Disabled {
		transactions.Use(middleware.AdmissionMiddleware(gate))
	}
	transactions.GET("", a.GetAllTransactions)
	transactions.POST("", a.CreateTransaction)
	transactions.GET("/:id", a.GetTransaction)

	return a
}
