package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"crowdfund/internal/service"
)

// RouterDeps agrupa handlers y middlewares compartidos del router.
type RouterDeps struct {
	Logger         *zap.Logger
	Sessions       *service.JWTService
	IPLimiter      service.RateLimiter
	TrustedProxies []string
	RequestTimeout time.Duration
	Metrics        *HTTPMetrics
	MetricsHandler http.Handler

	Auth       *AuthHandler
	Campaigns  *CampaignHandler
	Donations  *DonationHandler
	Engagement *EngagementHandler
	Dashboard  *DashboardHandler
}

// NewRouter configura el router de Gin con middlewares y rutas bajo /api.
func NewRouter(d RouterDeps) *gin.Engine {
	logger := d.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	r := gin.New()
	// sin proxies confiables ClientIP usa la direccion remota e ignora X-Forwarded-For
	if err := r.SetTrustedProxies(d.TrustedProxies); err != nil {
		logger.Warn("invalid trusted proxies, trusting none", zap.Error(err))
		_ = r.SetTrustedProxies(nil)
	}
	r.Use(
		requestIDMiddleware(),
		zapLoggerMiddleware(logger),
		gin.Recovery(),
		d.Metrics.Handler(),
		securityHeadersMiddleware(),
	)

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, successBody("Crowdfunding API running", nil))
	})
	if d.MetricsHandler != nil {
		r.GET("/metrics", gin.WrapH(d.MetricsHandler))
	}

	api := r.Group("/api",
		jsonContentTypeMiddleware(),
		rateLimitMiddleware(d.IPLimiter),
		requestTimeoutMiddleware(d.RequestTimeout),
	)
	requireAuth := JWTAuthMiddleware(d.Sessions)

	api.POST("/register", d.Auth.Register)
	api.GET("/verify/:token", d.Auth.VerifyEmail)
	api.POST("/resend-verification", d.Auth.ResendVerification)
	api.POST("/login", d.Auth.Login)
	api.POST("/forgot-password", d.Auth.ForgotPassword)
	api.GET("/reset-password/:token", d.Auth.ValidateResetToken)
	api.POST("/reset-password/:token", d.Auth.ResetPassword)
	api.GET("/profile", requireAuth, d.Auth.Profile)

	campaigns := api.Group("/campaigns")
	campaigns.POST("", requireAuth, d.Campaigns.Create)
	campaigns.GET("", d.Campaigns.List)
	campaigns.GET("/:id", d.Campaigns.Get)
	campaigns.PUT("/:id", requireAuth, d.Campaigns.Update)
	campaigns.DELETE("/:id", requireAuth, d.Campaigns.Delete)

	donations := api.Group("/donations")
	donations.POST("", requireAuth, d.Donations.Donate)
	donations.GET("/my", requireAuth, d.Donations.MyDonations)
	donations.GET("/campaign/:id", d.Donations.CampaignDonations)
	donations.GET("/stats/:id", d.Donations.DonationStats)

	payments := api.Group("/payments")
	payments.POST("/pay", requireAuth, d.Donations.Pay)
	payments.GET("/history", requireAuth, d.Donations.PaymentHistory)
	payments.GET("/stats/:id", d.Donations.PaymentStats)

	likes := api.Group("/likes")
	likes.POST("/:id", requireAuth, d.Engagement.Like)
	likes.DELETE("/:id", requireAuth, d.Engagement.Unlike)
	likes.GET("/count/:id", d.Engagement.LikeCount)

	comments := api.Group("/comments")
	comments.POST("/:id", requireAuth, d.Engagement.AddComment)
	comments.GET("/:id", d.Engagement.Comments)
	comments.PUT("/:id", requireAuth, d.Engagement.EditComment)
	comments.DELETE("/:id", requireAuth, d.Engagement.DeleteComment)

	dashboard := api.Group("/dashboard", requireAuth)
	dashboard.GET("/funded", d.Dashboard.Funded)
	dashboard.GET("/comments", d.Dashboard.Comments)
	dashboard.GET("/my-campaigns", d.Dashboard.MyCampaigns)
	dashboard.GET("/likes", d.Dashboard.Likes)

	return r
}
