package api

import (
	"fmt"
	stdhttp "net/http"

	intconfig "rentalweb/internal/config"
	h "rentalweb/internal/http/handlers"
	"rentalweb/internal/http/middleware"
	"rentalweb/internal/http/views"
	"rentalweb/internal/utils"

	"github.com/gin-gonic/gin"
)

// NewRouter wires middleware, templates and every route of the site.
func NewRouter(env intconfig.Env, deps h.Deps) (*gin.Engine, error) {
	h.Setup(deps)

	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger(), gin.CustomRecovery(recovered), middleware.CORS(env.AllowedOrigins()))

	if err := r.SetTrustedProxies(nil); err != nil {
		utils.Log.Warnf("failed to set trusted proxies: %v", err)
	}

	renderer, err := views.New(env.Location())
	if err != nil {
		return nil, fmt.Errorf("load templates: %w", err)
	}
	r.HTMLRender = renderer
	r.StaticFS("/static", stdhttp.FS(views.Static()))

	r.GET("/healthz", h.Health)
	r.GET("/metrics", h.Metrics())

	// Separate buckets so browsing the JSON endpoints never locks anyone out of signing in.
	authLimiter := middleware.NewRateLimiter(float64(env.RateLimitRPS), env.RateLimitBurst)
	placesLimiter := middleware.NewRateLimiter(float64(env.RateLimitRPS), env.RateLimitBurst)

	site := r.Group("/", deps.Sessions.Middleware())
	site.GET("/", h.Home)
	site.GET("/vehicles", h.ListVehicles)
	site.GET("/vehicles/:id", h.GetVehicle)
	site.GET("/payments/callback", middleware.RequireAuth(), h.PaymentCallback)

	// Auth
	site.GET("/login", h.LoginPage)
	site.GET("/signup", h.SignupPage)
	site.GET("/verify-otp", h.VerifyOTPPage)
	site.GET("/forgot-password", h.ForgotPasswordPage)
	site.GET("/reset-password", h.ResetPasswordPage)
	authForms := site.Group("", authLimiter.Middleware())
	authForms.POST("/login", h.Login)
	authForms.POST("/signup", h.Signup)
	authForms.POST("/verify-otp", h.VerifyOTP)
	authForms.POST("/verify-otp/resend", h.ResendOTP)
	authForms.POST("/forgot-password", h.ForgotPassword)
	authForms.POST("/reset-password", h.ResetPassword)
	site.POST("/logout", h.Logout)

	account := site.Group("", middleware.RequireAuth())
	{
		// Booking wizard
		account.GET("/vehicles/:id/book", h.BookingWizard)
		account.POST("/vehicles/:id/book/itinerary", h.SaveItinerary)
		account.POST("/vehicles/:id/book/personal", h.SavePersonalInfo)
		account.POST("/vehicles/:id/book/back", h.WizardBack)
		account.POST("/vehicles/:id/book/reset", h.WizardReset)
		account.POST("/vehicles/:id/book/submit", h.SubmitBooking)

		// Bookings
		account.GET("/bookings", h.ListBookings)
		account.GET("/bookings/calendar", h.BookingCalendar)
		account.GET("/bookings/:id", h.GetBooking)
		account.GET("/bookings/:id/receipt.pdf", h.BookingReceipt)
		account.POST("/bookings/:id/cancel", h.CancelBooking)
		account.POST("/bookings/:id/pay", h.PayBooking)

		// Notifications
		account.GET("/notifications", h.ListNotifications)
		account.POST("/notifications/delete", h.DeleteSelectedNotifications)
		account.POST("/notifications/delete-all", h.DeleteAllNotifications)
		account.POST("/notifications/:id/read", h.MarkNotificationRead)
		account.POST("/notifications/:id/delete", h.DeleteNotification)

		account.GET("/referrals", h.Referrals)
		account.GET("/profile", h.Profile)
		account.POST("/profile", h.UpdateProfile)
		account.POST("/profile/picture", h.UploadPicture)
	}

	api := r.Group("/api", deps.Sessions.Middleware())
	{
		api.GET("/health", h.Health)
		api.GET("/routes", h.Routes)

		private := api.Group("", middleware.RequireAuth())
		private.GET("/bookings/more", h.MoreBookings)
		private.GET("/notifications/more", h.MoreNotifications)
		private.GET("/notifications/unread-count", h.UnreadCount)
		private.GET("/places/autocomplete", placesLimiter.Middleware(), h.PlacesAutocomplete)
	}

	r.NoRoute(deps.Sessions.Middleware(), h.NotFound)

	h.SetRouter(r)
	return r, nil
}

func recovered(c *gin.Context, err any) {
	utils.LogError(middleware.GetRequestID(c), "http", "panic", fmt.Errorf("%v", err))
	h.RespondError(c, stdhttp.StatusInternalServerError, "internal server error", nil)
	c.Abort()
}
