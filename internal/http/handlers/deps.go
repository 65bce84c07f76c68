package handlers

import (
	"sync"
	"time"

	"rentalweb/internal/apiclient"
	"rentalweb/internal/domain"
	"rentalweb/internal/http/middleware"
	"rentalweb/internal/services"
	"rentalweb/internal/session"

	"github.com/gin-gonic/gin"
)

// Deps are the collaborators shared by every handler.
type Deps struct {
	API           *apiclient.Client
	Sessions      *session.Manager
	Location      *time.Location
	PublicBaseURL string
	OTPCooldown   time.Duration
	Now           func() time.Time
}

var (
	depsMu sync.RWMutex
	deps   Deps
)

// Setup stores the handler dependencies. It is called once while building the router.
func Setup(d Deps) {
	if d.Location == nil {
		d.Location = time.UTC
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	depsMu.Lock()
	defer depsMu.Unlock()
	deps = d
}

func current() Deps {
	depsMu.RLock()
	defer depsMu.RUnlock()
	return deps
}

func (d Deps) now() time.Time {
	if d.Now == nil {
		return time.Now()
	}
	return d.Now()
}

func sess(c *gin.Context) *session.Session {
	return session.From(c)
}

// requestContext is the signed-in customer as the services see it.
func requestContext(c *gin.Context) domain.RequestContext {
	s := sess(c)
	if s == nil {
		return domain.RequestContext{}
	}
	return domain.RequestContext{UserID: s.UserID, Email: s.Email, AccessToken: s.AccessToken}
}

func authService(c *gin.Context) services.AuthService {
	d := current()
	return services.AuthService{API: d.API, Cooldown: d.OTPCooldown, Now: d.Now, RequestID: middleware.GetRequestID(c)}
}

func catalogService(c *gin.Context) services.CatalogService {
	return services.CatalogService{API: current().API, RequestID: middleware.GetRequestID(c)}
}

func bookingService(c *gin.Context) services.BookingService {
	return services.BookingService{API: current().API, RequestID: middleware.GetRequestID(c)}
}

func paymentService(c *gin.Context) services.PaymentService {
	d := current()
	return services.PaymentService{
		API:         d.API,
		CallbackURL: d.PublicBaseURL + "/payments/callback",
		RequestID:   middleware.GetRequestID(c),
	}
}

func wizardService(c *gin.Context) services.WizardService {
	d := current()
	return services.WizardService{
		API:       d.API,
		Payments:  paymentService(c),
		Location:  d.Location,
		Now:       d.Now,
		RequestID: middleware.GetRequestID(c),
	}
}

func notificationService(c *gin.Context) services.NotificationService {
	return services.NotificationService{API: current().API, RequestID: middleware.GetRequestID(c)}
}

func referralService(c *gin.Context) services.ReferralService {
	d := current()
	return services.ReferralService{API: d.API, PublicBaseURL: d.PublicBaseURL, RequestID: middleware.GetRequestID(c)}
}

func profileService(c *gin.Context) services.ProfileService {
	return services.ProfileService{API: current().API, RequestID: middleware.GetRequestID(c)}
}

func docsService(c *gin.Context) services.DocsService {
	d := current()
	return services.DocsService{Bookings: bookingService(c), Location: d.Location, RequestID: middleware.GetRequestID(c)}
}

func requestIDOf(c *gin.Context) string {
	return middleware.GetRequestID(c)
}
