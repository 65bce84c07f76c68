package handlers

import (
	"strings"

	"rentalweb/internal/domain"
	"rentalweb/internal/services"
	"rentalweb/internal/utils"

	"github.com/gin-gonic/gin"
)

// PaymentCallback is where both gateways send the customer back after checkout.
// Paystack appends reference/trxref, Monnify appends paymentReference.
func PaymentCallback(c *gin.Context) {
	ref := strings.TrimSpace(utils.FirstNonEmpty(c.Query("reference"), c.Query("paymentReference"), c.Query("trxref")))
	if ref == "" {
		failRedirect(c, domain.ValidationError{Field: "reference", Msg: "payment reference is missing"}, "/bookings")
		return
	}

	p, err := paymentService(c).Verify(c.Request.Context(), requestContext(c), ref)
	if err != nil {
		failRedirect(c, err, "/bookings")
		return
	}
	kind, message := services.Outcome(p)
	flash(c, kind, message)
	if p.BookingID != "" {
		redirect(c, "/bookings/"+p.BookingID)
		return
	}
	redirect(c, "/bookings")
}
