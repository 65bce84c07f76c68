package handlers

import (
	"net/http"
	"strconv"

	"rentalweb/internal/domain"
	"rentalweb/internal/domain/models"
	"rentalweb/internal/pager"
	"rentalweb/internal/services"
	"rentalweb/internal/session"
	"rentalweb/internal/utils"

	"github.com/gin-gonic/gin"
)

var bookingPagers = newPagerRegistry[models.Booking]()

func bookingView(b models.Booking) gin.H {
	return gin.H{
		"id":        b.ID,
		"reference": b.Reference,
		"status":    string(b.Status),
		"badge":     b.Status.BadgeColor(),
		"label":     b.Status.Label(),
		"total":     utils.FormatMoney(b.TotalPrice, b.Currency),
	}
}

func ListBookings(c *gin.Context) {
	svc := bookingService(c)
	p := svc.Pager(requestContext(c), pager.State{})
	items, err := firstPage(c, bookingPagers, bookingsPagerKey, p)
	if err != nil {
		failPage(c, err)
		return
	}
	render(c, http.StatusOK, "bookings", "My bookings", gin.H{
		"Page": models.Page[models.Booking]{Items: items},
		"Done": p.Done(),
	})
}

func MoreBookings(c *gin.Context) {
	svc := bookingService(c)
	rc := requestContext(c)
	loadMore(c, bookingPagers, bookingsPagerKey, func(st pager.State) *pager.Pager[models.Booking] {
		return svc.Pager(rc, st)
	}, bookingView)
}

// GetBooking shows one booking. Unknown ids go back home with a message.
func GetBooking(c *gin.Context) {
	b, err := bookingService(c).Detail(c.Request.Context(), requestContext(c), c.Param("id"))
	if err != nil {
		if domain.IsNotFound(err) {
			flash(c, session.FlashError, "We could not find that booking.")
			redirect(c, "/")
			return
		}
		failPage(c, err)
		return
	}
	render(c, http.StatusOK, "booking", "Booking "+utils.FirstNonEmpty(b.Reference, b.ID), gin.H{
		"Booking":  b,
		"Gateways": domain.Gateways,
	})
}

func CancelBooking(c *gin.Context) {
	id := c.Param("id")
	if err := bookingService(c).Cancel(c.Request.Context(), requestContext(c), id); err != nil {
		failRedirect(c, err, "/bookings/"+id)
		return
	}
	flash(c, session.FlashSuccess, "Your booking was cancelled.")
	redirect(c, "/bookings/"+id)
}

// PayBooking starts payment for an existing booking.
func PayBooking(c *gin.Context) {
	id := c.Param("id")
	back := "/bookings/" + id
	gw, err := services.ParseGateway(c.PostForm("gateway"))
	if err != nil {
		failRedirect(c, err, back)
		return
	}
	rc := requestContext(c)
	b, err := bookingService(c).Detail(c.Request.Context(), rc, id)
	if err != nil {
		failRedirect(c, err, back)
		return
	}
	if !b.Status.Payable() {
		failRedirect(c, domain.ConflictError{Resource: "booking", Msg: "this booking is not awaiting payment"}, back)
		return
	}
	co, err := paymentService(c).Checkout(c.Request.Context(), rc, b.ID, gw)
	if err != nil {
		failRedirect(c, err, back)
		return
	}
	c.Redirect(http.StatusSeeOther, co.RedirectURL)
}

// BookingReceipt streams the receipt PDF.
func BookingReceipt(c *gin.Context) {
	pdf, filename, err := docsService(c).Receipt(c.Request.Context(), requestContext(c), c.Param("id"))
	if err != nil {
		failRedirect(c, err, "/bookings/"+c.Param("id"))
		return
	}
	c.Header("Content-Disposition", "inline; filename="+strconv.Quote(filename))
	c.Data(http.StatusOK, "application/pdf", pdf)
}

// BookingCalendar renders ?month=YYYY-MM, defaulting to the current month.
func BookingCalendar(c *gin.Context) {
	d := current()
	now := d.now().In(d.Location)
	month := now
	if raw := c.Query("month"); raw != "" {
		m, err := utils.ParseMonth(raw, d.Location)
		if err != nil {
			flash(c, session.FlashError, "Unknown month, showing the current one.")
		} else {
			month = m
		}
	}

	all, err := bookingService(c).All(c.Request.Context(), requestContext(c))
	if err != nil {
		failPage(c, err)
		return
	}
	cal := services.BuildMonth(month, all, d.Location, now)
	render(c, http.StatusOK, "calendar", "Booking calendar", gin.H{"Calendar": cal})
}

