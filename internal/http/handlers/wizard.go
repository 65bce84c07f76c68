package handlers

import (
	"net/http"
	"strconv"

	"rentalweb/internal/domain"
	"rentalweb/internal/domain/models"
	"rentalweb/internal/services"
	"rentalweb/internal/session"
	"rentalweb/internal/utils"

	"github.com/gin-gonic/gin"
)

func wizardPath(vehicleID string) string {
	return "/vehicles/" + vehicleID + "/book"
}

// wizardPage collects everything the wizard template needs for the current step.
func wizardPage(c *gin.Context, v models.Vehicle, st services.WizardState, itinerary *services.ItineraryForm, personal *services.PersonalInfoForm) gin.H {
	loc := current().Location

	itForm := services.ItineraryForm{}
	switch {
	case itinerary != nil:
		itForm = *itinerary
	case st.Itinerary != nil:
		itForm = services.FormFromItinerary(*st.Itinerary, loc)
	}
	if len(itForm.Segments) == 0 {
		itForm.Segments = []services.SegmentForm{{}}
	}

	var pForm services.PersonalInfoForm
	if personal != nil {
		pForm = *personal
	} else if st.Step == services.StepPersonalInfo {
		var profile models.UserProfile
		if st.PersonalInfo == nil {
			// prefill from the profile, a failure just leaves the form empty
			p, err := profileService(c).Get(c.Request.Context(), requestContext(c))
			if err != nil {
				utils.LogError(requestIDOf(c), "wizard", "prefill_profile", err)
			}
			profile = p
		}
		pForm = services.PersonalInfoDefaults(st.PersonalInfo, profile)
	}

	return gin.H{
		"Vehicle":     v,
		"Step":        st.Step,
		"State":       st,
		"Itinerary":   itForm,
		"Personal":    pForm,
		"Gateways":    domain.Gateways,
		"MaxSegments": services.MaxSegments,
	}
}

func loadVehicle(c *gin.Context) (models.Vehicle, bool) {
	v, err := catalogService(c).Vehicle(c.Request.Context(), c.Param("id"))
	if err != nil {
		failPage(c, err)
		return models.Vehicle{}, false
	}
	return v, true
}

func discardedNotice(c *gin.Context, st services.WizardState) {
	if st.Discarded {
		flash(c, session.FlashInfo, "Some saved booking details could not be read and were cleared.")
	}
}

// BookingWizard shows the wizard at the stored step, or at ?step= when that step is reachable.
func BookingWizard(c *gin.Context) {
	v, ok := loadVehicle(c)
	if !ok {
		return
	}
	w := wizardService(c)
	s := sess(c)

	var st services.WizardState
	if raw := c.Query("step"); raw != "" {
		step, err := strconv.Atoi(raw)
		if err != nil {
			step = services.StepItinerary
		}
		st = w.GoTo(s, v.ID, s.UserID, step)
	} else {
		st = w.State(s, v.ID, s.UserID)
	}
	discardedNotice(c, st)
	render(c, http.StatusOK, "wizard", "Book "+v.Name, wizardPage(c, v, st, nil, nil))
}

func SaveItinerary(c *gin.Context) {
	v, ok := loadVehicle(c)
	if !ok {
		return
	}
	if err := c.Request.ParseForm(); err != nil {
		failRedirect(c, domain.ValidationError{Msg: "the form could not be read, please try again", Err: err}, wizardPath(v.ID))
		return
	}
	form := services.ParseItineraryForm(c.Request.PostForm)

	w := wizardService(c)
	s := sess(c)
	if _, err := w.SaveItinerary(c.Request.Context(), s, requestContext(c), v, form); err != nil {
		st := w.GoTo(s, v.ID, s.UserID, services.StepItinerary)
		failForm(c, err, "wizard", "Book "+v.Name, wizardPage(c, v, st, &form, nil))
		return
	}
	redirect(c, wizardPath(v.ID))
}

func SavePersonalInfo(c *gin.Context) {
	v, ok := loadVehicle(c)
	if !ok {
		return
	}
	var form services.PersonalInfoForm
	w := wizardService(c)
	s := sess(c)
	err := bindForm(c, &form)
	if err == nil {
		err = w.SavePersonalInfo(s, v.ID, s.UserID, form)
	}
	if err != nil {
		st := w.GoTo(s, v.ID, s.UserID, services.StepPersonalInfo)
		failForm(c, err, "wizard", "Book "+v.Name, wizardPage(c, v, st, nil, &form))
		return
	}
	redirect(c, wizardPath(v.ID))
}

func WizardBack(c *gin.Context) {
	s := sess(c)
	id := c.Param("id")
	wizardService(c).Back(s, id, s.UserID)
	redirect(c, wizardPath(id))
}

func WizardReset(c *gin.Context) {
	id := c.Param("id")
	wizardService(c).Reset(sess(c), id)
	flash(c, session.FlashInfo, "Your itinerary was cleared.")
	redirect(c, wizardPath(id))
}

// SubmitBooking creates the booking and sends the customer to the payment gateway.
func SubmitBooking(c *gin.Context) {
	id := c.Param("id")
	booking, co, err := wizardService(c).Submit(c.Request.Context(), sess(c), requestContext(c), id, c.PostForm("gateway"))
	if err != nil {
		if booking.ID != "" {
			// the booking exists, payment can be retried from its page
			failRedirect(c, err, "/bookings/"+booking.ID)
			return
		}
		failRedirect(c, err, wizardPath(id))
		return
	}
	c.Redirect(http.StatusSeeOther, co.RedirectURL)
}
