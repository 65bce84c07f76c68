package services

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"rentalweb/internal/domain"
	"rentalweb/internal/domain/models"
	"rentalweb/internal/utils"
	"rentalweb/internal/validation"

	"github.com/xeipuuv/gojsonschema"
)

// Wizard steps in order.
const (
	StepItinerary    = 0
	StepPersonalInfo = 1
	StepSummary      = 2

	MaxSegments = 5
)

const (
	itineraryKeyPrefix    = "booking_itinerary_"
	personalInfoKeyPrefix = "booking_personal_info_"
	estimateKeyPrefix     = "booking_price_estimate_"
	stepKeyPrefix         = "booking_step_"
	guestUser             = "guest"
)

func ItineraryKey(vehicleID string) string { return itineraryKeyPrefix + vehicleID }
func EstimateKey(vehicleID string) string  { return estimateKeyPrefix + vehicleID }
func StepKey(vehicleID string) string      { return stepKeyPrefix + vehicleID }

// PersonalInfoKey is per user so the details carry over between vehicles.
func PersonalInfoKey(userID string) string {
	if userID == "" {
		userID = guestUser
	}
	return personalInfoKeyPrefix + userID
}

//go:embed schemas/*.json
var schemaFS embed.FS

var (
	itinerarySchema    = mustSchema("schemas/itinerary.json")
	personalInfoSchema = mustSchema("schemas/personal_info.json")
	estimateSchema     = mustSchema("schemas/estimate.json")
)

func mustSchema(name string) *gojsonschema.Schema {
	raw, err := schemaFS.ReadFile(name)
	if err != nil {
		panic(err)
	}
	schema, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		panic(fmt.Sprintf("%s: %v", name, err))
	}
	return schema
}

type Itinerary struct {
	VehicleID       string           `json:"vehicleId"`
	PricingOptionID string           `json:"pricingOptionId"`
	Segments        []models.Segment `json:"segments"`
}

type PersonalInfo struct {
	Booker         models.Contact  `json:"booker"`
	ForSomeoneElse bool            `json:"forSomeoneElse"`
	Recipient      *models.Contact `json:"recipient"`
	ExtraDetails   string          `json:"extraDetails,omitempty"`
}

// WizardState is everything stored for one vehicle's booking in progress.
type WizardState struct {
	VehicleID    string
	Step         int
	Itinerary    *Itinerary
	PersonalInfo *PersonalInfo
	Estimate     *models.PriceEstimate
	// Discarded is set when a stored draft was unreadable and has been dropped.
	Discarded bool
}

// Complete reports whether the booking can be submitted.
func (st WizardState) Complete() bool {
	return st.Itinerary != nil && st.Estimate != nil && st.PersonalInfo != nil
}

type SegmentForm struct {
	PickupLocation  string
	DropoffLocation string
	StartDate       string
	StartTime       string
	EndDate         string
	EndTime         string
}

func (f SegmentForm) blank() bool {
	return strings.TrimSpace(f.PickupLocation+f.DropoffLocation+f.StartDate+f.StartTime+f.EndDate+f.EndTime) == ""
}

type ItineraryForm struct {
	PricingOptionID string
	Segments        []SegmentForm
}

// ParseItineraryForm reads the repeated segment fields of the itinerary step. Fully blank rows are skipped.
func ParseItineraryForm(v url.Values) ItineraryForm {
	fields := []string{"pickup_location", "dropoff_location", "start_date", "start_time", "end_date", "end_time"}
	rows := 0
	for _, f := range fields {
		if n := len(v[f]); n > rows {
			rows = n
		}
	}
	at := func(field string, i int) string {
		if vals := v[field]; i < len(vals) {
			return strings.TrimSpace(vals[i])
		}
		return ""
	}

	form := ItineraryForm{PricingOptionID: strings.TrimSpace(v.Get("pricing_option_id"))}
	for i := 0; i < rows; i++ {
		seg := SegmentForm{
			PickupLocation:  utils.NormalizeSpace(at("pickup_location", i)),
			DropoffLocation: utils.NormalizeSpace(at("dropoff_location", i)),
			StartDate:       at("start_date", i),
			StartTime:       at("start_time", i),
			EndDate:         at("end_date", i),
			EndTime:         at("end_time", i),
		}
		if !seg.blank() {
			form.Segments = append(form.Segments, seg)
		}
	}
	return form
}

// FormFromItinerary turns a stored itinerary back into form rows for re-editing.
func FormFromItinerary(it Itinerary, loc *time.Location) ItineraryForm {
	form := ItineraryForm{PricingOptionID: it.PricingOptionID}
	for _, s := range it.Segments {
		start, end := s.StartTime.In(loc), s.EndTime.In(loc)
		form.Segments = append(form.Segments, SegmentForm{
			PickupLocation:  s.PickupLocation,
			DropoffLocation: s.DropoffLocation,
			StartDate:       utils.FormatDate(start),
			StartTime:       utils.FormatClock(start),
			EndDate:         utils.FormatDate(end),
			EndTime:         utils.FormatClock(end),
		})
	}
	return form
}

type PersonalInfoForm struct {
	FirstName          string `form:"first_name" validate:"required,max=60"`
	LastName           string `form:"last_name" validate:"required,max=60"`
	Email              string `form:"email" validate:"required,rw_email"`
	Phone              string `form:"phone" validate:"required,rw_phone"`
	ForSomeoneElse     string `form:"for_someone_else"`
	RecipientFirstName string `form:"recipient_first_name" validate:"max=60"`
	RecipientLastName  string `form:"recipient_last_name" validate:"max=60"`
	RecipientPhone     string `form:"recipient_phone"`
	RecipientEmail     string `form:"recipient_email"`
	ExtraDetails       string `form:"extra_details" validate:"max=1000"`
}

// ForOther reports whether the "booking for someone else" box was ticked.
func (f PersonalInfoForm) ForOther() bool {
	v, _ := strconv.ParseBool(strings.TrimSpace(f.ForSomeoneElse))
	return v
}

// PersonalInfoDefaults prefills the personal step from a saved draft, else from the profile.
func PersonalInfoDefaults(saved *PersonalInfo, profile models.UserProfile) PersonalInfoForm {
	if saved != nil {
		f := PersonalInfoForm{
			FirstName:    saved.Booker.FirstName,
			LastName:     saved.Booker.LastName,
			Email:        saved.Booker.Email,
			Phone:        saved.Booker.Phone,
			ExtraDetails: saved.ExtraDetails,
		}
		if saved.ForSomeoneElse && saved.Recipient != nil {
			f.ForSomeoneElse = "true"
			f.RecipientFirstName = saved.Recipient.FirstName
			f.RecipientLastName = saved.Recipient.LastName
			f.RecipientPhone = saved.Recipient.Phone
			f.RecipientEmail = saved.Recipient.Email
		}
		return f
	}
	return PersonalInfoForm{
		FirstName: profile.FirstName,
		LastName:  profile.LastName,
		Email:     profile.Email,
		Phone:     profile.Phone,
	}
}

type WizardService struct {
	API       BookingAPI
	Payments  PaymentService
	Location  *time.Location
	Now       func() time.Time
	RequestID string
}

func (s WizardService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s WizardService) loc() *time.Location {
	if s.Location != nil {
		return s.Location
	}
	return time.UTC
}

// BuildItinerary validates the itinerary form against the vehicle's pricing options.
func (s WizardService) BuildItinerary(v models.Vehicle, f ItineraryForm) (Itinerary, error) {
	var errs domain.FieldErrors
	add := func(field, msg string) {
		errs = append(errs, domain.ValidationError{Field: field, Msg: msg})
	}

	if f.PricingOptionID == "" {
		add("pricing_option_id", "is required")
	} else if len(v.PricingOptions) > 0 {
		if _, ok := v.PricingOption(f.PricingOptionID); !ok {
			add("pricing_option_id", "is not offered for this vehicle")
		}
	}
	switch {
	case len(f.Segments) == 0:
		add("segments", "add at least one trip")
	case len(f.Segments) > MaxSegments:
		add("segments", fmt.Sprintf("at most %d trips per booking", MaxSegments))
	}

	now := s.now()
	it := Itinerary{VehicleID: v.ID, PricingOptionID: f.PricingOptionID}
	for i, sf := range f.Segments {
		field := func(name string) string { return fmt.Sprintf("segments.%d.%s", i, name) }
		ok := true
		for name, val := range map[string]string{
			"pickup_location":  sf.PickupLocation,
			"dropoff_location": sf.DropoffLocation,
			"start_date":       sf.StartDate,
			"start_time":       sf.StartTime,
			"end_date":         sf.EndDate,
			"end_time":         sf.EndTime,
		} {
			if val == "" {
				add(field(name), "is required")
				ok = false
			}
		}
		if !ok {
			continue
		}
		start, err := utils.ParseDateClock(sf.StartDate, sf.StartTime, s.loc())
		if err != nil {
			add(field("start_time"), "is not a valid date and time")
			continue
		}
		end, err := utils.ParseDateClock(sf.EndDate, sf.EndTime, s.loc())
		if err != nil {
			add(field("end_time"), "is not a valid date and time")
			continue
		}
		if start.Before(now) {
			add(field("start_time"), "cannot be in the past")
		}
		if !end.After(start) {
			add(field("end_time"), "must be after the start")
		}
		it.Segments = append(it.Segments, models.Segment{
			PickupLocation:  sf.PickupLocation,
			DropoffLocation: sf.DropoffLocation,
			StartTime:       start,
			EndTime:         end,
		})
	}
	if len(errs) > 0 {
		return Itinerary{}, errs
	}
	return it, nil
}

// SaveItinerary validates the first step, asks the API for a quote and moves to personal info.
func (s WizardService) SaveItinerary(ctx context.Context, d Drafts, rc domain.RequestContext, v models.Vehicle, f ItineraryForm) (models.PriceEstimate, error) {
	it, err := s.BuildItinerary(v, f)
	if err != nil {
		return models.PriceEstimate{}, err
	}
	est, err := s.API.CalculatePrice(ctx, rc.AccessToken, models.EstimateRequest{
		VehicleID:       it.VehicleID,
		PricingOptionID: it.PricingOptionID,
		Segments:        it.Segments,
	})
	if err != nil {
		return models.PriceEstimate{}, err
	}

	if err := storeJSON(d, ItineraryKey(v.ID), it); err != nil {
		return est, err
	}
	if err := storeJSON(d, EstimateKey(v.ID), est); err != nil {
		return est, err
	}
	d.Set(StepKey(v.ID), strconv.Itoa(StepPersonalInfo))
	utils.LogEvent(s.RequestID, "wizard", "save_itinerary", fmt.Sprintf("vehicle_id=%s segments=%d total=%.2f", v.ID, len(it.Segments), est.TotalPrice))
	return est, nil
}

func (s WizardService) SavePersonalInfo(d Drafts, vehicleID, userID string, f PersonalInfoForm) error {
	f.FirstName = utils.NormalizeSpace(f.FirstName)
	f.LastName = utils.NormalizeSpace(f.LastName)
	f.Email = strings.TrimSpace(f.Email)
	f.ExtraDetails = strings.TrimSpace(f.ExtraDetails)

	var errs domain.FieldErrors
	if err := validation.Struct(f); err != nil {
		fe, ok := err.(domain.FieldErrors)
		if !ok {
			return err
		}
		errs = append(errs, fe...)
	}

	info := PersonalInfo{
		Booker: models.Contact{
			FirstName: f.FirstName,
			LastName:  f.LastName,
			Email:     f.Email,
			Phone:     validation.NormalizePhone(f.Phone),
		},
		ExtraDetails: f.ExtraDetails,
	}
	if f.ForOther() {
		info.ForSomeoneElse = true
		r := models.Contact{
			FirstName: utils.NormalizeSpace(f.RecipientFirstName),
			LastName:  utils.NormalizeSpace(f.RecipientLastName),
			Email:     strings.TrimSpace(f.RecipientEmail),
			Phone:     validation.NormalizePhone(f.RecipientPhone),
		}
		if r.FirstName == "" {
			errs = append(errs, domain.ValidationError{Field: "recipient_first_name", Msg: "is required"})
		}
		if r.LastName == "" {
			errs = append(errs, domain.ValidationError{Field: "recipient_last_name", Msg: "is required"})
		}
		if r.Phone == "" {
			errs = append(errs, domain.ValidationError{Field: "recipient_phone", Msg: "is required"})
		} else if !validation.ValidPhone(r.Phone) {
			errs = append(errs, domain.ValidationError{Field: "recipient_phone", Msg: "must be a valid phone number"})
		}
		if r.Email != "" && !validation.ValidEmail(r.Email) {
			errs = append(errs, domain.ValidationError{Field: "recipient_email", Msg: "must be a valid email address"})
		}
		info.Recipient = &r
	}
	if len(errs) > 0 {
		return errs
	}

	if err := storeJSON(d, PersonalInfoKey(userID), info); err != nil {
		return err
	}
	d.Set(StepKey(vehicleID), strconv.Itoa(StepSummary))
	utils.LogEvent(s.RequestID, "wizard", "save_personal_info", fmt.Sprintf("vehicle_id=%s for_someone_else=%t", vehicleID, info.ForSomeoneElse))
	return nil
}

// State loads the drafts for vehicleID and clamps the stored step to the
// earliest step whose data is missing. Unreadable drafts are deleted.
func (s WizardService) State(d Drafts, vehicleID, userID string) WizardState {
	st := WizardState{VehicleID: vehicleID}

	var it Itinerary
	switch ok, err := loadJSON(d, ItineraryKey(vehicleID), itinerarySchema, &it); {
	case err != nil:
		s.discard(d, ItineraryKey(vehicleID), err)
		st.Discarded = true
	case ok && it.VehicleID == vehicleID:
		st.Itinerary = &it
	}

	var est models.PriceEstimate
	switch ok, err := loadJSON(d, EstimateKey(vehicleID), estimateSchema, &est); {
	case err != nil:
		s.discard(d, EstimateKey(vehicleID), err)
		st.Discarded = true
	case ok:
		st.Estimate = &est
	}

	var info PersonalInfo
	switch ok, err := loadJSON(d, PersonalInfoKey(userID), personalInfoSchema, &info); {
	case err != nil:
		s.discard(d, PersonalInfoKey(userID), err)
		st.Discarded = true
	case ok:
		st.PersonalInfo = &info
	}

	stored := StepItinerary
	if raw, ok := d.Get(StepKey(vehicleID)); ok {
		if n, err := strconv.Atoi(raw); err == nil {
			stored = n
		}
	}
	st.Step = clampStep(stored, st)
	if strconv.Itoa(st.Step) != storedRaw(d, StepKey(vehicleID)) {
		d.Set(StepKey(vehicleID), strconv.Itoa(st.Step))
	}
	return st
}

func storedRaw(d Drafts, key string) string {
	v, _ := d.Get(key)
	return v
}

func clampStep(step int, st WizardState) int {
	allowed := StepSummary
	switch {
	case st.Itinerary == nil || st.Estimate == nil:
		allowed = StepItinerary
	case st.PersonalInfo == nil:
		allowed = StepPersonalInfo
	}
	if step < StepItinerary {
		step = StepItinerary
	}
	if step > allowed {
		step = allowed
	}
	return step
}

func (s WizardService) discard(d Drafts, key string, err error) {
	d.Delete(key)
	utils.LogEvent(s.RequestID, "wizard", "discard_draft", fmt.Sprintf("key=%s err=%v", key, err))
}

// GoTo moves to step, or to the earliest step still missing data.
func (s WizardService) GoTo(d Drafts, vehicleID, userID string, step int) WizardState {
	d.Set(StepKey(vehicleID), strconv.Itoa(step))
	return s.State(d, vehicleID, userID)
}

func (s WizardService) Back(d Drafts, vehicleID, userID string) WizardState {
	st := s.State(d, vehicleID, userID)
	if st.Step == StepItinerary {
		return st
	}
	return s.GoTo(d, vehicleID, userID, st.Step-1)
}

// Reset clears the drafts for vehicleID. The per-user personal info is kept.
func (s WizardService) Reset(d Drafts, vehicleID string) {
	d.Delete(ItineraryKey(vehicleID), EstimateKey(vehicleID), StepKey(vehicleID))
}

// Submit creates the booking from the stored drafts and starts payment for it.
// When payment initiation fails after the booking exists, the booking is
// returned along with the error so the caller can send the customer to it.
func (s WizardService) Submit(ctx context.Context, d Drafts, rc domain.RequestContext, vehicleID, gatewayRaw string) (models.Booking, models.Checkout, error) {
	if err := requireLogin(rc); err != nil {
		return models.Booking{}, models.Checkout{}, err
	}
	gw, err := ParseGateway(gatewayRaw)
	if err != nil {
		return models.Booking{}, models.Checkout{}, err
	}
	st := s.State(d, vehicleID, rc.UserID)
	if !st.Complete() {
		return models.Booking{}, models.Checkout{}, domain.ValidationError{Msg: "some booking details are missing, please review the earlier steps"}
	}

	req := models.BookingRequest{
		VehicleID:       vehicleID,
		PricingOptionID: st.Itinerary.PricingOptionID,
		Segments:        st.Itinerary.Segments,
		Booker:          st.PersonalInfo.Booker,
		ExtraDetails:    st.PersonalInfo.ExtraDetails,
	}
	if st.PersonalInfo.ForSomeoneElse {
		req.Recipient = st.PersonalInfo.Recipient
	}
	booking, err := s.API.CreateBooking(ctx, rc.AccessToken, req)
	if err != nil {
		return models.Booking{}, models.Checkout{}, err
	}
	booking = normalizeBooking(booking)
	s.Reset(d, vehicleID)
	utils.LogEvent(s.RequestID, "wizard", "submit", fmt.Sprintf("vehicle_id=%s booking_id=%s gateway=%s", vehicleID, booking.ID, gw))

	co, err := s.Payments.Checkout(ctx, rc, booking.ID, gw)
	if err != nil {
		return booking, models.Checkout{}, err
	}
	return booking, co, nil
}

func storeJSON(d Drafts, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return domain.InternalError{Msg: "could not save booking draft", Err: err}
	}
	d.Set(key, string(raw))
	return nil
}

// loadJSON reads key into dst. ok is false when the key is absent.
func loadJSON(d Drafts, key string, schema *gojsonschema.Schema, dst any) (bool, error) {
	raw, ok := d.Get(key)
	if !ok || raw == "" {
		return false, nil
	}
	res, err := schema.Validate(gojsonschema.NewStringLoader(raw))
	if err != nil {
		return false, err
	}
	if !res.Valid() {
		msgs := make([]string, 0, len(res.Errors()))
		for _, e := range res.Errors() {
			msgs = append(msgs, fmt.Sprintf("%v", e))
		}
		return false, fmt.Errorf("invalid draft: %s", strings.Join(msgs, "; "))
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		return false, err
	}
	return true, nil
}
