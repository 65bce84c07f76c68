package models

import (
	"time"

	"rentalweb/internal/domain"
)

// Segment is one leg of a booking.
type Segment struct {
	ID              string    `json:"id,omitempty"`
	PickupLocation  string    `json:"pickupLocation"`
	DropoffLocation string    `json:"dropoffLocation"`
	StartTime       time.Time `json:"startTime"`
	EndTime         time.Time `json:"endTime"`
}

// Contact is the booker or recipient of a booking.
type Contact struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
}

func (c Contact) FullName() string {
	switch {
	case c.FirstName == "":
		return c.LastName
	case c.LastName == "":
		return c.FirstName
	default:
		return c.FirstName + " " + c.LastName
	}
}

// Booking mirrors the booking payload served by the rental API.
type Booking struct {
	ID             string               `json:"id"`
	Reference      string               `json:"bookingReference,omitempty"`
	Status         domain.BookingStatus `json:"status"`
	VehicleID      string               `json:"vehicleId"`
	VehicleName    string               `json:"vehicleName,omitempty"`
	Currency       string               `json:"currency,omitempty"`
	BasePrice      float64              `json:"basePrice"`
	Discount       float64              `json:"discount"`
	ServiceFee     float64              `json:"serviceFee"`
	TotalPrice     float64              `json:"totalPrice"`
	Segments       []Segment            `json:"segments"`
	Booker         Contact              `json:"booker"`
	Recipient      *Contact             `json:"recipient,omitempty"`
	ExtraDetails   string               `json:"extraDetails,omitempty"`
	PaymentStatus  domain.PaymentStatus `json:"paymentStatus,omitempty"`
	CreatedAt      time.Time            `json:"createdAt"`
}

// StartTime is the start of the first segment, or CreatedAt when there are none.
func (b Booking) StartTime() time.Time {
	var first time.Time
	for _, s := range b.Segments {
		if first.IsZero() || s.StartTime.Before(first) {
			first = s.StartTime
		}
	}
	if first.IsZero() {
		return b.CreatedAt
	}
	return first
}

// PriceEstimate is the quote returned by the calculate endpoint.
type PriceEstimate struct {
	Currency   string  `json:"currency"`
	BasePrice  float64 `json:"basePrice"`
	Discount   float64 `json:"discount"`
	ServiceFee float64 `json:"serviceFee"`
	TotalPrice float64 `json:"totalPrice"`
	Breakdown  []struct {
		Label  string  `json:"label"`
		Amount float64 `json:"amount"`
	} `json:"breakdown,omitempty"`
}

// BookingRequest is the create-booking payload.
type BookingRequest struct {
	VehicleID       string    `json:"vehicleId"`
	PricingOptionID string    `json:"pricingOptionId"`
	Segments        []Segment `json:"segments"`
	Booker          Contact   `json:"booker"`
	Recipient       *Contact  `json:"recipient,omitempty"`
	ExtraDetails    string    `json:"extraDetails,omitempty"`
}

// EstimateRequest is the calculate payload.
type EstimateRequest struct {
	VehicleID       string    `json:"vehicleId"`
	PricingOptionID string    `json:"pricingOptionId"`
	Segments        []Segment `json:"segments"`
}
