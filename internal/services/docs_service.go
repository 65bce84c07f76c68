package services

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"rentalweb/internal/domain"
	"rentalweb/internal/domain/models"
	"rentalweb/internal/utils"

	"github.com/phpdave11/gofpdf"
)

// DocsService renders booking receipts as PDF.
type DocsService struct {
	Bookings  BookingService
	Location  *time.Location
	RequestID string
	Now       func() time.Time
	Loader    func(ctx context.Context, rc domain.RequestContext, id string) (models.Booking, error)
}

func (s DocsService) load(ctx context.Context, rc domain.RequestContext, id string) (models.Booking, error) {
	if s.Loader != nil {
		return s.Loader(ctx, rc, id)
	}
	return s.Bookings.Detail(ctx, rc, id)
}

// Receipt returns the PDF bytes and a download filename for booking id.
func (s DocsService) Receipt(ctx context.Context, rc domain.RequestContext, id string) ([]byte, string, error) {
	b, err := s.load(ctx, rc, id)
	if err != nil {
		return nil, "", err
	}
	loc := s.Location
	if loc == nil {
		loc = time.UTC
	}
	now := time.Now()
	if s.Now != nil {
		now = s.Now()
	}
	utils.LogEvent(s.RequestID, "docs", "receipt", "booking_id="+b.ID)
	return buildReceiptPDF(b, loc, now)
}

func buildReceiptPDF(b models.Booking, loc *time.Location, now time.Time) ([]byte, string, error) {
	ref := safe(b.Reference, b.ID)

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Booking Receipt", false)
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "BOOKING RECEIPT")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	lines := []string{
		fmt.Sprintf("Reference      : %s", ref),
		fmt.Sprintf("Issued         : %s", now.In(loc).Format("2006-01-02 15:04")),
		fmt.Sprintf("Status         : %s", b.Status.Label()),
		fmt.Sprintf("Payment        : %s", paymentLabel(b.PaymentStatus)),
		fmt.Sprintf("Vehicle        : %s", safe(b.VehicleName, b.VehicleID)),
		fmt.Sprintf("Booked by      : %s", safe(b.Booker.FullName(), "-")),
		fmt.Sprintf("Phone          : %s", safe(b.Booker.Phone, "-")),
	}
	if b.Recipient != nil {
		lines = append(lines, fmt.Sprintf("Recipient      : %s (%s)", safe(b.Recipient.FullName(), "-"), safe(b.Recipient.Phone, "-")))
	}
	for _, s := range lines {
		pdf.Cell(0, 7, s)
		pdf.Ln(7)
	}

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 7, "Itinerary:")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 11)
	if len(b.Segments) == 0 {
		pdf.Cell(0, 6, "-")
		pdf.Ln(6)
	}
	for i, seg := range b.Segments {
		desc := fmt.Sprintf("%d) %s -> %s, %s to %s", i+1,
			safe(seg.PickupLocation, "-"), safe(seg.DropoffLocation, "-"),
			seg.StartTime.In(loc).Format("2006-01-02 15:04"), seg.EndTime.In(loc).Format("2006-01-02 15:04"),
		)
		pdf.MultiCell(0, 6, desc, "", "", false)
		pdf.Ln(1)
	}

	cur := strings.ToUpper(safe(b.Currency, "NGN"))
	pdf.Ln(4)
	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 6, "Base price   : "+money(b.BasePrice, cur))
	pdf.Ln(6)
	if b.Discount != 0 {
		pdf.Cell(0, 6, "Discount     : -"+money(b.Discount, cur))
		pdf.Ln(6)
	}
	pdf.Cell(0, 6, "Service fee  : "+money(b.ServiceFee, cur))
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, "Total: "+money(b.TotalPrice, cur))
	pdf.Ln(12)

	if b.ExtraDetails != "" {
		pdf.SetFont("Helvetica", "I", 10)
		pdf.MultiCell(0, 6, "Notes: "+b.ExtraDetails, "", "", false)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", domain.InternalError{Msg: "could not render receipt", Err: err}
	}

	filename := fmt.Sprintf("RECEIPT_%s.pdf", safeFilenamePart(ref))
	return buf.Bytes(), filename, nil
}

func paymentLabel(p domain.PaymentStatus) string {
	if p == "" {
		return "-"
	}
	return p.Label()
}

// money avoids currency symbols the core PDF fonts cannot encode.
func money(v float64, currency string) string {
	return currency + " " + utils.FormatAmount(v)
}

func safe(v, fallback string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return fallback
	}
	return v
}

func safeFilenamePart(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "NA"
	}
	replacer := strings.NewReplacer(" ", "_", "/", "_", "\\", "_", ":", "_", "*", "_", "?", "_", "\"", "_", "<", "_", ">", "_", "|", "_")
	s = replacer.Replace(s)
	if len(s) > 40 {
		s = s[:40]
	}
	return s
}
