package services

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"rentalweb/internal/apiclient"
	"rentalweb/internal/domain"
	"rentalweb/internal/domain/models"
	"rentalweb/internal/pager"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeleteSelectedDedupes(t *testing.T) {
	var sent []string
	api := &fakeAPI{deleteMany: func(ids []string) error { sent = ids; return nil }}
	svc := NotificationService{API: api}

	n, err := svc.DeleteSelected(context.Background(), signedIn, []string{"a", " b ", "a", ""})
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, []string{"a", "b"}, sent)

	_, err = svc.DeleteSelected(context.Background(), signedIn, []string{" "})
	assert.True(t, domain.IsValidation(err))

}

func TestDeleteAllSendsNoIDs(t *testing.T) {
	called := false
	api := &fakeAPI{deleteMany: func(ids []string) error {
		called = true
		assert.Empty(t, ids)
		return nil
	}}
	require.NoError(t, NotificationService{API: api}.DeleteAll(context.Background(), signedIn))
	assert.True(t, called)
}

func TestUnreadCountSwallowsErrors(t *testing.T) {
	api := &fakeAPI{unread: func() (int, error) { return 0, errors.New("down") }}
	svc := NotificationService{API: api}
	assert.Equal(t, 0, svc.UnreadCount(context.Background(), signedIn))

	api.unread = func() (int, error) { return 4, nil }
	assert.Equal(t, 4, svc.UnreadCount(context.Background(), signedIn))
	assert.Equal(t, 0, svc.UnreadCount(context.Background(), domain.RequestContext{}))
}

func TestNotificationPagerStopsAtLastPage(t *testing.T) {
	api := &fakeAPI{listNotifications: func(p domain.Pagination) (models.Page[models.Notification], error) {
		return models.Page[models.Notification]{Items: []models.Notification{{ID: "n"}}, Number: p.Page, Last: p.Page == 1}, nil
	}}
	p := NotificationService{API: api}.Pager(signedIn, pager.State{})
	for i := 0; i < 4; i++ {
		_, _ = p.LoadMore(context.Background())
	}
	assert.Len(t, api.calls, 2)
}

func TestReferralOverviewShareLink(t *testing.T) {
	api := &fakeAPI{summary: func() (models.ReferralSummary, error) {
		return models.ReferralSummary{Code: "ADA 42", TotalReferred: 3}, nil
	}}
	svc := ReferralService{API: api, PublicBaseURL: "https://rent.example.com/"}
	ov, err := svc.Overview(context.Background(), signedIn, domain.Pagination{})
	require.NoError(t, err)
	assert.Equal(t, "https://rent.example.com/signup?ref=ADA+42", ov.ShareLink)
	assert.Equal(t, 3, ov.Summary.TotalReferred)
	assert.Equal(t, "", svc.ShareLink(""))
}

func TestProfileUpdateSendsOnlyChanges(t *testing.T) {
	var got models.ProfileUpdate
	api := &fakeAPI{update: func(upd models.ProfileUpdate) (models.UserProfile, error) {
		got = upd
		return models.UserProfile{ID: "u1", FirstName: "Ada", LastName: "Obi", Phone: "08031234567"}, nil
	}}
	svc := ProfileService{API: api}
	current := models.UserProfile{ID: "u1", FirstName: "Ada", LastName: "Obi", Phone: "08000000000"}

	u, err := svc.Update(context.Background(), signedIn, current, ProfileForm{FirstName: "Ada", LastName: "Obi", Phone: "0803-123-4567"})
	require.NoError(t, err)
	assert.Equal(t, "08031234567", u.Phone)
	require.NotNil(t, got.Phone)
	assert.Equal(t, "08031234567", *got.Phone)
	assert.Nil(t, got.FirstName)

	api.calls = nil
	same, err := svc.Update(context.Background(), signedIn, current, ProfileFormFrom(current))
	require.NoError(t, err)
	assert.Equal(t, current, same)
	assert.Empty(t, api.calls)

	_, err = svc.Update(context.Background(), signedIn, current, ProfileForm{FirstName: "Ada", LastName: "Obi", Phone: "12"})
	assert.True(t, domain.IsValidation(err))
}

var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0x0d, 'I', 'H', 'D', 'R'}

func TestUploadPictureSniffsType(t *testing.T) {
	var sent apiclient.File
	api := &fakeAPI{upload: func(f apiclient.File) (string, error) {
		sent = f
		return "https://cdn.example.com/me.png", nil
	}}
	svc := ProfileService{API: api}

	url, err := svc.UploadPicture(context.Background(), signedIn, "my photo.jpg", bytes.NewReader(pngHeader))
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/me.png", url)
	assert.Equal(t, "image/png", sent.ContentType)
	assert.Equal(t, "my_photo.png", sent.Name)

	_, err = svc.UploadPicture(context.Background(), signedIn, "doc.pdf", strings.NewReader("%PDF-1.4 not an image"))
	assert.True(t, domain.IsValidation(err))

	big := append(append([]byte{}, pngHeader...), make([]byte, MaxPictureSize)...)
	_, err = svc.UploadPicture(context.Background(), signedIn, "big.png", bytes.NewReader(big))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "5 MB")

	_, err = svc.UploadPicture(context.Background(), signedIn, "empty.png", bytes.NewReader(nil))
	assert.True(t, domain.IsValidation(err))
}

func TestReceiptPDF(t *testing.T) {
	loader := func(_ context.Context, _ domain.RequestContext, id string) (models.Booking, error) {
		b := booking(id, domain.BookingConfirmed, at(3, 10))
		b.Reference = "RW-2026-001"
		b.TotalPrice = 125000
		b.Booker = models.Contact{FirstName: "Ada", LastName: "Obi", Phone: "0803"}
		b.Recipient = &models.Contact{FirstName: "Chidi", Phone: "0805"}
		b.ExtraDetails = "Child seat please"
		return b, nil
	}
	svc := DocsService{Loader: loader, Location: lagos}

	pdf, filename, err := svc.Receipt(context.Background(), signedIn, "bk-1")
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(pdf, []byte("%PDF")))
	assert.Equal(t, "RECEIPT_RW-2026-001.pdf", filename)
}

func TestReceiptMissingBooking(t *testing.T) {
	svc := DocsService{Bookings: BookingService{API: &fakeAPI{}}}
	_, _, err := svc.Receipt(context.Background(), signedIn, "nope")
	assert.True(t, domain.IsNotFound(err))
}
