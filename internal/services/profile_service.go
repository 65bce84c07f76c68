package services

import (
	"context"
	"fmt"
	"io"
	"strings"

	"rentalweb/internal/apiclient"
	"rentalweb/internal/domain"
	"rentalweb/internal/domain/models"
	"rentalweb/internal/utils"
	"rentalweb/internal/validation"

	"github.com/gabriel-vasile/mimetype"
)

// MaxPictureSize is the largest accepted profile picture.
const MaxPictureSize = 5 << 20

var pictureTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

type ProfileService struct {
	API       ProfileAPI
	RequestID string
}

type ProfileForm struct {
	FirstName string `form:"first_name" validate:"required,max=60"`
	LastName  string `form:"last_name" validate:"required,max=60"`
	Phone     string `form:"phone" validate:"omitempty,rw_phone"`
	Address   string `form:"address" validate:"max=200"`
}

func ProfileFormFrom(u models.UserProfile) ProfileForm {
	return ProfileForm{FirstName: u.FirstName, LastName: u.LastName, Phone: u.Phone, Address: u.Address}
}

func (s ProfileService) Get(ctx context.Context, rc domain.RequestContext) (models.UserProfile, error) {
	if err := requireLogin(rc); err != nil {
		return models.UserProfile{}, err
	}
	return s.API.Me(ctx, rc.AccessToken)
}

// Update sends only the fields that differ from current.
func (s ProfileService) Update(ctx context.Context, rc domain.RequestContext, current models.UserProfile, f ProfileForm) (models.UserProfile, error) {
	if err := requireLogin(rc); err != nil {
		return models.UserProfile{}, err
	}
	f.FirstName = utils.NormalizeSpace(f.FirstName)
	f.LastName = utils.NormalizeSpace(f.LastName)
	f.Address = utils.NormalizeSpace(f.Address)
	f.Phone = validation.NormalizePhone(f.Phone)
	if err := validation.Struct(f); err != nil {
		return models.UserProfile{}, err
	}

	var upd models.ProfileUpdate
	if f.FirstName != current.FirstName {
		upd.FirstName = &f.FirstName
	}
	if f.LastName != current.LastName {
		upd.LastName = &f.LastName
	}
	if f.Phone != current.Phone {
		upd.Phone = &f.Phone
	}
	if f.Address != current.Address {
		upd.Address = &f.Address
	}
	if upd.Empty() {
		return current, nil
	}

	u, err := s.API.UpdateMe(ctx, rc.AccessToken, upd)
	if err != nil {
		return models.UserProfile{}, err
	}
	utils.LogEvent(s.RequestID, "profile", "update", "user_id="+u.ID)
	return u, nil
}

// UploadPicture checks the size and sniffed type of r and forwards it to the API.
func (s ProfileService) UploadPicture(ctx context.Context, rc domain.RequestContext, filename string, r io.Reader) (string, error) {
	if err := requireLogin(rc); err != nil {
		return "", err
	}
	data, err := io.ReadAll(io.LimitReader(r, MaxPictureSize+1))
	if err != nil {
		return "", domain.InternalError{Msg: "could not read upload", Err: err}
	}
	if len(data) == 0 {
		return "", domain.ValidationError{Field: "picture", Msg: "choose an image to upload"}
	}
	if len(data) > MaxPictureSize {
		return "", domain.ValidationError{Field: "picture", Msg: "must be 5 MB or smaller"}
	}

	mt := mimetype.Detect(data)
	ext, ok := pictureTypes[mt.String()]
	if !ok {
		return "", domain.ValidationError{Field: "picture", Msg: "must be a JPEG, PNG or WEBP image"}
	}

	name := safeFilenamePart(strings.TrimSuffix(filename, extOf(filename))) + ext
	url, err := s.API.UploadProfilePicture(ctx, rc.AccessToken, apiclient.File{
		Field:       "file",
		Name:        name,
		ContentType: mt.String(),
		Data:        data,
	})
	if err != nil {
		return "", err
	}
	utils.LogEvent(s.RequestID, "profile", "upload_picture", fmt.Sprintf("type=%s bytes=%d", mt.String(), len(data)))
	return url, nil
}

func extOf(name string) string {
	if i := strings.LastIndex(name, "."); i >= 0 {
		return name[i:]
	}
	return ""
}
