package handlers

import (
	"net/http"

	"rentalweb/internal/domain"
	"rentalweb/internal/domain/models"
	"rentalweb/internal/services"
	"rentalweb/internal/session"

	"github.com/gin-gonic/gin"
)

func Profile(c *gin.Context) {
	u, err := profileService(c).Get(c.Request.Context(), requestContext(c))
	if err != nil {
		failPage(c, err)
		return
	}
	render(c, http.StatusOK, "profile", "Profile", gin.H{
		"Profile": u,
		"Form":    services.ProfileFormFrom(u),
	})
}

func UpdateProfile(c *gin.Context) {
	svc := profileService(c)
	rc := requestContext(c)
	u, err := svc.Get(c.Request.Context(), rc)
	if err != nil {
		failRedirect(c, err, "/profile")
		return
	}

	var form services.ProfileForm
	var updated models.UserProfile
	if err = bindForm(c, &form); err == nil {
		updated, err = svc.Update(c.Request.Context(), rc, u, form)
	}
	if err != nil {
		failForm(c, err, "profile", "Profile", gin.H{"Profile": u, "Form": form})
		return
	}

	s := sess(c)
	s.DisplayName = updated.DisplayName()
	s.MarkDirty()
	flash(c, session.FlashSuccess, "Profile updated.")
	redirect(c, "/profile")
}

// UploadPicture accepts the multipart "picture" field.
func UploadPicture(c *gin.Context) {
	fh, err := c.FormFile("picture")
	if err != nil {
		failRedirect(c, domain.ValidationError{Field: "picture", Msg: "choose an image to upload"}, "/profile")
		return
	}
	if fh.Size > services.MaxPictureSize {
		failRedirect(c, domain.ValidationError{Field: "picture", Msg: "must be 5 MB or smaller"}, "/profile")
		return
	}
	f, err := fh.Open()
	if err != nil {
		failRedirect(c, domain.InternalError{Msg: "could not read upload", Err: err}, "/profile")
		return
	}
	defer f.Close()

	if _, err := profileService(c).UploadPicture(c.Request.Context(), requestContext(c), fh.Filename, f); err != nil {
		failRedirect(c, err, "/profile")
		return
	}
	flash(c, session.FlashSuccess, "Profile picture updated.")
	redirect(c, "/profile")
}
