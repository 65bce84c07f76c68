package apiclient

import (
	"context"
	"net/http"

	"rentalweb/internal/domain/models"
)

func (c *Client) Me(ctx context.Context, token string) (models.UserProfile, error) {
	var u models.UserProfile
	res, err := c.Do(ctx, Request{Method: http.MethodGet, Path: "/api/v1/users/me", Token: token})
	if err != nil {
		return u, err
	}
	err = res.Decode(&u)
	return u, err
}

func (c *Client) UpdateMe(ctx context.Context, token string, upd models.ProfileUpdate) (models.UserProfile, error) {
	var u models.UserProfile
	res, err := c.Do(ctx, Request{Method: http.MethodPatch, Path: "/api/v1/users/me", Body: upd, Token: token})
	if err != nil {
		return u, err
	}
	err = res.Decode(&u)
	return u, err
}

// UploadProfilePicture sends the image as multipart field "file" and returns the stored URL.
func (c *Client) UploadProfilePicture(ctx context.Context, token string, f File) (string, error) {
	if f.Field == "" {
		f.Field = "file"
	}
	res, err := c.Do(ctx, Request{
		Method: http.MethodPost,
		Path:   "/api/v1/users/me/profile-picture",
		File:   &f,
		Token:  token,
	})
	if err != nil {
		return "", err
	}
	url := firstString(res.Data(), "profilePictureUrl", "url", "imageUrl")
	if url == "" {
		return "", errMissing("picture url")
	}
	return url, nil
}
