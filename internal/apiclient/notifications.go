package apiclient

import (
	"context"
	"net/http"
	"net/url"

	"rentalweb/internal/domain"
	"rentalweb/internal/domain/models"
)

func (c *Client) ListNotifications(ctx context.Context, token string, p domain.Pagination) (models.Page[models.Notification], error) {
	res, err := c.Do(ctx, Request{Method: http.MethodGet, Path: "/api/v1/notifications", Query: pageQuery(p), Token: token})
	if err != nil {
		return models.Page[models.Notification]{}, err
	}
	return decodePage[models.Notification](res.Data(), p)
}

func (c *Client) UnreadNotifications(ctx context.Context, token string) (int, error) {
	res, err := c.Do(ctx, Request{Method: http.MethodGet, Path: "/api/v1/notifications/unread-count", Token: token})
	if err != nil {
		return 0, err
	}
	data := res.Data()
	if n := data.Get("count"); n.Exists() {
		return int(n.Int()), nil
	}
	return int(data.Int()), nil
}

func (c *Client) MarkNotificationRead(ctx context.Context, token, id string) error {
	_, err := c.Do(ctx, Request{
		Method:   http.MethodPatch,
		Path:     "/api/v1/notifications/" + url.PathEscape(id) + "/read",
		Endpoint: "PATCH /api/v1/notifications/{id}/read",
		Token:    token,
	})
	return err
}

func (c *Client) DeleteNotification(ctx context.Context, token, id string) error {
	_, err := c.Do(ctx, Request{
		Method:   http.MethodDelete,
		Path:     "/api/v1/notifications/" + url.PathEscape(id),
		Endpoint: "DELETE /api/v1/notifications/{id}",
		Token:    token,
	})
	return err
}

// DeleteNotifications removes ids in bulk; an empty slice deletes everything.
func (c *Client) DeleteNotifications(ctx context.Context, token string, ids []string) error {
	if ids == nil {
		ids = []string{}
	}
	_, err := c.Do(ctx, Request{
		Method: http.MethodDelete,
		Path:   "/api/v1/notifications",
		Body:   map[string][]string{"ids": ids},
		Token:  token,
	})
	return err
}
