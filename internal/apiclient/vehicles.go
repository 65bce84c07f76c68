package apiclient

import (
	"context"
	"net/http"
	"net/url"

	"rentalweb/internal/domain"
	"rentalweb/internal/domain/models"
)

func (c *Client) SearchVehicles(ctx context.Context, search string, p domain.Pagination) (models.Page[models.Vehicle], error) {
	q := pageQuery(p)
	if search != "" {
		q.Set("search", search)
	}
	res, err := c.Do(ctx, Request{Method: http.MethodGet, Path: "/api/v1/public/vehicles", Query: q})
	if err != nil {
		return models.Page[models.Vehicle]{}, err
	}
	return decodePage[models.Vehicle](res.Data(), p)
}

func (c *Client) Vehicle(ctx context.Context, id string) (models.Vehicle, error) {
	var v models.Vehicle
	res, err := c.Do(ctx, Request{
		Method:   http.MethodGet,
		Path:     "/api/v1/public/vehicles/" + url.PathEscape(id),
		Endpoint: "GET /api/v1/public/vehicles/{id}",
	})
	if err != nil {
		return v, err
	}
	err = res.Decode(&v)
	return v, err
}
