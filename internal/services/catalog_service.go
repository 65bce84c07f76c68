package services

import (
	"context"
	"fmt"
	"strings"

	"rentalweb/internal/domain"
	"rentalweb/internal/domain/models"
	"rentalweb/internal/utils"
)

const maxSearchLength = 100

type CatalogService struct {
	API       CatalogAPI
	RequestID string
}

// NormalizeSearch trims, collapses whitespace and caps the search term.
func NormalizeSearch(q string) string {
	q = utils.NormalizeSpace(q)
	if r := []rune(q); len(r) > maxSearchLength {
		q = string(r[:maxSearchLength])
	}
	return q
}

func (s CatalogService) Search(ctx context.Context, q string, p domain.Pagination) (models.Page[models.Vehicle], string, error) {
	q = NormalizeSearch(q)
	page, err := s.API.SearchVehicles(ctx, q, p.Normalize())
	if err != nil {
		return models.Page[models.Vehicle]{}, q, err
	}
	utils.LogEvent(s.RequestID, "catalog", "search", fmt.Sprintf("q=%q page=%d results=%d", q, page.Number, len(page.Items)))
	return page, q, nil
}

func (s CatalogService) Vehicle(ctx context.Context, id string) (models.Vehicle, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return models.Vehicle{}, domain.NotFoundError{Resource: "vehicle"}
	}
	return s.API.Vehicle(ctx, id)
}
