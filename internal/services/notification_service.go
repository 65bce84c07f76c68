package services

import (
	"context"
	"fmt"
	"strings"

	"rentalweb/internal/domain"
	"rentalweb/internal/domain/models"
	"rentalweb/internal/pager"
	"rentalweb/internal/utils"
)

type NotificationService struct {
	API       NotificationAPI
	RequestID string
}

func (s NotificationService) List(ctx context.Context, rc domain.RequestContext, p domain.Pagination) (models.Page[models.Notification], error) {
	if err := requireLogin(rc); err != nil {
		return models.Page[models.Notification]{}, err
	}
	return s.API.ListNotifications(ctx, rc.AccessToken, p.Normalize())
}

// Pager resumes the listing at st for "load more".
func (s NotificationService) Pager(rc domain.RequestContext, st pager.State) *pager.Pager[models.Notification] {
	return pager.New(func(ctx context.Context, page int) (models.Page[models.Notification], error) {
		return s.List(ctx, rc, domain.Pagination{Page: page, Size: domain.DefaultPageSize})
	}, st)
}

// UnreadCount feeds the nav badge. Any failure yields zero.
func (s NotificationService) UnreadCount(ctx context.Context, rc domain.RequestContext) int {
	if !rc.Authenticated() {
		return 0
	}
	n, err := s.API.UnreadNotifications(ctx, rc.AccessToken)
	if err != nil {
		utils.LogError(s.RequestID, "notifications", "unread_count", err)
		return 0
	}
	return n
}

func (s NotificationService) MarkRead(ctx context.Context, rc domain.RequestContext, id string) error {
	if err := requireLogin(rc); err != nil {
		return err
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return domain.NotFoundError{Resource: "notification"}
	}
	return s.API.MarkNotificationRead(ctx, rc.AccessToken, id)
}

func (s NotificationService) Delete(ctx context.Context, rc domain.RequestContext, id string) error {
	if err := requireLogin(rc); err != nil {
		return err
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return domain.NotFoundError{Resource: "notification"}
	}
	if err := s.API.DeleteNotification(ctx, rc.AccessToken, id); err != nil {
		return err
	}
	utils.LogEvent(s.RequestID, "notifications", "delete", "id="+id)
	return nil
}

// DeleteSelected removes the given notifications. Duplicates and blanks are dropped.
func (s NotificationService) DeleteSelected(ctx context.Context, rc domain.RequestContext, ids []string) (int, error) {
	if err := requireLogin(rc); err != nil {
		return 0, err
	}
	seen := make(map[string]bool, len(ids))
	clean := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		clean = append(clean, id)
	}
	if len(clean) == 0 {
		return 0, domain.ValidationError{Field: "ids", Msg: "select at least one notification"}
	}
	if err := s.API.DeleteNotifications(ctx, rc.AccessToken, clean); err != nil {
		return 0, err
	}
	utils.LogEvent(s.RequestID, "notifications", "delete_selected", fmt.Sprintf("count=%d", len(clean)))
	return len(clean), nil
}

func (s NotificationService) DeleteAll(ctx context.Context, rc domain.RequestContext) error {
	if err := requireLogin(rc); err != nil {
		return err
	}
	if err := s.API.DeleteNotifications(ctx, rc.AccessToken, nil); err != nil {
		return err
	}
	utils.LogEvent(s.RequestID, "notifications", "delete_all", "")
	return nil
}
