package handlers

import (
	"fmt"
	"net/http"

	"rentalweb/internal/domain/models"
	"rentalweb/internal/pager"
	"rentalweb/internal/session"

	"github.com/gin-gonic/gin"
)

var notificationPagers = newPagerRegistry[models.Notification]()

func notificationView(n models.Notification) gin.H {
	return gin.H{
		"id":      n.ID,
		"title":   n.Title,
		"message": n.Message,
		"read":    n.Read,
	}
}

func ListNotifications(c *gin.Context) {
	p := notificationService(c).Pager(requestContext(c), pager.State{})
	items, err := firstPage(c, notificationPagers, notificationsPagerKey, p)
	if err != nil {
		failPage(c, err)
		return
	}
	render(c, http.StatusOK, "notifications", "Notifications", gin.H{
		"Page": models.Page[models.Notification]{Items: items},
		"Done": p.Done(),
	})
}

func MoreNotifications(c *gin.Context) {
	svc := notificationService(c)
	rc := requestContext(c)
	loadMore(c, notificationPagers, notificationsPagerKey, func(st pager.State) *pager.Pager[models.Notification] {
		return svc.Pager(rc, st)
	}, notificationView)
}

// UnreadCount feeds the navigation badge. Upstream failures read as zero.
func UnreadCount(c *gin.Context) {
	n := notificationService(c).UnreadCount(c.Request.Context(), requestContext(c))
	c.JSON(http.StatusOK, gin.H{"count": n})
}

func MarkNotificationRead(c *gin.Context) {
	if err := notificationService(c).MarkRead(c.Request.Context(), requestContext(c), c.Param("id")); err != nil {
		failRedirect(c, err, "/notifications")
		return
	}
	redirect(c, "/notifications")
}

func DeleteNotification(c *gin.Context) {
	if err := notificationService(c).Delete(c.Request.Context(), requestContext(c), c.Param("id")); err != nil {
		failRedirect(c, err, "/notifications")
		return
	}
	flash(c, session.FlashSuccess, "Notification deleted.")
	redirect(c, "/notifications")
}

func DeleteSelectedNotifications(c *gin.Context) {
	n, err := notificationService(c).DeleteSelected(c.Request.Context(), requestContext(c), c.PostFormArray("ids"))
	if err != nil {
		failRedirect(c, err, "/notifications")
		return
	}
	flash(c, session.FlashSuccess, fmt.Sprintf("Deleted %d notification(s).", n))
	redirect(c, "/notifications")
}

func DeleteAllNotifications(c *gin.Context) {
	if err := notificationService(c).DeleteAll(c.Request.Context(), requestContext(c)); err != nil {
		failRedirect(c, err, "/notifications")
		return
	}
	flash(c, session.FlashSuccess, "All notifications deleted.")
	redirect(c, "/notifications")
}
