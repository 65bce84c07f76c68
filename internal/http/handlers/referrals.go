package handlers

import (
	"net/http"

	"rentalweb/internal/domain"

	"github.com/gin-gonic/gin"
)

func Referrals(c *gin.Context) {
	ov, err := referralService(c).Overview(c.Request.Context(), requestContext(c), domain.Pagination{Page: pageParam(c)})
	if err != nil {
		failPage(c, err)
		return
	}
	render(c, http.StatusOK, "referrals", "Referrals", gin.H{
		"Overview": ov,
		"Nav":      navFor(ov.Referrals, ""),
	})
}
