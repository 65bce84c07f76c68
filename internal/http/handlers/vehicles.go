package handlers

import (
	"net/http"

	"rentalweb/internal/domain"
	"rentalweb/internal/domain/models"
	"rentalweb/internal/utils"

	"github.com/gin-gonic/gin"
)

const homeVehicleCount = 6

func Home(c *gin.Context) {
	page, _, err := catalogService(c).Search(c.Request.Context(), "", domain.Pagination{Size: homeVehicleCount})
	if err != nil {
		// the landing page still renders without featured vehicles
		utils.LogError(requestIDOf(c), "catalog", "home", err)
		page = models.Page[models.Vehicle]{}
	}
	render(c, http.StatusOK, "home", "Home", gin.H{"Vehicles": page.Items})
}

func ListVehicles(c *gin.Context) {
	page, q, err := catalogService(c).Search(c.Request.Context(), c.Query("q"), domain.Pagination{Page: pageParam(c)})
	if err != nil {
		failPage(c, err)
		return
	}
	render(c, http.StatusOK, "vehicles", "Vehicles", gin.H{
		"Search": q,
		"Page":   page,
		"Nav":    navFor(page, q),
	})
}

func GetVehicle(c *gin.Context) {
	v, err := catalogService(c).Vehicle(c.Request.Context(), c.Param("id"))
	if err != nil {
		failPage(c, err)
		return
	}
	render(c, http.StatusOK, "vehicle", v.Name, gin.H{"Vehicle": v})
}
