package handlers

import (
	"net/http"
	"unicode/utf8"

	"rentalweb/internal/apiclient"
	"rentalweb/internal/utils"

	"github.com/gin-gonic/gin"
)

const minPlacesInput = 3

// PlacesAutocomplete proxies location suggestions for the itinerary step.
func PlacesAutocomplete(c *gin.Context) {
	input := utils.NormalizeSpace(c.Query("input"))
	if utf8.RuneCountInString(input) < minPlacesInput {
		c.JSON(http.StatusOK, gin.H{"suggestions": []apiclient.PlaceSuggestion{}})
		return
	}
	out, err := current().API.Autocomplete(c.Request.Context(), input)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"suggestions": out})
}
