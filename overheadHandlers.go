package main

import (
	"net/http"

	"github.com/fieldworkslab/ratebook_backend/config"
	"github.com/fieldworkslab/ratebook_backend/models"
	"github.com/gin-gonic/gin"
)

func getOverheadHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		resp, err := models.GetOverhead(c.Request.Context())
		if err != nil {
			if err.Error() == "unauthorized" {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
				return
			}
			config.LogError(config.GetLogger(), "overheadHandlers.go", "getOverheadHandler", "GetOverhead", nil, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load overhead"})
			return
		}
		c.JSON(http.StatusOK, resp)
	}
}

func saveOverheadHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.NewOverheadInput
		if !bindJSON(c, &input) {
			return
		}

		resp, err := models.SaveOverhead(c.Request.Context(), &input)
		if err != nil {
			if err.Error() == "unauthorized" {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
				return
			}
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, resp)
	}
}
