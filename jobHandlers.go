package main

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/fieldworkslab/ratebook_backend/config"
	"github.com/fieldworkslab/ratebook_backend/models"
	"github.com/fieldworkslab/ratebook_backend/utils"
	"github.com/gin-gonic/gin"
)

func jobIdParam(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid job id"})
		return 0, false
	}
	return id, true
}

func createJobHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.NewJob
		if !bindJSON(c, &input) {
			return
		}

		resp, err := models.CreateJob(c.Request.Context(), &input)
		if err != nil {
			if err.Error() == "unauthorized" {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
				return
			}
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusCreated, resp)
	}
}

func listJobsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		jobs, err := models.GetJobs(c.Request.Context())
		if err != nil {
			if err.Error() == "unauthorized" {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
				return
			}
			config.LogError(config.GetLogger(), "jobHandlers.go", "listJobsHandler", "GetJobs", nil, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load jobs"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"jobs": jobs})
	}
}

func getJobHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		jobId, ok := jobIdParam(c)
		if !ok {
			return
		}
		resp, err := models.GetJobById(c.Request.Context(), jobId)
		if err != nil {
			respondJobError(c, err)
			return
		}
		c.JSON(http.StatusOK, resp)
	}
}

func updateJobHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		jobId, ok := jobIdParam(c)
		if !ok {
			return
		}
		var input models.NewJob
		if !bindJSON(c, &input) {
			return
		}
		resp, err := models.UpdateJob(c.Request.Context(), jobId, &input)
		if err != nil {
			respondJobError(c, err)
			return
		}
		c.JSON(http.StatusOK, resp)
	}
}

func deleteJobHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		jobId, ok := jobIdParam(c)
		if !ok {
			return
		}
		deleted, err := models.DeleteJob(c.Request.Context(), jobId)
		if err != nil {
			respondJobError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"deleted": deleted, "job_id": jobId})
	}
}

func respondJobError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, utils.ErrorRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "job not found"})
	case err.Error() == "unauthorized":
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	}
}
