package api

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/zulandar/intake/internal/action"
)

// maxBodyBytes caps the size of create and update payloads.
const maxBodyBytes = 1 << 20

// NewRouter builds the gin engine for the action-item surface. basePath is an
// optional prefix such as "/api".
func NewRouter(svc *action.Service, basePath string, accessLog bool) *gin.Engine {
	router := gin.New()
	if accessLog {
		router.Use(gin.Logger())
	}
	router.Use(gin.Recovery())
	registerRoutes(router, svc, basePath)
	return router
}

// registerRoutes sets up all routes on the Gin router.
func registerRoutes(router *gin.Engine, svc *action.Service, basePath string) {
	router.GET("/health", handleHealth())

	actions := router.Group(basePath + "/analyses/:analysisId/actions")
	actions.Use(errorResponder())
	actions.GET("", handleList(svc))
	actions.POST("", handleCreate(svc))
	actions.GET("/:actionId", handleGet(svc))
	actions.PATCH("/:actionId", handleUpdate(svc))
	actions.DELETE("/:actionId", handleDelete(svc))
}

func handleHealth() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}

func handleList(svc *action.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		items, err := svc.List(c.Request.Context(), c.Param("analysisId"))
		if err != nil {
			c.Error(err)
			return
		}
		c.JSON(http.StatusOK, items)
	}
}

func handleGet(svc *action.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		item, err := svc.Get(c.Request.Context(), c.Param("analysisId"), c.Param("actionId"))
		if err != nil {
			c.Error(err)
			return
		}
		c.JSON(http.StatusOK, item)
	}
}

func handleCreate(svc *action.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		body, err := readBody(c)
		if err != nil {
			c.Error(err)
			return
		}
		item, err := svc.Create(c.Request.Context(), c.Param("analysisId"), body)
		if err != nil {
			c.Error(err)
			return
		}
		c.JSON(http.StatusCreated, item)
	}
}

func handleUpdate(svc *action.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		body, err := readBody(c)
		if err != nil {
			c.Error(err)
			return
		}
		item, err := svc.Update(c.Request.Context(), c.Param("analysisId"), c.Param("actionId"), body)
		if err != nil {
			c.Error(err)
			return
		}
		c.JSON(http.StatusOK, item)
	}
}

func handleDelete(svc *action.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svc.Delete(c.Request.Context(), c.Param("analysisId"), c.Param("actionId")); err != nil {
			c.Error(err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// readBody reads a request payload, rejecting bodies over maxBodyBytes.
func readBody(c *gin.Context) ([]byte, error) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes)
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		return nil, &action.ValidationError{Fields: []action.FieldError{
			{Field: "body", Message: "must be a JSON object of at most 1 MiB"},
		}}
	}
	return body, nil
}
