package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	report_api_request = "request"
	report_api_panic   = "panic"
)

const requestIDHeader = "X-Request-Id"

func cors(c *gin.Context) {
	header := c.Writer.Header()
	header.Set("Access-Control-Allow-Origin", "*")
	header.Set("Access-Control-Allow-Headers", "Origin, X-Requested-With, Content-Type, Accept")
	header.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
	if c.Request.Method == http.MethodOptions {
		c.AbortWithStatus(http.StatusOK)
		return
	}
	c.Next()
}

// requestID reuses the caller's request id when it sent one.
func (s *Server) requestID(c *gin.Context) {
	id := c.GetHeader(requestIDHeader)
	if id == "" {
		id = uuid.NewString()
	}
	c.Set("requestId", id)
	c.Header(requestIDHeader, id)
	c.Next()
}

func (s *Server) accessLog(c *gin.Context) {
	start := time.Now()
	c.Next()

	status := c.Writer.Status()
	params := []any{
		c.Request.Method,
		c.Request.URL.Path,
		status,
		time.Since(start).String(),
		c.GetString("requestId"),
	}
	if status >= http.StatusInternalServerError {
		s.tel.ReportWarning(report_api_request, params...)
		return
	}
	s.tel.ReportDebug(report_api_request, params...)
}

func (s *Server) recoverPanic(c *gin.Context, recovered any) {
	s.tel.ReportBroken(report_api_panic, recovered, c.Request.URL.Path)
	c.AbortWithStatusJSON(http.StatusInternalServerError, errorResponse{
		Error: "internal server error",
	})
}
