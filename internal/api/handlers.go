package api

import (
	"bbm-backend/internal/cache"
	"bbm-backend/internal/prices"
	"bbm-backend/internal/regions"
	"errors"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	report_api_regions = "regions"
	report_api_prices  = "prices"
)

type dataResponse struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

type providerResponse struct {
	Success     bool                  `json:"success"`
	LastUpdated time.Time             `json:"lastUpdated"`
	Data        prices.ProviderResult `json:"data"`
}

type refreshResponse struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    prices.Snapshot `json:"data"`
}

type healthResponse struct {
	Success    bool        `json:"success"`
	Status     string      `json:"status"`
	CacheStats cache.Stats `json:"cacheStats"`
	Timestamp  time.Time   `json:"timestamp"`
}

// fail writes err with the status its kind maps to. upstreamMessage replaces the
// message of errors that would otherwise leak internal details.
func (s *Server) fail(c *gin.Context, err error, upstreamMessage string) {
	status := http.StatusInternalServerError
	message := err.Error()

	var notFound *prices.ProviderNotFoundError
	var fetchErr *regions.FetchError
	switch {
	case errors.Is(err, regions.ErrInvalidID):
		status = http.StatusBadRequest
	case errors.As(err, &notFound):
		status = http.StatusNotFound
	case errors.Is(err, regions.ErrNotAvailable):
		status = http.StatusServiceUnavailable
	case errors.As(err, &fetchErr) && upstreamMessage != "":
		message = upstreamMessage
	}

	c.JSON(status, errorResponse{Error: message})
}

func (s *Server) listProvinces(c *gin.Context) {
	provinces, err := s.regions.ListProvinces(c.Request.Context())
	if err != nil {
		s.tel.ReportWarning(report_api_regions, err)
		s.fail(c, err, "Gagal mengambil data provinsi")
		return
	}
	c.JSON(http.StatusOK, dataResponse{Success: true, Data: provinces})
}

func (s *Server) listRegencies(c *gin.Context) {
	regencies, err := s.regions.ListRegencies(c.Request.Context(), c.Param("provinceId"))
	if err != nil {
		s.tel.ReportWarning(report_api_regions, err)
		s.fail(c, err, "Gagal mengambil data kabupaten/kota")
		return
	}
	c.JSON(http.StatusOK, dataResponse{Success: true, Data: regencies})
}

func (s *Server) listDistricts(c *gin.Context) {
	districts, err := s.regions.ListDistricts(c.Request.Context(), c.Param("regencyId"))
	if err != nil {
		s.tel.ReportWarning(report_api_regions, err)
		s.fail(c, err, "Gagal mengambil data kecamatan")
		return
	}
	c.JSON(http.StatusOK, dataResponse{Success: true, Data: districts})
}

func queryFilter(c *gin.Context) prices.Filter {
	return prices.Filter{
		Provider:     c.Query("provider"),
		ProvinceID:   c.Query("provinceId"),
		ProvinceName: c.Query("province"),
	}
}

func (s *Server) getPrices(c *gin.Context) {
	snapshot, err := s.prices.Snapshot(c.Request.Context())
	if err != nil {
		s.tel.ReportBroken(report_api_prices, err)
		s.fail(c, err, "")
		return
	}
	result, err := prices.Query(snapshot, queryFilter(c))
	if err != nil {
		s.fail(c, err, "")
		return
	}
	c.JSON(http.StatusOK, dataResponse{Success: true, Data: result})
}

// getProvider also honors the province filters of getPrices.
func (s *Server) getProvider(c *gin.Context) {
	snapshot, err := s.prices.Snapshot(c.Request.Context())
	if err != nil {
		s.tel.ReportBroken(report_api_prices, err)
		s.fail(c, err, "")
		return
	}

	key, err := snapshot.LookupProvider(c.Param("provider"))
	if err != nil {
		s.fail(c, err, "")
		return
	}
	filter := queryFilter(c)
	filter.Provider = string(key)
	result, err := prices.Query(snapshot, filter)
	if err != nil {
		s.fail(c, err, "")
		return
	}

	c.JSON(http.StatusOK, providerResponse{
		Success:     true,
		LastUpdated: result.LastUpdated,
		Data:        result.Providers[key],
	})
}

func (s *Server) refresh(c *gin.Context) {
	snapshot, err := s.prices.Refresh(c.Request.Context())
	if err != nil {
		s.tel.ReportBroken(report_api_prices, err)
		s.fail(c, err, "")
		return
	}
	c.JSON(http.StatusOK, refreshResponse{
		Success: true,
		Message: "Cache berhasil diperbarui",
		Data:    snapshot,
	})
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, healthResponse{
		Success:    true,
		Status:     "healthy",
		CacheStats: s.cache.Stats(),
		Timestamp:  s.time.Now(),
	})
}

func (s *Server) noRoute(c *gin.Context) {
	method := c.Request.Method
	if s.opts.StaticDir != "" && (method == http.MethodGet || method == http.MethodHead) {
		name := filepath.Join(s.opts.StaticDir, filepath.FromSlash(path.Clean("/"+c.Request.URL.Path)))
		info, err := os.Stat(name)
		if err == nil && info.IsDir() {
			name = filepath.Join(name, "index.html")
			info, err = os.Stat(name)
		}
		if err == nil && !info.IsDir() {
			c.File(name)
			return
		}
	}

	c.JSON(http.StatusNotFound, errorResponse{
		Error: "not found: " + method + " " + strings.TrimSpace(c.Request.URL.Path),
	})
}
