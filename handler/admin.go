package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"pincode-distance/db"
)

// maxImportBytes 单次导入的请求体上限
var maxImportBytes int64 = 64 << 20

// ImportRegions 导入 GeoJSON FeatureCollection (需要登录)
// POST /api/admin/regions
func (h *RegionHandler) ImportRegions(c *gin.Context) {
	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxImportBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit)})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read request body"})
		return
	}

	records, err := db.ParseFeatureCollection(body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "body must be a GeoJSON FeatureCollection"})
		return
	}

	res, err := h.svc.Import(c.Request.Context(), records)
	if err != nil {
		writeError(c, err, msgPincodeNotFound)
		return
	}

	log.Info().Str("username", c.GetString("username")).Int("imported", res.Imported).Msg("导入邮编区域")
	c.JSON(http.StatusOK, res)
}
