package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"pincode-distance/model"
	"pincode-distance/service"
)

// 展示给用户的错误信息
const (
	msgInvalidPincode   = "Pincode must be a number."
	msgNoRegions        = "No valid pincode geometries found in the database."
	msgPairNotFound     = "One or both pincodes not found in the database."
	msgPincodeNotFound  = "Pincode not found in the database."
	msgInvalidRadius    = "radius_km must be a number greater than 0 and at most 500."
	msgSourceDown       = "Pincode database is unavailable, please retry."
	msgImportNotAllowed = "The configured region source does not accept imports."
	msgInternal         = "Internal error."
)

// RegionService 处理器依赖的业务接口
type RegionService interface {
	Calculate(ctx context.Context, fromText, toText string) (*service.DistanceResult, error)
	Lookup(ctx context.Context, codeText string) (*model.ResolvedPoint, error)
	Nearby(ctx context.Context, codeText string, radiusKm float64) (*service.NearbyResult, error)
	Import(ctx context.Context, records []model.PostalRegionRecord) (*service.ImportResult, error)
}

// RegionHandler 距离计算与邮编查询接口
type RegionHandler struct {
	svc RegionService
}

func NewRegionHandler(svc RegionService) *RegionHandler {
	return &RegionHandler{svc: svc}
}

// PincodeText 邮编输入，JSON 中既可以是字符串也可以是数字
type PincodeText string

func (p *PincodeText) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*p = PincodeText(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		// 其他类型交给后续的整数校验处理
		*p = PincodeText(string(data))
		return nil
	}
	*p = PincodeText(n.String())
	return nil
}

// DistanceRequest 距离计算请求
type DistanceRequest struct {
	From PincodeText `json:"from" form:"from"` // 起点邮编
	To   PincodeText `json:"to" form:"to"`     // 终点邮编
}

// DistanceResponse 距离计算响应
type DistanceResponse struct {
	From       int                 `json:"from"`
	To         int                 `json:"to"`
	DistanceKm float64             `json:"distance_km"` // 保留 2 位小数
	Message    string              `json:"message"`
	Details    []service.DetailRow `json:"details"` // 两行明细：起点、终点
}

// CalculateDistance 计算两个邮编之间的距离
// GET /api/distance?from=..&to=..  或  POST /api/distance {"from": "..", "to": ".."}
func (h *RegionHandler) CalculateDistance(c *gin.Context) {
	var req DistanceRequest
	if c.Request.Method == http.MethodGet {
		req.From = PincodeText(c.Query("from"))
		req.To = PincodeText(c.Query("to"))
	} else if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": msgInvalidPincode})
		return
	}

	res, err := h.svc.Calculate(c.Request.Context(), string(req.From), string(req.To))
	if err != nil {
		writeError(c, err, msgPairNotFound)
		return
	}

	c.JSON(http.StatusOK, DistanceResponse{
		From:       res.From,
		To:         res.To,
		DistanceKm: res.DistanceKm,
		Message:    res.Message(),
		Details:    res.Details,
	})
}

// GetPincode 查询单个邮编的代表点与描述信息
func (h *RegionHandler) GetPincode(c *gin.Context) {
	p, err := h.svc.Lookup(c.Request.Context(), c.Param("code"))
	if err != nil {
		writeError(c, err, msgPincodeNotFound)
		return
	}
	c.JSON(http.StatusOK, p)
}

// NearbyPincodes 半径内的其他邮编，默认半径 25km
func (h *RegionHandler) NearbyPincodes(c *gin.Context) {
	radius, err := strconv.ParseFloat(c.DefaultQuery("radius_km", "25"), 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": msgInvalidRadius})
		return
	}

	res, err := h.svc.Nearby(c.Request.Context(), c.Param("code"), radius)
	if err != nil {
		writeError(c, err, msgPincodeNotFound)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"origin":    res.Origin,
		"radius_km": res.RadiusKm,
		"count":     len(res.Nearby),
		"nearby":    res.Nearby,
	})
}

// writeError 把业务错误映射为状态码与用户可读信息
func writeError(c *gin.Context, err error, notFoundMsg string) {
	status, msg := http.StatusInternalServerError, msgInternal
	switch {
	case errors.Is(err, service.ErrInvalidPincode):
		status, msg = http.StatusBadRequest, msgInvalidPincode
	case errors.Is(err, service.ErrInvalidRadius):
		status, msg = http.StatusBadRequest, msgInvalidRadius
	case errors.Is(err, service.ErrPincodeNotFound):
		status, msg = http.StatusNotFound, notFoundMsg
	case errors.Is(err, service.ErrNoRegions):
		status, msg = http.StatusServiceUnavailable, msgNoRegions
	case errors.Is(err, service.ErrImportUnsupported):
		status, msg = http.StatusNotImplemented, msgImportNotAllowed
	case errors.Is(err, service.ErrSourceUnavailable):
		status, msg = http.StatusBadGateway, msgSourceDown
	}
	if status >= http.StatusInternalServerError {
		_ = c.Error(err)
	}
	c.JSON(status, gin.H{"error": msg})
}
