// Package handler はanalysisフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"findata_backend/internal/api"
	"findata_backend/internal/feature/analysis/domain"
	"findata_backend/internal/feature/analysis/domain/entity"
	"findata_backend/internal/feature/analysis/usecase"
)

// RatiosUsecase は財務指標計算のユースケースインターフェースを定義します。
type RatiosUsecase interface {
	ComputeRatios(ctx context.Context, ticker string, asOf time.Time, market usecase.MarketInput) (entity.RatioResult, error)
}

// RatiosHandler は財務指標のHTTPリクエストを処理します。
type RatiosHandler struct {
	uc RatiosUsecase
}

// NewRatiosHandler は指定されたusecaseでRatiosHandlerの新しいインスタンスを生成します。
func NewRatiosHandler(uc RatiosUsecase) *RatiosHandler {
	return &RatiosHandler{uc: uc}
}

// GetRatiosHandler はティッカーの財務指標カタログをJSONで返します。
// 計算できない指標は値がnullになり、理由が併記されます。
//
// エンドポイント例:
// GET /api/v1/analysis/ratios/:ticker?as_of=2024-01-02
func (h *RatiosHandler) GetRatiosHandler(c *gin.Context) {
	ticker := c.Param("ticker")

	var asOf time.Time
	if s := c.Query("as_of"); s != "" {
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "as_of must be YYYY-MM-DD"})
			return
		}
		asOf = t
	}

	result, err := h.uc.ComputeRatios(c.Request.Context(), ticker, asOf, usecase.MarketInput{})
	if err != nil {
		if errors.Is(err, domain.ErrNoStatements) {
			c.JSON(http.StatusNotFound, api.ErrorResponse{
				Error: "no financial statements stored for " + ticker + ", fetch it first",
			})
			return
		}
		c.JSON(http.StatusBadGateway, api.ErrorResponse{Error: err.Error()})
		return
	}

	out := api.RatiosResponse{
		Ticker: result.Ticker,
		Ratios: make(map[string]api.RatioResponse, len(result.Ratios)),
	}
	if !asOf.IsZero() {
		out.AsOf = asOf.Format("2006-01-02")
	}
	for name, r := range result.Ratios {
		out.Ratios[name] = api.RatioResponse{Value: r.Value, Unavailable: r.Unavailable}
	}

	c.JSON(http.StatusOK, out)
}
