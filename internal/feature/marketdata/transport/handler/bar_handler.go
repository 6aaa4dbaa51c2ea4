// Package handler はmarketdataフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"findata_backend/internal/api"
	"findata_backend/internal/feature/marketdata/domain/entity"
)

// BarsUsecase は価格履歴参照のユースケースインターフェースを定義します。
type BarsUsecase interface {
	GetBars(ctx context.Context, ticker string, outputsize int) ([]entity.Bar, error)
}

// BarsHandler は価格履歴のHTTPリクエストを処理します。
type BarsHandler struct {
	uc BarsUsecase
}

// NewBarsHandler は指定されたusecaseでBarsHandlerの新しいインスタンスを生成します。
func NewBarsHandler(uc BarsUsecase) *BarsHandler {
	return &BarsHandler{uc: uc}
}

// GetBarsHandler はティッカーを受け取り、保存済みの日足データを新しい順のJSONで返します。
//
// エンドポイント例:
// GET /api/v1/data/ohlcv/:ticker?outputsize=200
func (h *BarsHandler) GetBarsHandler(c *gin.Context) {
	ticker := c.Param("ticker")
	outputsizeStr := c.DefaultQuery("outputsize", "200")
	// 文字列を整数に変換（不正値はusecase側でデフォルトに丸められる）
	outputsize, _ := strconv.Atoi(outputsizeStr)

	bars, err := h.uc.GetBars(c.Request.Context(), ticker, outputsize)
	if err != nil {
		c.JSON(http.StatusBadGateway, api.ErrorResponse{Error: err.Error()})
		return
	}
	if len(bars) == 0 {
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "no price data stored for " + ticker})
		return
	}

	out := make([]api.BarResponse, 0, len(bars))
	for _, b := range bars {
		out = append(out, api.BarResponse{
			Date:   b.Date.UTC().Format("2006-01-02"),
			Open:   b.Open,
			High:   b.High,
			Low:    b.Low,
			Close:  b.Close,
			Volume: b.Volume,
		})
	}

	c.JSON(http.StatusOK, out)
}
