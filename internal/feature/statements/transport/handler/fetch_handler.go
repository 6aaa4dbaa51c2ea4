// Package handler はstatementsフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"findata_backend/internal/api"
	"findata_backend/internal/shared/ingest"
)

// StatementsIngestUsecase は財務諸表取り込みのユースケースインターフェースを定義します。
type StatementsIngestUsecase interface {
	FetchAndIngest(ctx context.Context, ticker string) (ingest.Summary, error)
}

// BarsIngestUsecase は価格履歴取り込みのユースケースインターフェースを定義します。
type BarsIngestUsecase interface {
	FetchAndIngest(ctx context.Context, ticker, period string) (ingest.Summary, error)
}

// FetchHandler はデータ取り込みのHTTPリクエストを処理します。
type FetchHandler struct {
	statements StatementsIngestUsecase
	bars       BarsIngestUsecase
}

// NewFetchHandler は指定されたusecaseでFetchHandlerの新しいインスタンスを生成します。
func NewFetchHandler(statements StatementsIngestUsecase, bars BarsIngestUsecase) *FetchHandler {
	return &FetchHandler{statements: statements, bars: bars}
}

// FetchDataHandler はティッカーの財務諸表（3種）と価格履歴を取得・正規化して保存します。
// 同じティッカーに対する再実行は冪等で、変更のない行はすべてスキップとして集計されます。
//
// エンドポイント例:
// POST /api/v1/data/fetch/:ticker?period=1y
func (h *FetchHandler) FetchDataHandler(c *gin.Context) {
	ticker := c.Param("ticker")
	period := c.DefaultQuery("period", "")

	stmtSum, err := h.statements.FetchAndIngest(c.Request.Context(), ticker)
	if err != nil {
		c.JSON(http.StatusBadGateway, api.ErrorResponse{Error: err.Error()})
		return
	}

	barSum, err := h.bars.FetchAndIngest(c.Request.Context(), ticker, period)
	if err != nil {
		c.JSON(http.StatusBadGateway, api.ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusCreated, api.FetchResponse{
		Ticker:     strings.ToUpper(ticker),
		Statements: toSummaryResponse(stmtSum),
		OHLCV:      toSummaryResponse(barSum),
	})
}

func toSummaryResponse(sum ingest.Summary) api.IngestSummaryResponse {
	out := api.IngestSummaryResponse{
		Inserted: sum.Inserted,
		Updated:  sum.Updated,
		Skipped:  sum.Skipped,
	}
	for _, f := range sum.Failures {
		out.Failures = append(out.Failures, api.RowFailureResponse{Index: f.Index, Reason: f.Reason})
	}
	return out
}
