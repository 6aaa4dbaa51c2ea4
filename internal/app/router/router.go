package router

import (
	analysishandler "findata_backend/internal/feature/analysis/transport/handler"
	markethandler "findata_backend/internal/feature/marketdata/transport/handler"
	stmthandler "findata_backend/internal/feature/statements/transport/handler"
	"findata_backend/internal/platform/http/handler"

	"github.com/gin-gonic/gin"
)

func NewRouter(fetch *stmthandler.FetchHandler, bars *markethandler.BarsHandler,
	ratios *analysishandler.RatiosHandler) *gin.Engine {
	r := gin.Default()

	// 導通確認用
	r.GET("/healthz", handler.Health)

	// r.Group("/api/v1") でルートグループを作成
	v1 := r.Group("/api/v1")
	{
		// 財務諸表と価格履歴の取得・保存
		v1.POST("/data/fetch/:ticker", fetch.FetchDataHandler)
		// 保存済み日足データの参照
		v1.GET("/data/ohlcv/:ticker", bars.GetBarsHandler)
		// 財務指標カタログの計算
		v1.GET("/analysis/ratios/:ticker", ratios.GetRatiosHandler)
	}

	return r
}
