package main

import (
	"log"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/joho/godotenv"
	redisv9 "github.com/redis/go-redis/v9"

	"findata_backend/internal/app/di"
	"findata_backend/internal/app/router"
	analysishandler "findata_backend/internal/feature/analysis/transport/handler"
	analysisusecase "findata_backend/internal/feature/analysis/usecase"
	marketadapters "findata_backend/internal/feature/marketdata/adapters"
	markethandler "findata_backend/internal/feature/marketdata/transport/handler"
	marketusecase "findata_backend/internal/feature/marketdata/usecase"
	stmtadapters "findata_backend/internal/feature/statements/adapters"
	stmthandler "findata_backend/internal/feature/statements/transport/handler"
	stmtusecase "findata_backend/internal/feature/statements/usecase"
	infradb "findata_backend/internal/platform/db"
	infraredis "findata_backend/internal/platform/redis"
	"findata_backend/internal/shared/ratelimiter"
)

func main() {
	// .envを読み込む
	if err := godotenv.Load(".env"); err != nil {
		log.Println("[INFO] .env not found; using system environment variables")
	}

	// db
	db := infradb.OpenDB(&marketadapters.BarModel{}, &stmtadapters.StatementModel{})

	// Redis
	var rdb *redisv9.Client
	if tmp, err := infraredis.NewRedisClient(); err != nil {
		log.Println("[WARN] Redis unavailable. Running without cache.")
	} else if tmp != nil {
		rdb = tmp
		defer func() {
			if err := rdb.Close(); err != nil {
				log.Println("[ERROR] Failed to close Redis client:", err)
			}
		}()
	}

	// データソースとレートリミッタ
	source := di.NewSource()
	limiter := ratelimiter.NewRateLimiter(5, time.Minute)

	// Repository
	barRepo, barWriter := di.NewBarRepository(db, rdb)
	priceRepo := marketadapters.NewBarRepository(db)
	stmtRepo := stmtadapters.NewStatementRepository(db)

	// Usecase
	barsUC := marketusecase.NewBarsUsecase(barRepo)
	barsIngestUC := marketusecase.NewIngestUsecase(source, barWriter, limiter)
	stmtIngestUC := stmtusecase.NewIngestUsecase(source, stmtRepo, limiter)
	ratiosUC := analysisusecase.NewRatiosUsecase(stmtRepo, priceRepo)

	// Handler
	fetchH := stmthandler.NewFetchHandler(stmtIngestUC, barsIngestUC)
	barsH := markethandler.NewBarsHandler(barsUC)
	ratiosH := analysishandler.NewRatiosHandler(ratiosUC)

	// ルータ生成
	r := router.NewRouter(fetchH, barsH, ratiosH)

	// CORS追加
	r.Use(cors.Default())

	if err := r.Run(":8080"); err != nil {
		log.Fatal(err)
	}
}
