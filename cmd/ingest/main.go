package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	"findata_backend/internal/app/di"
	marketadapters "findata_backend/internal/feature/marketdata/adapters"
	marketusecase "findata_backend/internal/feature/marketdata/usecase"
	stmtadapters "findata_backend/internal/feature/statements/adapters"
	stmtusecase "findata_backend/internal/feature/statements/usecase"
	infradb "findata_backend/internal/platform/db"
	"findata_backend/internal/shared/ratelimiter"
)

func main() {
	schedule := flag.String("schedule", "", "cron expression for scheduled refresh (e.g. \"0 18 * * 1-5\"); empty runs once")
	period := flag.String("period", "", "price history range to fetch (default 1y)")
	flag.Parse()

	tickers := flag.Args()
	if len(tickers) == 0 {
		log.Fatal("usage: ingest [-schedule CRON] [-period RANGE] TICKER...")
	}

	// .envを読み込む
	if err := godotenv.Load(".env"); err != nil {
		log.Println("[INFO] .env not found; using system environment variables")
	}

	db := infradb.OpenDB(&marketadapters.BarModel{}, &stmtadapters.StatementModel{})
	source := di.NewSource()
	limiter := ratelimiter.NewRateLimiter(5, time.Minute)

	barsUC := marketusecase.NewIngestUsecase(source, marketadapters.NewBarRepository(db), limiter)
	stmtUC := stmtusecase.NewIngestUsecase(source, stmtadapters.NewStatementRepository(db), limiter)

	run := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()

		for _, ticker := range tickers {
			stmtSum, err := stmtUC.FetchAndIngest(ctx, ticker)
			if err != nil {
				log.Printf("[ERROR] statements %s: %v", ticker, err)
			} else {
				log.Printf("statements %s: inserted=%d updated=%d skipped=%d",
					ticker, stmtSum.Inserted, stmtSum.Updated, stmtSum.Skipped)
			}

			barSum, err := barsUC.FetchAndIngest(ctx, ticker, *period)
			if err != nil {
				log.Printf("[ERROR] ohlcv %s: %v", ticker, err)
			} else {
				log.Printf("ohlcv %s: inserted=%d updated=%d skipped=%d",
					ticker, barSum.Inserted, barSum.Updated, barSum.Skipped)
			}
		}
	}

	if *schedule == "" {
		run()
		log.Println("ingest ok")
		return
	}

	// 定期リフレッシュモード
	c := cron.New()
	if _, err := c.AddFunc(*schedule, run); err != nil {
		log.Fatalf("invalid schedule %q: %v", *schedule, err)
	}
	log.Printf("scheduled refresh with %q for %d tickers", *schedule, len(tickers))
	c.Run()
}
