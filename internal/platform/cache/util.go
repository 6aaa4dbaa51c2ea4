package cache

import (
	"time"
)

// TimeUntilNextMarketClose は次の16時30分（米国東部時間、終値確定後）までの期間を返します。
// 日次バーのキャッシュTTLとして使用します。
func TimeUntilNextMarketClose() time.Duration {
	loc, _ := time.LoadLocation("America/New_York")
	now := time.Now().In(loc)

	next := time.Date(now.Year(), now.Month(), now.Day(), 16, 30, 0, 0, loc)

	// 今日の16時30分が既に過ぎている場合は翌日を使用
	if now.After(next) {
		next = next.Add(24 * time.Hour)
	}

	return next.Sub(now)
}
