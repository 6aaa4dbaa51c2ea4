// Package entity defines the domain models for the marketdata feature.
package entity

import "time"

// Bar represents one day of OHLCV (Open, High, Low, Close, Volume) price
// history for a ticker. Identity is (Ticker, Date): a second ingestion for
// the same identity overwrites the values in place, never duplicates the row.
type Bar struct {
	Ticker string    // Stock ticker symbol (e.g., "AAPL", "7203.T")
	Date   time.Time // Calendar date of the trading session
	Open   float64   // Opening price
	High   float64   // Highest price during the session
	Low    float64   // Lowest price during the session
	Close  float64   // Closing price
	Volume int64     // Trading volume
}

// ValuesEqual reports whether two bars carry the same values, ignoring
// identity. Used to skip no-op writes during ingestion.
func (b Bar) ValuesEqual(o Bar) bool {
	return b.Open == o.Open &&
		b.High == o.High &&
		b.Low == o.Low &&
		b.Close == o.Close &&
		b.Volume == o.Volume
}
