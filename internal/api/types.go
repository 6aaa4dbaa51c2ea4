// Package api はHTTPトランスポート共通のレスポンス型を定義します。
package api

// ErrorResponse はエラーレスポンスのDTOです。
type ErrorResponse struct {
	Error string `json:"error"`
}

// BarResponse は日足データのレスポンスDTOです。
type BarResponse struct {
	Date   string  `json:"date"`   // 日付
	Open   float64 `json:"open"`   // 始値
	High   float64 `json:"high"`   // 高値
	Low    float64 `json:"low"`    // 安値
	Close  float64 `json:"close"`  // 終値
	Volume int64   `json:"volume"` // 出来高
}

// RowFailureResponse は取り込みに失敗した行とその理由です。
type RowFailureResponse struct {
	Index  int    `json:"index"`
	Reason string `json:"reason"`
}

// IngestSummaryResponse は1回の取り込み結果の集計です。
type IngestSummaryResponse struct {
	Inserted int                  `json:"inserted"`
	Updated  int                  `json:"updated"`
	Skipped  int                  `json:"skipped"`
	Failures []RowFailureResponse `json:"failures,omitempty"`
}

// FetchResponse は財務諸表と価格履歴の取り込み結果をまとめたレスポンスです。
type FetchResponse struct {
	Ticker     string                `json:"ticker"`
	Statements IngestSummaryResponse `json:"statements"`
	OHLCV      IngestSummaryResponse `json:"ohlcv"`
}

// RatioResponse は1つの財務指標です。計算できない場合はvalueがnullになり、
// unavailableに理由が入ります。
type RatioResponse struct {
	Value       *float64 `json:"value"`
	Unavailable string   `json:"unavailable,omitempty"`
}

// RatiosResponse は銘柄の財務指標カタログです。
type RatiosResponse struct {
	Ticker string                   `json:"ticker"`
	AsOf   string                   `json:"as_of,omitempty"`
	Ratios map[string]RatioResponse `json:"ratios"`
}
