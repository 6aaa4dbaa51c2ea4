// Package usecase はOHLCV価格履歴の取り込みと参照のビジネスロジックを実装します。
package usecase

import (
	"context"
	"strings"

	"findata_backend/internal/feature/marketdata/domain/entity"
)

const (
	// DefaultOutputSize はデフォルトのバー返却件数です。
	DefaultOutputSize = 200
	// MaxOutputSize はバーの最大返却件数です。
	MaxOutputSize = 5000
)

// BarRepository は価格履歴の読み取りレイヤーを抽象化します。
type BarRepository interface {
	// Find はデータベースから新しい順にバーを検索します。
	Find(ctx context.Context, ticker string, outputsize int) ([]entity.Bar, error)
}

// barsUsecase は価格履歴参照のユースケースを定義します。
type barsUsecase struct {
	bars BarRepository
}

// NewBarsUsecase はbarsUsecaseの新しいインスタンスを生成します。
func NewBarsUsecase(bars BarRepository) *barsUsecase {
	return &barsUsecase{bars: bars}
}

// GetBars は指定された銘柄の価格履歴を新しい順に取得します。
func (bu *barsUsecase) GetBars(ctx context.Context, ticker string, outputsize int) ([]entity.Bar, error) {
	if outputsize <= 0 || outputsize > MaxOutputSize {
		outputsize = DefaultOutputSize
	}

	bars, err := bu.bars.Find(ctx, strings.ToUpper(ticker), outputsize)
	if err != nil {
		return nil, err
	}

	return bars, nil
}
