package cache

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"

	"findata_backend/internal/feature/marketdata/domain/entity"
	"findata_backend/internal/shared/ingest"
)

// mockBarRepository はテスト用のBarRepository/BarWriterモック実装です。
type mockBarRepository struct {
	findFn   func(ctx context.Context, ticker string, outputsize int) ([]entity.Bar, error)
	upsertFn func(ctx context.Context, bar entity.Bar) (ingest.Outcome, error)
}

func (m *mockBarRepository) Find(ctx context.Context, ticker string, outputsize int) ([]entity.Bar, error) {
	if m.findFn != nil {
		return m.findFn(ctx, ticker, outputsize)
	}
	return nil, nil
}

func (m *mockBarRepository) Upsert(ctx context.Context, bar entity.Bar) (ingest.Outcome, error) {
	if m.upsertFn != nil {
		return m.upsertFn(ctx, bar)
	}
	return ingest.OutcomeInserted, nil
}

// TestNewCachingBarRepository_Defaults はデフォルト値（TTLとnamespace）が正しく設定されることを検証します。
func TestNewCachingBarRepository_Defaults(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name              string
		ttl               time.Duration
		namespace         string
		expectedTTL       time.Duration
		expectedNamespace string
	}{
		{
			name:              "default values when zero/empty",
			ttl:               0,
			namespace:         "",
			expectedTTL:       5 * time.Minute,
			expectedNamespace: "bars",
		},
		{
			name:              "negative ttl uses default",
			ttl:               -1 * time.Minute,
			namespace:         "",
			expectedTTL:       5 * time.Minute,
			expectedNamespace: "bars",
		},
		{
			name:              "custom values preserved",
			ttl:               10 * time.Minute,
			namespace:         "custom",
			expectedTTL:       10 * time.Minute,
			expectedNamespace: "custom",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			inner := &mockBarRepository{}
			repo := NewCachingBarRepository(nil, tt.ttl, inner, inner, tt.namespace)

			if repo.ttl != tt.expectedTTL {
				t.Errorf("expected TTL %v, got %v", tt.expectedTTL, repo.ttl)
			}
			if repo.namespace != tt.expectedNamespace {
				t.Errorf("expected namespace %q, got %q", tt.expectedNamespace, repo.namespace)
			}
		})
	}
}

// TestCachingBarRepository_Find_NilRedis はRedisがnilの場合にキャッシュをバイパスして内部リポジトリを直接呼び出すことを検証します。
func TestCachingBarRepository_Find_NilRedis(t *testing.T) {
	t.Parallel()

	expectedBars := []entity.Bar{
		{Ticker: "AAPL", Open: 150.0, Close: 155.0},
	}

	inner := &mockBarRepository{
		findFn: func(ctx context.Context, ticker string, outputsize int) ([]entity.Bar, error) {
			return expectedBars, nil
		},
	}

	repo := NewCachingBarRepository(nil, 5*time.Minute, inner, inner, "bars")

	bars, err := repo.Find(context.Background(), "AAPL", 100)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(bars) != len(expectedBars) {
		t.Errorf("expected %d bars, got %d", len(expectedBars), len(bars))
	}
}

// TestCachingBarRepository_Find_CacheHit はキャッシュヒット時にRedisからデータを返し、内部リポジトリを呼ばないことを検証します。
func TestCachingBarRepository_Find_CacheHit(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	cachedBars := []entity.Bar{
		{Ticker: "AAPL", Open: 150.0, Close: 155.0},
	}
	cachedJSON, _ := json.Marshal(cachedBars)

	mock.ExpectGet("bars:AAPL:100").SetVal(string(cachedJSON))

	innerCalled := false
	inner := &mockBarRepository{
		findFn: func(ctx context.Context, ticker string, outputsize int) ([]entity.Bar, error) {
			innerCalled = true
			return nil, nil
		},
	}

	repo := NewCachingBarRepository(rdb, 5*time.Minute, inner, inner, "bars")
	bars, err := repo.Find(context.Background(), "AAPL", 100)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if innerCalled {
		t.Error("inner repository should not be called on cache hit")
	}
	if len(bars) != 1 {
		t.Errorf("expected 1 bar, got %d", len(bars))
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled mock expectations: %v", err)
	}
}

// TestCachingBarRepository_Find_CacheMiss はキャッシュミス時にDBからデータを取得し、キャッシュに保存することを検証します。
func TestCachingBarRepository_Find_CacheMiss(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	expectedBars := []entity.Bar{
		{Ticker: "AAPL", Open: 150.0, Close: 155.0},
	}
	expectedJSON, _ := json.Marshal(expectedBars)

	mock.ExpectGet("bars:AAPL:100").RedisNil()
	mock.ExpectSet("bars:AAPL:100", expectedJSON, 5*time.Minute).SetVal("OK")

	inner := &mockBarRepository{
		findFn: func(ctx context.Context, ticker string, outputsize int) ([]entity.Bar, error) {
			return expectedBars, nil
		},
	}

	repo := NewCachingBarRepository(rdb, 5*time.Minute, inner, inner, "bars")
	bars, err := repo.Find(context.Background(), "AAPL", 100)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(bars) != 1 {
		t.Errorf("expected 1 bar, got %d", len(bars))
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled mock expectations: %v", err)
	}
}

// TestCachingBarRepository_Find_InnerError は内部リポジトリがエラーを返した場合にそのエラーが伝播されることを検証します。
func TestCachingBarRepository_Find_InnerError(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	expectedErr := errors.New("database error")

	mock.ExpectGet("bars:AAPL:100").RedisNil()

	inner := &mockBarRepository{
		findFn: func(ctx context.Context, ticker string, outputsize int) ([]entity.Bar, error) {
			return nil, expectedErr
		},
	}

	repo := NewCachingBarRepository(rdb, 5*time.Minute, inner, inner, "bars")
	_, err := repo.Find(context.Background(), "AAPL", 100)

	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !errors.Is(err, expectedErr) {
		t.Errorf("expected error %v, got %v", expectedErr, err)
	}
}

// TestCachingBarRepository_Find_CorruptedCache は破損したキャッシュを検出・削除し、DBにフォールバックすることを検証します。
func TestCachingBarRepository_Find_CorruptedCache(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	expectedBars := []entity.Bar{
		{Ticker: "AAPL", Open: 150.0, Close: 155.0},
	}
	expectedJSON, _ := json.Marshal(expectedBars)

	mock.ExpectGet("bars:AAPL:100").SetVal("invalid json")
	mock.ExpectDel("bars:AAPL:100").SetVal(1)
	mock.ExpectSet("bars:AAPL:100", expectedJSON, 5*time.Minute).SetVal("OK")

	inner := &mockBarRepository{
		findFn: func(ctx context.Context, ticker string, outputsize int) ([]entity.Bar, error) {
			return expectedBars, nil
		},
	}

	repo := NewCachingBarRepository(rdb, 5*time.Minute, inner, inner, "bars")
	bars, err := repo.Find(context.Background(), "AAPL", 100)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(bars) != 1 {
		t.Errorf("expected 1 bar, got %d", len(bars))
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled mock expectations: %v", err)
	}
}

// TestCachingBarRepository_Upsert_NilRedis はRedisがnilの場合にUpsertが内部リポジトリのみを呼び出すことを検証します。
func TestCachingBarRepository_Upsert_NilRedis(t *testing.T) {
	t.Parallel()

	innerCalled := false
	inner := &mockBarRepository{
		upsertFn: func(ctx context.Context, bar entity.Bar) (ingest.Outcome, error) {
			innerCalled = true
			return ingest.OutcomeInserted, nil
		},
	}

	repo := NewCachingBarRepository(nil, 5*time.Minute, inner, inner, "bars")
	outcome, err := repo.Upsert(context.Background(), entity.Bar{Ticker: "AAPL"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome != ingest.OutcomeInserted {
		t.Errorf("expected inserted outcome, got %v", outcome)
	}
	if !innerCalled {
		t.Error("expected inner repository to be called")
	}
}

// TestCachingBarRepository_Upsert_InnerError は内部リポジトリのUpsertエラーが伝播されることを検証します。
func TestCachingBarRepository_Upsert_InnerError(t *testing.T) {
	t.Parallel()

	expectedErr := errors.New("upsert error")
	inner := &mockBarRepository{
		upsertFn: func(ctx context.Context, bar entity.Bar) (ingest.Outcome, error) {
			return 0, expectedErr
		},
	}

	repo := NewCachingBarRepository(nil, 5*time.Minute, inner, inner, "bars")
	_, err := repo.Upsert(context.Background(), entity.Bar{Ticker: "AAPL"})

	if !errors.Is(err, expectedErr) {
		t.Errorf("expected error %v, got %v", expectedErr, err)
	}
}

// TestCachingBarRepository_Upsert_CacheInvalidation はUpsert後に関連するキャッシュが無効化されることを検証します。
func TestCachingBarRepository_Upsert_CacheInvalidation(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	inner := &mockBarRepository{
		upsertFn: func(ctx context.Context, bar entity.Bar) (ingest.Outcome, error) {
			return ingest.OutcomeUpdated, nil
		},
	}

	mock.ExpectScan(0, "bars:AAPL:*", 200).SetVal([]string{"bars:AAPL:100", "bars:AAPL:200"}, 0)
	mock.ExpectDel("bars:AAPL:100", "bars:AAPL:200").SetVal(2)

	repo := NewCachingBarRepository(rdb, 5*time.Minute, inner, inner, "bars")
	_, err := repo.Upsert(context.Background(), entity.Bar{Ticker: "AAPL"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled mock expectations: %v", err)
	}
}

// TestCachingBarRepository_Upsert_SkipKeepsCache はスキップされたUpsertがキャッシュを無効化しないことを検証します。
func TestCachingBarRepository_Upsert_SkipKeepsCache(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	inner := &mockBarRepository{
		upsertFn: func(ctx context.Context, bar entity.Bar) (ingest.Outcome, error) {
			return ingest.OutcomeSkipped, nil
		},
	}

	// No SCAN/DEL expectations: a skip must not touch the cache.
	repo := NewCachingBarRepository(rdb, 5*time.Minute, inner, inner, "bars")
	outcome, err := repo.Upsert(context.Background(), entity.Bar{Ticker: "AAPL"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome != ingest.OutcomeSkipped {
		t.Errorf("expected skipped outcome, got %v", outcome)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled mock expectations: %v", err)
	}
}

// TestSafe はsafe関数がRedisキーで問題となる文字を正しくエスケープすることを検証します。
func TestSafe(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input    string
		expected string
	}{
		{"AAPL", "AAPL"},
		{"BRK A", "BRK_A"},
		{"key:value", "key_value"},
		{"a b:c", "a_b_c"},
		{"", ""},
		{"  ", "__"},
		{"::", "__"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			result := safe(tt.input)
			if result != tt.expected {
				t.Errorf("safe(%q) = %q, expected %q", tt.input, result, tt.expected)
			}
		})
	}
}
