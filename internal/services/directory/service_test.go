package directory

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shiradev/kabuto/internal/common"
	"github.com/shiradev/kabuto/internal/models"
)

type mockJQuants struct {
	listedInfoFn func(ctx context.Context) ([]models.ListedEntry, error)
	calls        int64
}

func (m *mockJQuants) DailyQuotes(ctx context.Context, code string) ([]models.DailyQuote, error) {
	return nil, fmt.Errorf("not implemented")
}
func (m *mockJQuants) DailyQuotesByDate(ctx context.Context, date string) ([]models.DailyQuote, error) {
	return nil, fmt.Errorf("not implemented")
}
func (m *mockJQuants) Statements(ctx context.Context, code string) ([]models.Statement, error) {
	return nil, fmt.Errorf("not implemented")
}
func (m *mockJQuants) ListedInfo(ctx context.Context) ([]models.ListedEntry, error) {
	atomic.AddInt64(&m.calls, 1)
	if m.listedInfoFn != nil {
		return m.listedInfoFn(ctx)
	}
	return nil, fmt.Errorf("not implemented")
}

func testUniverse() []models.ListedEntry {
	return []models.ListedEntry{
		{Code: "72030", NativeName: "トヨタ自動車", EnglishName: "TOYOTA MOTOR CORPORATION", Market: "プライム"},
		{Code: "67580", NativeName: "ソニーグループ", EnglishName: "Sony Group Corporation", Market: "プライム"},
		{Code: "99840", NativeName: "ソフトバンクグループ", EnglishName: "SoftBank Group Corp.", Market: "プライム"},
		{Code: "72670", NativeName: "ホンダ", EnglishName: "Honda Motor Co., Ltd.", Market: "プライム"},
	}
}

func newTestDirectory(entries []models.ListedEntry, err error) (*Service, *mockJQuants) {
	jq := &mockJQuants{
		listedInfoFn: func(_ context.Context) ([]models.ListedEntry, error) {
			return entries, err
		},
	}
	return NewService(jq, time.Hour, common.NewSilentLogger()), jq
}

func TestListAll(t *testing.T) {
	svc, _ := newTestDirectory(testUniverse(), nil)

	entries, err := svc.List(context.Background(), "")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(entries) != 4 {
		t.Errorf("got %d entries, want whole universe", len(entries))
	}
}

func TestListFilterByCode(t *testing.T) {
	svc, _ := newTestDirectory(testUniverse(), nil)

	entries, err := svc.List(context.Background(), "7203")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(entries) != 1 || entries[0].Code != "72030" {
		t.Errorf("entries = %+v", entries)
	}
}

func TestListFilterMultiScript(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  string
	}{
		{"latin against english name", "toyota", "72030"},
		{"latin with corporate suffix", "Toyota Inc", "72030"},
		{"latin with suffix", "Sony Corporation", "67580"},
		{"romaji against native-only name", "honda", "72670"},
		{"katakana", "ソフトバンク", "99840"},
		{"hiragana folds to katakana", "そにー", "67580"},
		{"native suffix ignored", "ソニーグループ株式会社", "67580"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newTestDirectory(testUniverse(), nil)
			entries, err := svc.List(context.Background(), tt.query)
			if err != nil {
				t.Fatalf("List(%q) failed: %v", tt.query, err)
			}
			found := false
			for _, e := range entries {
				if e.Code == tt.want {
					found = true
				}
			}
			if !found {
				t.Errorf("List(%q) = %+v, want entry %s", tt.query, entries, tt.want)
			}
		})
	}
}

func TestListNoMatchesIsEmptyNotError(t *testing.T) {
	svc, _ := newTestDirectory(testUniverse(), nil)

	entries, err := svc.List(context.Background(), "zzzzzz")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("got %d entries, want 0", len(entries))
	}
}

func TestListSnapshotCached(t *testing.T) {
	svc, jq := newTestDirectory(testUniverse(), nil)

	for i := 0; i < 5; i++ {
		if _, err := svc.List(context.Background(), ""); err != nil {
			t.Fatalf("List %d failed: %v", i, err)
		}
	}

	if n := atomic.LoadInt64(&jq.calls); n != 1 {
		t.Errorf("provider called %d times, want 1 (snapshot cached)", n)
	}
}

func TestListConcurrentColdReadersShareReload(t *testing.T) {
	jq := &mockJQuants{
		listedInfoFn: func(_ context.Context) ([]models.ListedEntry, error) {
			time.Sleep(30 * time.Millisecond)
			return testUniverse(), nil
		},
	}
	svc := NewService(jq, time.Hour, common.NewSilentLogger())

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := svc.List(context.Background(), ""); err != nil {
				t.Errorf("concurrent List failed: %v", err)
			}
		}()
	}
	wg.Wait()

	if n := atomic.LoadInt64(&jq.calls); n != 1 {
		t.Errorf("provider called %d times, want 1 (shared reload)", n)
	}
}

func TestListProviderFailure(t *testing.T) {
	svc, _ := newTestDirectory(nil, fmt.Errorf("upstream down"))

	_, err := svc.List(context.Background(), "")
	if err == nil {
		t.Fatal("expected error when universe cannot be fetched")
	}
}

func TestListEmptyUniverseIsUnavailable(t *testing.T) {
	svc, _ := newTestDirectory([]models.ListedEntry{}, nil)

	_, err := svc.List(context.Background(), "")
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("err = %v, want ErrUnavailable", err)
	}
}

func TestListNilClientIsUnavailable(t *testing.T) {
	svc := NewService(nil, time.Hour, common.NewSilentLogger())

	_, err := svc.List(context.Background(), "toyota")
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("err = %v, want ErrUnavailable", err)
	}
}
