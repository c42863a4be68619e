package memory

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/pxlabs/kye-screener/internal/domain"
)

func testRecords() []domain.CaseRecord {
	return []domain.CaseRecord{
		{Number: "0001", Class: "Ação Penal", Role: "Réu"},
		{Number: "0002", Class: "Execução Fiscal", Role: "Executado"},
	}
}

func TestCache_SetAndGet(t *testing.T) {
	cache := New()
	defer cache.Stop()

	cache.Set("12345678901", testRecords(), 5*time.Second)

	got, ok := cache.Get("12345678901")
	if !ok {
		t.Error("Get() should return ok=true for existing subject")
	}
	if len(got) != 2 {
		t.Errorf("Get() returned %d records, want 2", len(got))
	}
}

func TestCache_EmptyDocketIsCacheable(t *testing.T) {
	cache := New()
	defer cache.Stop()

	// nada consta со стороны провайдера тоже кешируется: пустой
	// список - валидный результат, а не промах.
	cache.Set("12345678901", []domain.CaseRecord{}, 5*time.Second)

	got, ok := cache.Get("12345678901")
	if !ok {
		t.Error("Empty docket should still be a cache hit")
	}
	if len(got) != 0 {
		t.Errorf("Expected empty docket, got %d records", len(got))
	}
}

func TestCache_GetNonExistent(t *testing.T) {
	cache := New()
	defer cache.Stop()

	got, ok := cache.Get("99999999999")
	if ok {
		t.Error("Get() should return ok=false for unknown subject")
	}
	if got != nil {
		t.Errorf("Get() = %v, want nil", got)
	}
}

func TestCache_TTLExpiration(t *testing.T) {
	cache := New()
	defer cache.Stop()

	cache.Set("12345678901", testRecords(), 50*time.Millisecond)

	if _, ok := cache.Get("12345678901"); !ok {
		t.Error("Subject should exist before TTL expiration")
	}

	time.Sleep(100 * time.Millisecond)

	if _, ok := cache.Get("12345678901"); ok {
		t.Error("Subject should be expired after TTL")
	}
}

func TestCache_Delete(t *testing.T) {
	cache := New()
	defer cache.Stop()

	cache.Set("12345678901", testRecords(), time.Minute)
	cache.Delete("12345678901")

	if _, ok := cache.Get("12345678901"); ok {
		t.Error("Deleted subject should not be found")
	}
}

func TestCache_StopIdempotent(t *testing.T) {
	cache := New()
	cache.Stop()
	cache.Stop() // повторный Stop не должен паниковать
}

func TestCache_ContextCancelStopsCleanup(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cache := NewWithContext(ctx)
	cancel()

	// кеш остается рабочим и после остановки фоновой чистки
	cache.Set("12345678901", testRecords(), time.Minute)
	if _, ok := cache.Get("12345678901"); !ok {
		t.Error("Cache should still serve reads after context cancel")
	}
}

func TestCache_ConcurrentAccess(t *testing.T) {
	cache := New()
	defer cache.Stop()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			id := fmt.Sprintf("%011d", n)
			cache.Set(id, testRecords(), time.Minute)
			cache.Get(id)
			cache.Delete(id)
		}(i)
	}
	wg.Wait()
}
