package phrase

import (
	"context"
	"fmt"
	"strings"
	"testing"
)

// =============================================================================
// PARSING BENCHMARKS
// =============================================================================

func BenchmarkParse_Simple(b *testing.B) {
	source := "Hello {user}!"

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = From(source)
	}
}

func BenchmarkParse_ManyKeys(b *testing.B) {
	var sb strings.Builder
	for i := 0; i < 100; i++ {
		fmt.Fprintf(&sb, "item {key_%d} costs {price}, ", i)
	}
	source := sb.String()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = From(source)
	}
}

func BenchmarkParse_LongText(b *testing.B) {
	source := strings.Repeat("plain text without placeholders ", 500) + "{tail}"

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = From(source)
	}
}

// =============================================================================
// FORMATTING BENCHMARKS
// =============================================================================

func BenchmarkFormat_Rebind(b *testing.B) {
	tmpl := MustFrom("Hello {user}, welcome to {app}! Your role: {role}")
	_ = tmpl.Put("app", "phrase")
	_ = tmpl.Put("role", "admin")

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		// binding drops the cached result
		_ = tmpl.Put("user", "Alice")
		_, _ = tmpl.Format()
	}
}

func BenchmarkFormat_Cached(b *testing.B) {
	tmpl := MustFrom("Hello {user}!")
	_ = tmpl.Put("user", "Alice")

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = tmpl.Format()
	}
}

func BenchmarkFormat_Array(b *testing.B) {
	tmpl := MustFrom("Items: {items}")
	items := make([]int, 50)
	for i := range items {
		items[i] = i
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = PutSlice(tmpl, "items", items, ", ")
		_, _ = tmpl.Format()
	}
}

func BenchmarkFormat_Spanned(b *testing.B) {
	markup, _ := ParseMarkup("<b>{count}</b> new <i>messages</i> for <u>{user}</u>")
	tmpl, _ := FromSpanned(markup)
	_ = tmpl.Put("user", "Alice")

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = tmpl.Put("count", i)
		_, _ = tmpl.FormatHTML()
	}
}

// =============================================================================
// CATALOG BENCHMARKS
// =============================================================================

func BenchmarkCatalog_Format(b *testing.B) {
	ctx := context.Background()
	catalog := MustNewCatalog(NewMemoryStorage())
	_, _ = catalog.Save(ctx, "welcome", "Hello {user}, you have {count} messages", BracketCurly, "")
	values := map[string]any{"user": "Alice", "count": 5}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = catalog.Format(ctx, "welcome", values)
	}
}

func BenchmarkCatalog_FormatParallel(b *testing.B) {
	ctx := context.Background()
	catalog := MustNewCatalog(NewCachedStorage(NewMemoryStorage(), DefaultCacheConfig()))
	_, _ = catalog.Save(ctx, "welcome", "Hello {user}!", BracketCurly, "")
	values := map[string]any{"user": "Alice"}

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			_, _ = catalog.Format(ctx, "welcome", values)
		}
	})
}
