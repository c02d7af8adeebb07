package s3q

import "testing"

func expectPanic(t *testing.T, want string, fn func()) {
	t.Helper()
	defer func() {
		r := recover()
		if r == nil {
			t.Fatalf("expected panic containing %q, got none", want)
		}
		msg, ok := r.(string)
		if !ok || !contains(msg, want) {
			t.Fatalf("expected panic containing %q, got %v", want, r)
		}
	}()
	fn()
}

func contains(haystack, needle string) bool {
	for i := 0; i+len(needle) <= len(haystack); i++ {
		if haystack[i:i+len(needle)] == needle {
			return true
		}
	}
	return false
}

func TestContainsBoundary(t *testing.T) {
	cfg := NewOrderedConfig[int](0, 100)

	if cfg.Contains(0) {
		t.Fatal("Contains(Inf) = true, want false (Inf is exclusive)")
	}
	if cfg.Contains(100) {
		t.Fatal("Contains(Sup) = true, want false (Sup is exclusive)")
	}
	if !cfg.Contains(50) {
		t.Fatal("Contains(50) = false, want true")
	}
	if !cfg.Contains(1) {
		t.Fatal("Contains(1) = false, want true")
	}
	if !cfg.Contains(99) {
		t.Fatal("Contains(99) = false, want true")
	}
}

func TestDerivedConstantsFromDefaults(t *testing.T) {
	cfg := NewOrderedConfig[int](testInf, testSup)
	cfg.Resolve()

	if got := cfg.MaxDegree(); got != 1<<DefaultLogMaxDegree {
		t.Fatalf("MaxDegree() = %d, want %d", got, 1<<DefaultLogMaxDegree)
	}
	if got, want := cfg.MinDegree(), cfg.MaxDegree()/2; got != want {
		t.Fatalf("MinDegree() = %d, want %d", got, want)
	}
	if got := cfg.SplitFactor(); got < 4 {
		t.Fatalf("SplitFactor() = %d, want >= 4", got)
	}
	if got, want := cfg.GrowthRate(), cfg.MaxDegree()-cfg.MinDegree(); got != want {
		t.Fatalf("GrowthRate() = %d, want %d", got, want)
	}
}

func TestResolvePanicsOnSplitFactorTooSmall(t *testing.T) {
	expectPanic(t, "kSplitFactor", func() {
		cfg := NewOrderedConfig[int](testInf, testSup)
		cfg.LogMaxDegree = 2 // splitFactor = 1<<(2/2) = 2, below the required 4
		cfg.Resolve()
	})
}

func TestResolvePanicsOnUnrollTooWide(t *testing.T) {
	expectPanic(t, "kUnroll", func() {
		cfg := NewOrderedConfig[int](testInf, testSup)
		cfg.BufBaseSize = 8 // forces BufBaseSize/(2*kSplitFactor) below KUnroll=7
		cfg.Resolve()
	})
}

func TestResolvePanicsOnMissingGetKey(t *testing.T) {
	expectPanic(t, "GetKey", func() {
		var cfg Config[int, int]
		cfg.Resolve()
	})
}

func TestNewConfigRecordTypeSentinel(t *testing.T) {
	type entry struct {
		id  string
		pri int
	}

	cfg := NewConfig(
		func(e entry) int { return e.pri },
		func(e entry, k int) entry { e.pri = k; return e },
		testInf, testSup,
	)
	cfg.Resolve()

	sentinel := cfg.Sentinel(entry{id: "placeholder"})
	if sentinel.pri != testInf {
		t.Fatalf("sentinel.pri = %d, want %d", sentinel.pri, testInf)
	}
	if sentinel.id != "placeholder" {
		t.Fatalf("sentinel.id = %q, want it preserved from the base item", sentinel.id)
	}
}

func TestResolveIsIdempotent(t *testing.T) {
	cfg := NewOrderedConfig[int](testInf, testSup)
	cfg.Resolve()
	first := cfg.MaxDegree()

	cfg.LogMaxDegree = 10 // should have no effect: Resolve already ran
	cfg.Resolve()

	if got := cfg.MaxDegree(); got != first {
		t.Fatalf("MaxDegree() changed after second Resolve(): got %d, want %d", got, first)
	}
}
