package metrics

import (
	"context"
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/matzehuels/almanac/pkg/observability"
)

func TestHooksRecord(t *testing.T) {
	m := New()
	m.Install()
	t.Cleanup(observability.Reset)
	ctx := context.Background()

	p := observability.Pipeline()
	p.OnParseComplete(ctx, "text", 7, time.Millisecond, nil)
	p.OnSolveComplete(ctx, "range", 9, time.Millisecond, nil)
	p.OnSolveComplete(ctx, "range", 0, time.Millisecond, errors.New("empty"))
	p.OnStageApplied(ctx, "seed-to-soil", 2, 3)

	c := observability.Cache()
	c.OnCacheMiss(ctx, "solve")
	c.OnCacheSet(ctx, "solve", 120)
	c.OnCacheHit(ctx, "solve")

	observability.HTTP().OnResponse(ctx, "POST", "/solve", 200, time.Millisecond)

	checks := []struct {
		name string
		got  float64
		want float64
	}{
		{"parses ok", testutil.ToFloat64(m.parses.WithLabelValues("text", "ok")), 1},
		{"solves ok", testutil.ToFloat64(m.solves.WithLabelValues("range", "ok")), 1},
		{"solves error", testutil.ToFloat64(m.solves.WithLabelValues("range", "error")), 1},
		{"cache hit", testutil.ToFloat64(m.cacheEvents.WithLabelValues("solve", "hit")), 1},
		{"cache miss", testutil.ToFloat64(m.cacheEvents.WithLabelValues("solve", "miss")), 1},
		{"cache bytes", testutil.ToFloat64(m.cacheBytes.WithLabelValues("solve")), 120},
		{"requests", testutil.ToFloat64(m.requests.WithLabelValues("POST", "/solve", "200")), 1},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s = %v, want %v", c.name, c.got, c.want)
		}
	}
}

func TestHandler(t *testing.T) {
	m := New()
	pipelineHooks{m}.OnSolveComplete(context.Background(), "point", 4, time.Millisecond, nil)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, _ := io.ReadAll(rec.Body)
	if rec.Code != 200 {
		t.Fatalf("status = %d", rec.Code)
	}
	for _, want := range []string{
		`almanac_solves_total{mode="point",outcome="ok"} 1`,
		"go_goroutines",
	} {
		if !strings.Contains(string(body), want) {
			t.Errorf("exposition missing %q", want)
		}
	}
}
