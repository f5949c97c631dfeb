package http

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"booklog/internal/books/memory"
	"booklog/internal/catalog"
	"booklog/internal/core"
	"booklog/internal/log"
)

var testBooks = []core.RawBook{
	{ID: "b1", Title: "First", Writer: "Writer One", Date: "2024-03-05", PartOfSeries: "Foo", SeriesNumber: "3"},
	{ID: "b2", Title: "Second", Writer: strings.Repeat("A", 60), Date: "2024-03-05"},
	{ID: "b3", Title: "Third", Writer: "Writer Three", Date: "2024-03-05"},
	{ID: "b4", Title: "Solo", Writer: "Writer Four", Date: "2024-03-20"},
	{ID: "b5", Title: "February", Writer: "Writer Five", Date: "2024-02-10"},
	{ID: "b6", Title: "Undated", Writer: "Nobody", Date: "someday"},
}

type testServer struct {
	*Server
	catalog *catalog.Catalog
	logs    *bytes.Buffer
	covers  string
}

func newTestServer(t *testing.T, load bool) *testServer {
	t.Helper()
	var buf bytes.Buffer
	logger := log.New(log.Config{Output: &buf})

	cat := catalog.New(memory.New(testBooks...), logger)
	if load {
		_, err := cat.Load(context.Background())
		require.NoError(t, err)
	}

	covers := t.TempDir()
	srv := NewServer(":0", cat, Options{
		CoversDir: covers,
		Location:  time.UTC,
		Logger:    logger,
		Now:       func() time.Time { return time.Date(2024, time.March, 15, 9, 0, 0, 0, time.UTC) },
	})
	t.Cleanup(func() { _ = srv.Shutdown(context.Background()) })
	return &testServer{Server: srv, catalog: cat, logs: &buf, covers: covers}
}

func (ts *testServer) get(path string, headers ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rr := httptest.NewRecorder()
	ts.Handler.ServeHTTP(rr, req)
	return rr
}

func TestCalendarPage(t *testing.T) {
	ts := newTestServer(t, true)

	rr := ts.get("/")
	require.Equal(t, http.StatusOK, rr.Code)
	body := rr.Body.String()
	assert.Contains(t, body, "March 2024")
	assert.Contains(t, body, `href="/all"`)
	assert.Contains(t, body, "View All Books")
	assert.Contains(t, body, `data-date="2024-03-05"`)
	assert.Contains(t, body, "+2")
	assert.Contains(t, body, "multiple-collapsed")
	assert.Contains(t, body, "today")
	assert.NotEmpty(t, rr.Header().Get("X-Request-ID"))
	assert.Equal(t, "nosniff", rr.Header().Get("X-Content-Type-Options"))
}

func TestCalendarPageQueryNormalises(t *testing.T) {
	ts := newTestServer(t, true)

	rr := ts.get("/?year=2023&month=13")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "January 2024")
}

func TestNotLoadedCatalog(t *testing.T) {
	ts := newTestServer(t, false)

	assert.Equal(t, http.StatusServiceUnavailable, ts.get("/").Code)
	assert.Equal(t, http.StatusServiceUnavailable, ts.get("/readyz").Code)
	assert.Equal(t, http.StatusOK, ts.get("/healthz").Code)
}

func TestHealthReadyMetrics(t *testing.T) {
	ts := newTestServer(t, true)

	assert.Equal(t, http.StatusOK, ts.get("/healthz").Code)

	rr := ts.get("/readyz")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"status":"ready"`)
	assert.Contains(t, rr.Body.String(), `"source":"memory"`)

	ts.get("/")
	rr = ts.get("/metrics")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "catalog_books 6")
	assert.Contains(t, rr.Body.String(), "catalog_undated_books 1")
	assert.Contains(t, rr.Body.String(), "http_requests_total")
}

func TestMonthDetail(t *testing.T) {
	ts := newTestServer(t, true)

	rr := ts.get("/2024/03")
	require.Equal(t, http.StatusOK, rr.Code)
	body := rr.Body.String()
	assert.Contains(t, body, "2024년 03월")
	assert.Contains(t, body, "5일")
	assert.Contains(t, body, "20일")
	assert.Contains(t, body, "Back to Calendar")
	assert.Contains(t, body, "Foo 3")
	assert.Contains(t, body, strings.Repeat("A", 50)+"...")
	assert.NotContains(t, body, strings.Repeat("A", 51))
	assert.Contains(t, body, `href="/2024/02"`)
	assert.Contains(t, body, `href="/2024/04"`)
	assert.NotContains(t, body, "February")

	// Day 5 precedes day 20.
	assert.Less(t, strings.Index(body, "5일"), strings.Index(body, "20일"))
}

func TestMonthDetailEmpty(t *testing.T) {
	ts := newTestServer(t, true)

	rr := ts.get("/1999/01")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "No books this month.")
}

func TestMonthPathRouting(t *testing.T) {
	ts := newTestServer(t, true)

	tests := []struct {
		path         string
		wantCode     int
		wantLocation string
	}{
		{"/2024/3", http.StatusPermanentRedirect, "/2024/03"},
		{"/2023/13", http.StatusPermanentRedirect, "/2024/01"},
		{"/2024/03/", http.StatusPermanentRedirect, "/2024/03"},
		{"/2024/00", http.StatusPermanentRedirect, "/2023/12"},
		{"/abc/03", http.StatusNotFound, ""},
		{"/2024/march", http.StatusNotFound, ""},
		{"/99999999999999999999/03", http.StatusNotFound, ""},
		{"/2024/03/01", http.StatusNotFound, ""},
		{"/nothing", http.StatusNotFound, ""},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rr := ts.get(tt.path)
			assert.Equal(t, tt.wantCode, rr.Code)
			if tt.wantLocation != "" {
				assert.Equal(t, tt.wantLocation, rr.Header().Get("Location"))
			}
		})
	}
}

func TestAllPage(t *testing.T) {
	ts := newTestServer(t, true)

	rr := ts.get("/all")
	require.Equal(t, http.StatusOK, rr.Code)
	body := rr.Body.String()
	feb := strings.Index(body, "2024년 02월")
	mar := strings.Index(body, "2024년 03월")
	require.NotEqual(t, -1, feb)
	require.NotEqual(t, -1, mar)
	assert.Less(t, feb, mar)
	assert.Contains(t, body, "1 undated records are not shown.")
	assert.Contains(t, body, "Back to Calendar")
}

func TestCalendarPartialNavigation(t *testing.T) {
	ts := newTestServer(t, true)

	tests := []struct {
		name      string
		query     string
		wantTitle string
		wantPush  string
	}{
		{"prev across year", "year=2024&month=1&nav=prev", "December 2023", "/?year=2023&month=12"},
		{"next across year", "year=2023&month=12&nav=next", "January 2024", "/?year=2024&month=1"},
		{"swipe left shows next", "year=2024&month=3&touch_start=100&touch_end=0", "April 2024", "/?year=2024&month=4"},
		{"swipe right shows prev", "year=2024&month=3&touch_start=0&touch_end=100", "February 2024", "/?year=2024&month=2"},
		{"short touch stays", "year=2024&month=3&touch_start=0&touch_end=50", "March 2024", "/?year=2024&month=3"},
		{"NaN touch stays", "year=2024&month=3&touch_start=NaN&touch_end=0", "March 2024", "/?year=2024&month=3"},
		{"infinite touch stays", "year=2024&month=3&touch_start=0&touch_end=Inf", "March 2024", "/?year=2024&month=3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := ts.get("/ui/calendar?"+tt.query, HeaderHXRequest, "true")
			require.Equal(t, http.StatusOK, rr.Code)
			assert.Contains(t, rr.Body.String(), tt.wantTitle)
			assert.Equal(t, tt.wantPush, rr.Header().Get(HeaderHXPushURL))
			assert.Contains(t, rr.Header().Get(HeaderHXTrigger), "calendar:month")
			assert.NotContains(t, rr.Body.String(), "<html")
		})
	}
}

func TestCellHover(t *testing.T) {
	ts := newTestServer(t, true)

	rr := ts.get("/ui/cell?date=2024-03-05&hover=1")
	require.Equal(t, http.StatusOK, rr.Code)
	body := rr.Body.String()
	assert.Contains(t, body, "multiple-expanded")
	assert.Equal(t, 3, strings.Count(body, `class="cover"`))
	assert.NotContains(t, body, "+2")
	assert.Contains(t, body, "hx-trigger=\"mouseleave\"")

	rr = ts.get("/ui/cell?date=2024-03-05&hover=0")
	require.Equal(t, http.StatusOK, rr.Code)
	body = rr.Body.String()
	assert.Contains(t, body, "multiple-collapsed")
	assert.Equal(t, 1, strings.Count(body, `class="cover"`))
	assert.Contains(t, body, "+2")

	rr = ts.get("/ui/cell?date=2024-03-20&hover=1")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "single")

	assert.Equal(t, http.StatusBadRequest, ts.get("/ui/cell?date=2024-13-40").Code)
}

func TestActivate(t *testing.T) {
	ts := newTestServer(t, true)

	rr := ts.get("/ui/activate?date=2024-03-05&books=3", HeaderHXRequest, "true")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "/2024/03", rr.Header().Get(HeaderHXRedirect))

	rr = ts.get("/ui/activate?date=2024-02-10")
	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/2024/02", rr.Header().Get("Location"))

	rr = ts.get("/ui/activate?date=2024-03-06", HeaderHXRequest, "true")
	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Empty(t, rr.Header().Get(HeaderHXRedirect))
	assert.NotContains(t, ts.logs.String(), "Calendar event rejected")

	rr = ts.get("/ui/activate?date=not-a-date&books=1", HeaderHXRequest, "true")
	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Contains(t, ts.logs.String(), "Calendar event rejected")
	assert.Contains(t, ts.logs.String(), "day_key=not-a-date")
}

func TestPartialsRejectWrites(t *testing.T) {
	ts := newTestServer(t, true)

	req := httptest.NewRequest(http.MethodPost, "/ui/calendar", nil)
	rr := httptest.NewRecorder()
	ts.Handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}

func TestCovers(t *testing.T) {
	ts := newTestServer(t, true)
	require.NoError(t, os.WriteFile(filepath.Join(ts.covers, "b1.jpg"), []byte("jpeg"), 0o644))

	rr := ts.get("/data/covers/b1.jpg")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "jpeg", rr.Body.String())

	rr = ts.get("/data/covers/b2.jpg")
	assert.Equal(t, http.StatusFound, rr.Code)
	assert.Equal(t, core.DefaultCoverPath, rr.Header().Get("Location"))
	assert.True(t, ts.failedCovers.Contains("b2"))

	// Remembered until the next snapshot.
	require.NoError(t, os.WriteFile(filepath.Join(ts.covers, "b2.jpg"), []byte("late"), 0o644))
	assert.Equal(t, http.StatusFound, ts.get("/data/covers/b2.jpg").Code)
	_, err := ts.catalog.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, ts.get("/data/covers/b2.jpg").Code)

	assert.Equal(t, http.StatusNotFound, ts.get("/data/covers/b1.png").Code)
	assert.Equal(t, http.StatusNotFound, ts.get("/data/covers/b%2Fc.jpg").Code)
}

func TestDefaultCoverAndStatic(t *testing.T) {
	ts := newTestServer(t, true)

	rr := ts.get(core.DefaultCoverPath)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "image/png", rr.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(rr.Body.Bytes(), []byte("\x89PNG")))

	rr = ts.get("/static/app.css")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Header().Get("Cache-Control"), "max-age=3600")
}

func TestMonthCachePurgedOnReload(t *testing.T) {
	ts := newTestServer(t, true)

	ts.get("/")
	ts.get("/")
	stats := ts.months.Stats()
	assert.Equal(t, 1, stats.Size)
	assert.Equal(t, uint64(1), stats.Hits)

	_, err := ts.catalog.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, ts.months.Size())
}

func TestSplitMonthPath(t *testing.T) {
	y, m, ok := splitMonthPath("/2024/03")
	assert.True(t, ok)
	assert.Equal(t, "2024", y)
	assert.Equal(t, "03", m)

	for _, p := range []string{"/", "/2024", "/2024/03/05", "//03"} {
		_, _, ok := splitMonthPath(p)
		assert.False(t, ok, p)
	}
}
