package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/fake-news-api/internal/config"
	"github.com/iliyamo/fake-news-api/internal/metrics"
)

func newCachedEcho(t *testing.T, cfg config.CacheConfig, rdb *redis.Client, m *metrics.Metrics, calls *int) *echo.Echo {
	t.Helper()
	e := echo.New()
	e.POST("/predict", func(c echo.Context) error {
		*calls++
		body := map[string]string{}
		if err := c.Bind(&body); err != nil || body["text"] == "" {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "Text field is required"})
		}
		return c.JSON(http.StatusOK, echo.Map{"prediction": "REAL", "confidence": 0.87})
	}, NewPredictionCache(cfg, rdb, m))
	return e
}

func post(e *echo.Echo, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/predict", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestPredictionCache_HitAfterMiss(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	m := metrics.New()
	calls := 0
	cfg := config.CacheConfig{Enabled: true, TTL: time.Minute, Prefix: "predict", MaxBodyBytes: 4096}
	e := newCachedEcho(t, cfg, rdb, m, &calls)

	first := post(e, `{"text":"some real news story"}`)
	require.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, "MISS", first.Header().Get("X-Cache"))

	second := post(e, `{"text":"some real news story"}`)
	require.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, "HIT", second.Header().Get("X-Cache"))
	assert.Equal(t, first.Body.String(), second.Body.String())
	assert.Equal(t, first.Header().Get(echo.HeaderContentType), second.Header().Get(echo.HeaderContentType))
	assert.Equal(t, 1, calls)

	assert.Len(t, mr.Keys(), 1)
	assert.True(t, strings.HasPrefix(mr.Keys()[0], "predict:"))
	assert.Equal(t, time.Minute, mr.TTL(mr.Keys()[0]))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Cache.WithLabelValues("hit")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Cache.WithLabelValues("miss")))
}

func TestPredictionCache_DifferentBodiesDifferentKeys(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	calls := 0
	e := newCachedEcho(t, config.CacheConfig{Enabled: true, TTL: time.Minute, Prefix: "p"}, rdb, nil, &calls)

	post(e, `{"text":"one"}`)
	post(e, `{"text":"two"}`)
	assert.Equal(t, 2, calls)
	assert.Len(t, mr.Keys(), 2)
}

func TestPredictionCache_ErrorsNotCached(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	calls := 0
	e := newCachedEcho(t, config.CacheConfig{Enabled: true, TTL: time.Minute, Prefix: "p"}, rdb, nil, &calls)

	assert.Equal(t, http.StatusBadRequest, post(e, `{}`).Code)
	assert.Equal(t, http.StatusBadRequest, post(e, `{}`).Code)
	assert.Equal(t, 2, calls)
	assert.Empty(t, mr.Keys())
}

func TestPredictionCache_OversizedResponseNotCached(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	calls := 0
	e := newCachedEcho(t, config.CacheConfig{Enabled: true, TTL: time.Minute, Prefix: "p", MaxBodyBytes: 8}, rdb, nil, &calls)

	post(e, `{"text":"x"}`)
	assert.Empty(t, mr.Keys())
}

func TestPredictionCache_DisabledWithoutClient(t *testing.T) {
	calls := 0
	e := newCachedEcho(t, config.CacheConfig{Enabled: true}, nil, nil, &calls)

	rec := post(e, `{"text":"x"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("X-Cache"))
}

func TestPayloadRoundTrip(t *testing.T) {
	hdr := http.Header{"Content-Type": []string{"application/json"}}
	bs, err := encodePayload(http.StatusOK, hdr, []byte(`{"a":1}`))
	require.NoError(t, err)

	status, gotHdr, body, ok := decodePayload(bs)
	require.True(t, ok)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, hdr, gotHdr)
	assert.Equal(t, `{"a":1}`, string(body))

	_, _, _, ok = decodePayload([]byte{0, 0, 0, 200, 0, 0, 1, 0})
	assert.False(t, ok)
}
