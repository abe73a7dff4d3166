package middleware

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/fake-news-api/internal/config"
	"github.com/iliyamo/fake-news-api/internal/metrics"
)

// captureWriter captures response body/status while forwarding to the client.
type captureWriter struct {
	http.ResponseWriter
	status int
	buf    bytes.Buffer
	size   int64
	limit  int64
}

func (cw *captureWriter) WriteHeader(code int) { cw.status = code; cw.ResponseWriter.WriteHeader(code) }

func (cw *captureWriter) Write(b []byte) (int, error) {
	if cw.limit <= 0 {
		cw.buf.Write(b)
	} else if remain := cw.limit - cw.size; remain > 0 {
		if int64(len(b)) <= remain {
			cw.buf.Write(b)
		} else {
			cw.buf.Write(b[:remain])
		}
	}
	cw.size += int64(len(b))
	return cw.ResponseWriter.Write(b)
}

// cacheKey hashes method, route and the raw request body. The prediction for
// a body is fixed for the lifetime of the loaded artifacts.
func cacheKey(prefix string, c echo.Context, body []byte) string {
	h := sha1.New()
	h.Write([]byte(c.Request().Method + " " + c.Path() + "\n"))
	h.Write(body)
	return fmt.Sprintf("%s:%x", prefix, h.Sum(nil))
}

// replayable reports whether a stored response header may be written back on
// a hit. Per-request headers (CORS, Vary, request id, length) are produced by
// the middleware chain for the current request.
func replayable(key string) bool {
	k := http.CanonicalHeaderKey(key)
	switch k {
	case echo.HeaderContentLength, echo.HeaderXRequestID, echo.HeaderVary, "X-Cache":
		return false
	}
	return !strings.HasPrefix(k, "Access-Control-")
}

// encodePayload packs: [4 bytes status][4 bytes headerLen][headerJSON][body]
func encodePayload(status int, header http.Header, body []byte) ([]byte, error) {
	hdrJSON, err := json.Marshal(header)
	if err != nil {
		return nil, err
	}
	out := make([]byte, 8+len(hdrJSON)+len(body))
	binary.BigEndian.PutUint32(out[0:4], uint32(status))
	binary.BigEndian.PutUint32(out[4:8], uint32(len(hdrJSON)))
	copy(out[8:8+len(hdrJSON)], hdrJSON)
	copy(out[8+len(hdrJSON):], body)
	return out, nil
}

func decodePayload(bs []byte) (status int, header http.Header, body []byte, ok bool) {
	if len(bs) < 8 {
		return 0, nil, nil, false
	}
	status = int(binary.BigEndian.Uint32(bs[0:4]))
	hlen := int(binary.BigEndian.Uint32(bs[4:8]))
	if hlen < 0 || 8+hlen > len(bs) {
		return 0, nil, nil, false
	}
	hdr := make(http.Header)
	if hlen > 0 {
		if err := json.Unmarshal(bs[8:8+hlen], &hdr); err != nil {
			return 0, nil, nil, false
		}
	}
	return status, hdr, bs[8+hlen:], true
}

// NewPredictionCache caches successful responses in Redis keyed by the
// request body, so repeated submissions of the same text skip the model.
// Only 200 responses no larger than cfg.MaxBodyBytes are stored. With caching
// disabled or no client it is a pass-through.
func NewPredictionCache(cfg config.CacheConfig, rdb *redis.Client, m *metrics.Metrics) echo.MiddlewareFunc {
	if !cfg.Enabled || rdb == nil {
		return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}
	ttl := cfg.TTL
	maxBody := int64(cfg.MaxBodyBytes)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			var body []byte
			if req.Body != nil {
				b, err := io.ReadAll(req.Body)
				if err != nil {
					return err
				}
				body = b
			}
			req.Body = io.NopCloser(bytes.NewReader(body))

			ctx := req.Context()
			key := cacheKey(cfg.Prefix, c, body)

			if bs, err := rdb.Get(ctx, key).Bytes(); err == nil {
				if status, hdr, payload, ok := decodePayload(bs); ok {
					out := c.Response().Header()
					for k, vals := range hdr {
						if !replayable(k) || len(vals) == 0 {
							continue
						}
						out.Set(k, vals[0])
						for _, v := range vals[1:] {
							out.Add(k, v)
						}
					}
					c.Response().Header().Set("X-Cache", "HIT")
					m.ObserveCache(true)
					c.Response().WriteHeader(status)
					_, err := c.Response().Write(payload)
					return err
				}
			}

			m.ObserveCache(false)
			cw := &captureWriter{ResponseWriter: c.Response().Writer, status: http.StatusOK, limit: maxBody}
			c.Response().Writer = cw
			c.Response().Header().Set("X-Cache", "MISS")

			if err := next(c); err != nil {
				return err
			}

			if cw.status != http.StatusOK || (maxBody > 0 && cw.size > maxBody) {
				return nil
			}
			hdr := make(http.Header)
			for k, vals := range c.Response().Header() {
				if replayable(k) {
					hdr[k] = append([]string(nil), vals...)
				}
			}
			if payload, err := encodePayload(cw.status, hdr, cw.buf.Bytes()); err == nil {
				storeCtx, cancel := context.WithTimeout(context.Background(), time.Second)
				defer cancel()
				if err := rdb.SetEx(storeCtx, key, payload, ttl).Err(); err != nil {
					c.Logger().Warnf("prediction cache store failed: %v", err)
				}
			}
			return nil
		}
	}
}
