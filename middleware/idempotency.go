package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"hotelops/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const (
	IdempotencyHeader = "Idempotency-Key"
	ReplayedHeader    = "X-Idempotency-Replayed"

	pendingMarker = "pending"
	replayBodyKey = "idempotencyReplayBody"
)

// CachedResponse is the stored outcome of a request.
type CachedResponse struct {
	Status      int    `json:"status"`
	ContentType string `json:"contentType"`
	Body        []byte `json:"body"`
}

// IdempotencyStore records request outcomes by key.
type IdempotencyStore interface {
	// Claim marks key as in flight. It returns false if the key already exists.
	Claim(ctx context.Context, key string, ttl time.Duration) (bool, error)
	// Lookup returns the stored response, or nil while the first request is
	// still running.
	Lookup(ctx context.Context, key string) (*CachedResponse, error)
	Save(ctx context.Context, key string, resp CachedResponse, ttl time.Duration) error
	Release(ctx context.Context, key string) error
}

// RedisIdempotencyStore keeps idempotency records in the cache database.
type RedisIdempotencyStore struct {
	client *redis.Client
	prefix string
}

func NewRedisIdempotencyStore(client *redis.Client) *RedisIdempotencyStore {
	return &RedisIdempotencyStore{client: client, prefix: "idempotency:"}
}

func (s *RedisIdempotencyStore) Claim(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	return s.client.SetNX(ctx, s.prefix+key, pendingMarker, ttl).Result()
}

func (s *RedisIdempotencyStore) Lookup(ctx context.Context, key string) (*CachedResponse, error) {
	raw, err := s.client.Get(ctx, s.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) || string(raw) == pendingMarker {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var resp CachedResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("corrupt idempotency record %s: %w", key, err)
	}
	return &resp, nil
}

func (s *RedisIdempotencyStore) Save(ctx context.Context, key string, resp CachedResponse, ttl time.Duration) error {
	raw, err := json.Marshal(resp)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.prefix+key, raw, ttl).Err()
}

func (s *RedisIdempotencyStore) Release(ctx context.Context, key string) error {
	return s.client.Del(ctx, s.prefix+key).Err()
}

// SetReplayBody replaces the body stored for replays of this request. Handlers
// use it to keep secrets shown once out of the cache.
func SetReplayBody(c *gin.Context, body []byte) {
	c.Set(replayBodyKey, body)
}

// generateKey scopes a client key to the principal and the exact request.
func generateKey(principal, idempotencyKey, method, path string, body []byte) string {
	h := sha256.New()
	h.Write([]byte(principal))
	h.Write([]byte{0})
	h.Write([]byte(idempotencyKey))
	h.Write([]byte{0})
	h.Write([]byte(method + " " + path))
	h.Write([]byte{0})
	h.Write(body)
	return hex.EncodeToString(h.Sum(nil))
}

type captureWriter struct {
	gin.ResponseWriter
	body bytes.Buffer
}

func (w *captureWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *captureWriter) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

// Idempotency replays the stored response when a request is retried with the
// same Idempotency-Key. Server errors are not stored so the client may retry.
// When the store is unreachable the request runs without protection.
func Idempotency(store IdempotencyStore, ttl time.Duration, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		clientKey := c.GetHeader(IdempotencyHeader)
		if clientKey == "" {
			c.Next()
			return
		}

		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			utils.JSONError(c, http.StatusBadRequest, "InvalidRequest", "could not read request body")
			return
		}
		c.Request.Body = io.NopCloser(bytes.NewReader(body))

		ctx := c.Request.Context()
		key := generateKey(Principal(c), clientKey, c.Request.Method, c.FullPath(), body)

		claimed, err := store.Claim(ctx, key, ttl)
		if err != nil {
			logger.Warn("Idempotency store unavailable", zap.Error(err))
			c.Next()
			return
		}
		if !claimed {
			replay(c, store, key, logger)
			return
		}

		w := &captureWriter{ResponseWriter: c.Writer}
		c.Writer = w
		c.Next()

		// The request may have been cancelled; the record must still be written.
		saveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
		defer cancel()
		if status := w.Status(); status >= http.StatusInternalServerError {
			if err := store.Release(saveCtx, key); err != nil {
				logger.Warn("Failed to release idempotency key", zap.Error(err))
			}
			return
		}
		resp := CachedResponse{
			Status:      w.Status(),
			ContentType: w.Header().Get("Content-Type"),
			Body:        w.body.Bytes(),
		}
		if v, ok := c.Get(replayBodyKey); ok {
			if body, ok := v.([]byte); ok {
				resp.Body = body
			}
		}
		if err := store.Save(saveCtx, key, resp, ttl); err != nil {
			logger.Warn("Failed to store idempotent response", zap.Error(err))
		}
	}
}

func replay(c *gin.Context, store IdempotencyStore, key string, logger *zap.Logger) {
	resp, err := store.Lookup(c.Request.Context(), key)
	if err != nil {
		logger.Warn("Idempotency lookup failed", zap.Error(err))
		utils.JSONError(c, http.StatusServiceUnavailable, "StoreUnavailable", "could not check idempotency key")
		return
	}
	if resp == nil {
		utils.JSONError(c, http.StatusConflict, "RequestInProgress", "a request with this Idempotency-Key is still being processed")
		return
	}
	c.Header(ReplayedHeader, "true")
	c.Data(resp.Status, resp.ContentType, resp.Body)
	c.Abort()
}
