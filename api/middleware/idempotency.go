package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/quadworks/storefront/api/responses"
	pkgerrors "github.com/quadworks/storefront/pkg/errors"
	"github.com/quadworks/storefront/pkg/logger"
)

// DefaultIdempotencyTTL covers ordinary mutating endpoints; checkout and
// cancel use the longer critical TTL.
const (
	DefaultIdempotencyTTL  = 24 * time.Hour
	CriticalIdempotencyTTL = 7 * 24 * time.Hour
)

type idempotencyStore interface {
	Get(ctx context.Context, key string) (string, error)
	SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error)
	IdempotencyKey(userID, key string) string
}

type idempotencyRecord struct {
	Status      int    `json:"status"`
	Body        string `json:"body"`
	ContentType string `json:"content_type,omitempty"`
	RequestHash string `json:"request_hash"`
}

// Idempotency replays the stored response when a request repeats the same
// Idempotency-Key with the same body, and rejects key reuse with a
// different body. Apply per route on mutating endpoints.
func Idempotency(store idempotencyStore, logg *logger.Logger, ttl time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if store == nil {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			idempotencyKey := strings.TrimSpace(r.Header.Get("Idempotency-Key"))
			if idempotencyKey == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "Idempotency-Key header required"))
				return
			}

			body, err := io.ReadAll(r.Body)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read request"))
				return
			}
			r.Body = io.NopCloser(bytes.NewReader(body))

			requestHash := hashBody(body)
			scope := strings.Join([]string{UserIDFromContext(r.Context()), r.Method, r.URL.Path, idempotencyKey}, "|")
			key := store.IdempotencyKey(UserIDFromContext(r.Context()), hashValue(scope))

			stored, getErr := store.Get(r.Context(), key)
			if getErr != nil && !errors.Is(getErr, redis.Nil) {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, getErr, "check idempotency"))
				return
			}
			if stored != "" {
				var record idempotencyRecord
				if decodeErr := json.Unmarshal([]byte(stored), &record); decodeErr != nil {
					responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, decodeErr, "decode idempotency record"))
					return
				}
				if record.RequestHash != requestHash {
					responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeConflict, "idempotency key reused with different request body"))
					return
				}
				writeStoredResponse(w, record)
				return
			}

			rec := &responseCapture{ResponseWriter: w}
			next.ServeHTTP(rec, r)

			record := idempotencyRecord{
				Status:      rec.statusOrOK(),
				Body:        base64.StdEncoding.EncodeToString(rec.body.Bytes()),
				ContentType: rec.Header().Get("Content-Type"),
				RequestHash: requestHash,
			}
			payload, marshalErr := json.Marshal(record)
			if marshalErr != nil {
				if logg != nil {
					logg.Error(r.Context(), "marshal idempotency record", marshalErr)
				}
				return
			}
			if _, setErr := store.SetNX(r.Context(), key, string(payload), ttl); setErr != nil && logg != nil {
				logg.Error(r.Context(), "persist idempotency record", setErr)
			}
		})
	}
}

func writeStoredResponse(w http.ResponseWriter, record idempotencyRecord) {
	if record.ContentType != "" {
		w.Header().Set("Content-Type", record.ContentType)
	}
	w.WriteHeader(record.Status)
	if decoded, err := base64.StdEncoding.DecodeString(record.Body); err == nil {
		_, _ = w.Write(decoded)
	}
}

func hashBody(payload []byte) string {
	sum := sha256.Sum256(payload)
	return base64.StdEncoding.EncodeToString(sum[:])
}

type responseCapture struct {
	http.ResponseWriter
	body   bytes.Buffer
	status int
}

func (r *responseCapture) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *responseCapture) Write(b []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	r.body.Write(b)
	return r.ResponseWriter.Write(b)
}

func (r *responseCapture) statusOrOK() int {
	if r.status == 0 {
		return http.StatusOK
	}
	return r.status
}
