package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gofrs/uuid"
	"github.com/segmentio/kafka-go"
	log "github.com/sirupsen/logrus"

	"moderation/pkg/logger"
)

type ctxKeyRequestID struct{}

var RequestIDKey = ctxKeyRequestID{}

// GetRequestID returns the request ID stored in ctx, or an empty
// string when none is set.
func GetRequestID(ctx context.Context) string {
	if id, ok := ctx.Value(RequestIDKey).(string); ok {
		return id
	}
	return ""
}

// requestIDMiddleware propagates the X-Request-Id header into the
// request context, generating a fresh ID when the caller (or gateway)
// didn't supply one.
func (api *API) requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := r.Header.Get("X-Request-Id")
		if reqID == "" {
			id, err := uuid.NewV4()
			if err != nil {
				log.Errorf("[requestIDMiddleware] failed to generate request ID: %v", err)
				http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				return
			}
			reqID = id.String()
			log.Debugf("[requestIDMiddleware] missing X-Request-Id header from %v, generated %s", r.RemoteAddr, shorten(reqID))
		}

		ctx := context.WithValue(r.Context(), RequestIDKey, reqID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (api *API) headerMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		next.ServeHTTP(w, r)
	})
}

func (api *API) loggingMiddleware(kWriter *kafka.Writer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			lw := logger.New(w)
			defer func() {
				go func() {
					entry := LogEntry{
						Timestamp:  time.Now(),
						IP:         getClientIP(r),
						StatusCode: lw.Status(),
						RequestID:  GetRequestID(r.Context()),
						Method:     r.Method,
						Path:       r.URL.Path,
						Duration:   time.Since(start).Seconds(),
						Service:    api.ServiceName,
					}

					jsonEntry, err := json.Marshal(entry)
					if err != nil {
						log.Errorf("[loggingMiddleware] failed to marshal log entry for request %s", entry.RequestID)
						return
					}
					ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
					defer cancel()
					err = kWriter.WriteMessages(ctx, kafka.Message{Value: jsonEntry})
					if err != nil {
						log.Errorf("[loggingMiddleware] failed to write log to Kafka: %v", err)
						return
					}
					log.Debugf("[loggingMiddleware] log entry sent to Kafka request_id:%s", entry.RequestID)
				}()
			}()

			next.ServeHTTP(lw, r)
		})
	}
}

func getClientIP(r *http.Request) string {
	ip := r.Header.Get("X-Forwarded-For")
	if ip == "" {
		ip = r.RemoteAddr
	}

	return ip
}
