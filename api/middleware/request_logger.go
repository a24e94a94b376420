// Copyright (c) 2024 The VeChainThor developers
// Copyright (c) 2025 The IdoContract developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package middleware

import (
	"bytes"
	"io"
	"net/http"
	"time"

	"github.com/ethereum/go-ethereum/log"
)

// maxLoggedBody bounds the request body kept for the log line.
const maxLoggedBody = 4096

// RequestLogger logs every request taking longer than slowThreshold.
// A zero threshold logs all requests.
func RequestLogger(logger log.Logger, slowThreshold time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var body []byte
			if r.Body != nil && r.Method == http.MethodPost {
				data, err := io.ReadAll(r.Body)
				if err != nil {
					logger.Warn("unexpected body read error", "err", err)
					http.Error(w, "unreadable body", http.StatusBadRequest)
					return
				}
				r.Body = io.NopCloser(bytes.NewReader(data))
				body = data
				if len(body) > maxLoggedBody {
					body = body[:maxLoggedBody]
				}
			}

			start := time.Now()
			next.ServeHTTP(w, r)

			duration := time.Since(start)
			if duration >= slowThreshold {
				logger.Info("API request",
					"durationMs", duration.Milliseconds(),
					"uri", r.URL.String(),
					"method", r.Method,
					"body", string(body),
				)
			}
		})
	}
}
