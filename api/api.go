// Copyright (c) 2025 The IdoContract developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/log"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/flamingo-finance/IdoContract/api/assets"
	"github.com/flamingo-finance/IdoContract/api/events"
	"github.com/flamingo-finance/IdoContract/api/invocations"
	"github.com/flamingo-finance/IdoContract/api/launchpad"
	"github.com/flamingo-finance/IdoContract/api/middleware"
	"github.com/flamingo-finance/IdoContract/api/node"
	"github.com/flamingo-finance/IdoContract/api/subscriptions"
	"github.com/flamingo-finance/IdoContract/builtin"
	"github.com/flamingo-finance/IdoContract/eventdb"
	"github.com/flamingo-finance/IdoContract/ido"
	"github.com/flamingo-finance/IdoContract/runtime"
)

var logger = log.New("pkg", "api")

type Options struct {
	AllowedOrigins string
	EventsLimit    uint64
	EnableMetrics  bool
	// requests slower than this are logged, zero disables request logging
	SlowRequest time.Duration
	DevMode     bool
	// drives heights in dev mode, nil otherwise
	DevClock  *runtime.ManualClock
	GenesisID ido.Bytes32
}

// New return api router
func New(rt *runtime.Runtime, eventDB *eventdb.EventDB, opts Options) (http.HandlerFunc, func()) {
	origins := strings.Split(strings.TrimSpace(opts.AllowedOrigins), ",")
	for i, o := range origins {
		origins[i] = strings.ToLower(strings.TrimSpace(o))
	}
	if opts.EventsLimit == 0 {
		opts.EventsLimit = 1000
	}

	router := mux.NewRouter()

	invocations.New(rt, opts.DevMode).
		Mount(router, "/invocations")
	launchpad.New(rt, builtin.Launchpad, 100).
		Mount(router, "/launchpad")
	assets.New(rt).
		Mount(router, "/assets")
	events.New(eventDB, opts.EventsLimit).
		Mount(router, "/events")
	node.New(rt, opts.GenesisID, opts.DevClock).
		Mount(router, "/node")
	subs := subscriptions.New(rt, origins)
	subs.Mount(router, "/subscriptions")

	if opts.EnableMetrics {
		router.Use(metricsMiddleware)
	}

	compressed := handlers.CompressHandler(router)
	// hijacked websocket connections must bypass compression
	var handler http.Handler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/subscriptions") {
			router.ServeHTTP(w, r)
			return
		}
		compressed.ServeHTTP(w, r)
	})
	handler = handlers.CORS(
		handlers.AllowedOrigins(origins),
		handlers.AllowedHeaders([]string{"content-type", "x-genesis-id"}),
		handlers.ExposedHeaders([]string{"x-genesis-id"}),
	)(handler)

	if opts.SlowRequest > 0 {
		handler = middleware.RequestLogger(logger, opts.SlowRequest)(handler)
	}

	genesisID := opts.GenesisID.String()
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("x-genesis-id", genesisID)
		handler.ServeHTTP(w, r)
	}, subs.Close
}
