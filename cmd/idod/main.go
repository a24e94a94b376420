// Copyright (c) 2025 The IdoContract developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/ethereum/go-ethereum/log"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/flamingo-finance/IdoContract/api"
	"github.com/flamingo-finance/IdoContract/metrics"
	idoruntime "github.com/flamingo-finance/IdoContract/runtime"
	"github.com/flamingo-finance/IdoContract/state"
)

var (
	version   string
	gitCommit string
	gitTag    string
	logger    = log.New("pkg", "idod")
)

func fullVersion() string {
	versionMeta := "release"
	if gitTag == "" {
		versionMeta = "dev"
	}
	return fmt.Sprintf("idod %s-%s-%s", version, gitCommit, versionMeta)
}

func main() {
	app := cli.App{
		Version:   fullVersion(),
		Name:      "idod",
		Usage:     "IDO launchpad allocation engine",
		Copyright: "2025 The IdoContract developers",
		Flags: []cli.Flag{
			configFlag,
			dataDirFlag,
			cacheFlag,
			apiAddrFlag,
			apiCorsFlag,
			apiEventsLimitFlag,
			apiSlowRequestFlag,
			enableMetricsFlag,
			metricsAddrFlag,
			verbosityFlag,
			jsonLogsFlag,
			devFlag,
			blockIntervalFlag,
			persistFlag,
		},
		Action: defaultAction,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func defaultAction(ctx *cli.Context) error {
	defer func() { logger.Info("exited") }()

	initLogger(ctx)
	if ctx.Bool(enableMetricsFlag.Name) {
		metrics.InitializePrometheusMetrics()
	}

	gene := loadGenesis(ctx)
	dev := ctx.Bool(devFlag.Name)

	var instanceDir string
	if !dev || ctx.Bool(persistFlag.Name) {
		instanceDir = makeInstanceDir(ctx, gene)
	}

	stateDB := openStateDB(instanceDir)
	defer func() { logger.Info("closing state database..."); stateDB.Close() }()

	eventDB := openEventDB(instanceDir)
	defer func() { logger.Info("closing event database..."); eventDB.Close() }()

	stater := state.NewStater(stateDB, ctx.Int(cacheFlag.Name))
	res := initState(gene, stater, eventDB)

	clock, devClock := newClock(ctx, gene)
	rt := idoruntime.New(stater, eventDB, clock)
	defer rt.Close()

	handler, closeSubs := api.New(rt, eventDB, api.Options{
		AllowedOrigins: ctx.String(apiCorsFlag.Name),
		EventsLimit:    ctx.Uint64(apiEventsLimitFlag.Name),
		EnableMetrics:  ctx.Bool(enableMetricsFlag.Name),
		SlowRequest:    ctx.Duration(apiSlowRequestFlag.Name),
		DevMode:        dev,
		DevClock:       devClock,
		GenesisID:      gene.ID(),
	})
	defer func() { logger.Info("closing subscriptions..."); closeSubs() }()

	apiURL, apiSrv, apiListener, err := startServer(ctx.String(apiAddrFlag.Name), handler)
	if err != nil {
		return errors.WithMessage(err, "API server")
	}
	servers := map[*http.Server]func() error{
		apiSrv: func() error { return apiSrv.Serve(apiListener) },
	}

	var metricsURL string
	if ctx.Bool(enableMetricsFlag.Name) {
		url, srv, listener, err := startServer(ctx.String(metricsAddrFlag.Name), metricsHandler())
		if err != nil {
			apiListener.Close()
			return errors.WithMessage(err, "metrics server")
		}
		metricsURL = url + "metrics"
		servers[srv] = func() error { return srv.Serve(listener) }
	}

	printStartupMessage(gene, res, instanceDir, apiURL, metricsURL)
	if dev {
		printDevAccounts()
	}

	exitCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(exitCtx)
	for srv, serve := range servers {
		g.Go(func() error {
			if err := serve(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})
	}
	return g.Wait()
}
