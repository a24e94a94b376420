// Copyright (c) 2025 The IdoContract developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"time"

	cli "gopkg.in/urfave/cli.v1"
)

var (
	configFlag = cli.StringFlag{
		Name:  "config",
		Usage: "path to the genesis YAML file",
	}
	dataDirFlag = cli.StringFlag{
		Name:  "data-dir",
		Value: defaultDataDir(),
		Usage: "directory for state and event databases",
	}
	cacheFlag = cli.IntFlag{
		Name:  "cache",
		Value: 65536,
		Usage: "number of storage slots kept in the state cache",
	}
	apiAddrFlag = cli.StringFlag{
		Name:  "api-addr",
		Value: "localhost:8680",
		Usage: "API service listening address",
	}
	apiCorsFlag = cli.StringFlag{
		Name:  "api-cors",
		Value: "",
		Usage: "comma separated list of domains from which to accept cross origin requests to API",
	}
	apiEventsLimitFlag = cli.Uint64Flag{
		Name:  "api-events-limit",
		Value: 1000,
		Usage: "limit the number of events returned by /events API",
	}
	apiSlowRequestFlag = cli.DurationFlag{
		Name:  "api-slow-request",
		Value: 0,
		Usage: "log API requests slower than this, 0 disables request logging",
	}
	enableMetricsFlag = cli.BoolFlag{
		Name:  "enable-metrics",
		Usage: "enables metrics collection",
	}
	metricsAddrFlag = cli.StringFlag{
		Name:  "metrics-addr",
		Value: "localhost:2112",
		Usage: "metrics service listening address",
	}
	verbosityFlag = cli.IntFlag{
		Name:  "verbosity",
		Value: 3,
		Usage: "log verbosity (0-9)",
	}
	jsonLogsFlag = cli.BoolFlag{
		Name:  "json-logs",
		Usage: "output logs in JSON format",
	}

	// dev mode flags
	devFlag = cli.BoolFlag{
		Name:  "dev",
		Usage: "run with dev accounts, plain signers and a manually advanced clock",
	}
	blockIntervalFlag = cli.DurationFlag{
		Name:  "block-interval",
		Value: 0,
		Usage: "advance the dev clock on this interval instead of through /node/advance",
	}
	persistFlag = cli.BoolFlag{
		Name:  "persist",
		Usage: "save dev mode state to disk",
	}
)

const shutdownTimeout = 5 * time.Second
