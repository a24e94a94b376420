// Copyright (c) 2025 The IdoContract developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/user"
	"path/filepath"
	"runtime"
	"time"

	"github.com/ethereum/go-ethereum/log"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/flamingo-finance/IdoContract/eventdb"
	"github.com/flamingo-finance/IdoContract/genesis"
	"github.com/flamingo-finance/IdoContract/lvldb"
	"github.com/flamingo-finance/IdoContract/metrics"
	idoruntime "github.com/flamingo-finance/IdoContract/runtime"
	"github.com/flamingo-finance/IdoContract/state"
)

func fatal(args ...any) {
	var w io.Writer
	if runtime.GOOS == "windows" {
		// The SameFile check below doesn't work on Windows.
		// stdout is unlikely to get redirected though, so just print there.
		w = os.Stdout
	} else {
		outf, _ := os.Stdout.Stat()
		errf, _ := os.Stderr.Stat()
		if outf != nil && errf != nil && os.SameFile(outf, errf) {
			w = os.Stderr
		} else {
			w = io.MultiWriter(os.Stdout, os.Stderr)
		}
	}
	fmt.Fprint(w, "Fatal: ")
	fmt.Fprintln(w, args...)
	os.Exit(1)
}

func initLogger(ctx *cli.Context) {
	level := log.FromLegacyLevel(ctx.Int(verbosityFlag.Name))
	handler := log.JSONHandlerWithLevel(os.Stderr, level)
	if !ctx.Bool(jsonLogsFlag.Name) {
		useColor := isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())
		handler = log.NewTerminalHandlerWithLevel(os.Stderr, level, useColor)
	}
	log.SetDefault(log.NewLogger(handler))
}

func homeDir() string {
	if home := os.Getenv("HOME"); home != "" {
		return home
	}
	if usr, err := user.Current(); err == nil {
		return usr.HomeDir
	}
	return ""
}

func defaultDataDir() string {
	if home := homeDir(); home != "" {
		return filepath.Join(home, ".idod")
	}
	return ""
}

func loadGenesis(ctx *cli.Context) *genesis.Genesis {
	path := ctx.String(configFlag.Name)
	if path == "" {
		if ctx.Bool(devFlag.Name) {
			return genesis.NewDevnet(0)
		}
		fatal(fmt.Sprintf("genesis required, use --%s to specify", configFlag.Name))
	}
	gene, err := genesis.Load(path)
	if err != nil {
		fatal(fmt.Sprintf("load genesis [%v]: %v", path, err))
	}
	return gene
}

func makeInstanceDir(ctx *cli.Context, gene *genesis.Genesis) string {
	dataDir := ctx.String(dataDirFlag.Name)
	if dataDir == "" {
		fatal(fmt.Sprintf("unable to infer default data dir, use --%s to specify", dataDirFlag.Name))
	}
	instanceDir := filepath.Join(dataDir, fmt.Sprintf("instance-%x", gene.ID().Bytes()[24:]))
	if err := os.MkdirAll(instanceDir, 0700); err != nil {
		fatal(fmt.Sprintf("create data dir [%v]: %v", instanceDir, err))
	}
	return instanceDir
}

func openStateDB(instanceDir string) *lvldb.LevelDB {
	if instanceDir == "" {
		db, err := lvldb.NewMem()
		if err != nil {
			fatal(fmt.Sprintf("open state database: %v", err))
		}
		return db
	}
	dir := filepath.Join(instanceDir, "state.db")
	db, err := lvldb.New(dir, lvldb.Options{CacheSize: 64, OpenFilesCacheCapacity: 64})
	if err != nil {
		fatal(fmt.Sprintf("open state database [%v]: %v", dir, err))
	}
	return db
}

func openEventDB(instanceDir string) *eventdb.EventDB {
	if instanceDir == "" {
		db, err := eventdb.NewMem()
		if err != nil {
			fatal(fmt.Sprintf("open event database: %v", err))
		}
		return db
	}
	path := filepath.Join(instanceDir, "events.db")
	db, err := eventdb.New(path)
	if err != nil {
		fatal(fmt.Sprintf("open event database [%v]: %v", path, err))
	}
	return db
}

// initState applies genesis once and journals its events.
func initState(gene *genesis.Genesis, stater *state.Stater, events *eventdb.EventDB) *genesis.Result {
	res, evs, err := gene.Build(stater)
	if err != nil {
		fatal(fmt.Sprintf("build genesis: %v", err))
	}
	if err := events.Insert(context.Background(), gene.ID(), 0, evs); err != nil {
		fatal(fmt.Sprintf("journal genesis events: %v", err))
	}
	return res
}

// newClock returns the height source and, when heights are advanced by hand, the manual clock.
func newClock(ctx *cli.Context, gene *genesis.Genesis) (idoruntime.Clock, *idoruntime.ManualClock) {
	if !ctx.Bool(devFlag.Name) {
		return idoruntime.NewIntervalClock(time.Unix(int64(gene.LaunchTime), 0), gene.Interval()), nil
	}
	if interval := ctx.Duration(blockIntervalFlag.Name); interval > 0 {
		return idoruntime.NewIntervalClock(time.Now(), interval), nil
	}
	clock := idoruntime.NewManualClock(1)
	return clock, clock
}

func startServer(addr string, handler http.Handler) (string, *http.Server, net.Listener, error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return "", nil, nil, errors.Wrapf(err, "listen [%v]", addr)
	}
	srv := &http.Server{Handler: handler, ReadHeaderTimeout: time.Second}
	return "http://" + listener.Addr().String() + "/", srv, listener, nil
}

func metricsHandler() http.Handler {
	router := mux.NewRouter()
	router.PathPrefix("/metrics").Handler(metrics.HTTPHandler())
	return handlers.CompressHandler(router)
}

func printStartupMessage(gene *genesis.Genesis, res *genesis.Result, instanceDir, apiURL, metricsURL string) {
	if instanceDir == "" {
		instanceDir = "Memory"
	}
	if metricsURL == "" {
		metricsURL = "Disabled"
	}
	fmt.Printf(`Starting %v
    Genesis ID  [ %v ]
    Launchpad   [ %v ]
    Admin       [ %v ]
    Instance dir[ %v ]
    API portal  [ %v ]
    Metrics     [ %v ]
`,
		fullVersion(),
		gene.ID(),
		res.Launchpad,
		gene.Admin,
		instanceDir,
		apiURL,
		metricsURL)

	for name, addr := range res.Assets {
		fmt.Printf("    Asset %-6v[ %v ]\n", name, addr)
	}
	for name, addr := range res.Pairs {
		fmt.Printf("    Pair %v [ %v ]\n", name, addr)
	}
}

func printDevAccounts() {
	fmt.Println("Dev accounts (0 administrates the launchpad, 1 owns the sample pair):")
	for i, acc := range genesis.DevAccounts() {
		fmt.Printf("    %d  %v  %x\n", i, acc.Address, acc.PrivateKey.D.Bytes())
	}
}
