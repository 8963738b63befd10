/*
 * SPDX-FileCopyrightText: © Hypermode Inc. <hello@hypermode.com>
 * SPDX-License-Identifier: Apache-2.0
 */

// Package graphql is a http server for the phonebook's GraphQL API
//
// GraphQL spec:
// https://graphql.github.io/graphql-spec/June2018
//
// GraphQL servers should serve both GET and POST
// https://graphql.org/learn/serving-over-http/
//
// GET should be like
// http://myapi/graphql?query={personCount}
//
// POST should have a json content body like
//
//	{
//	  "query": "...",
//	  "operationName": "...",
//	  "variables": { "myVariable": "someValue", ... }
//	}
//
// GraphQL servers should return 200 (even on errors),
// and result body should be json:
//
//	{
//	  "data": { "query_name" : { ... } },
//	  "errors": [ { "message" : ..., ...} ... ]
//	}
package graphql

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dgraph-io/ristretto/v2/z"
	"github.com/golang/glog"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.opencensus.io/trace"

	"github.com/hypermodeinc/phonebook/graphql/phonebook"
	"github.com/hypermodeinc/phonebook/graphql/web"
	"github.com/hypermodeinc/phonebook/people"
	"github.com/hypermodeinc/phonebook/x"
)

const (
	// DirectoryDefaults are the defaults of the --directory superflag.
	DirectoryDefaults = `url=` + people.DefaultDirectoryURL + `; timeout=0s;`
	// AuditDefaults are the defaults of the --audit superflag.
	AuditDefaults = `output=;`
	// TraceDefaults are the defaults of the --trace superflag.
	TraceDefaults = `ratio=0.01;`

	shutdownTimeout = 5 * time.Second
)

// GraphQL is the sub-command invoked when running "phonebook graphql".
var GraphQL x.SubCommand

func init() {
	GraphQL.Cmd = &cobra.Command{
		Use:   "graphql",
		Short: "Run the phonebook GraphQL API",
		Long: `
Run the phonebook GraphQL API.  Queries and mutations are served at /graphql,
liveness at /health and metrics at /debug/prometheus_metrics.`,
		Run: func(cmd *cobra.Command, args []string) {
			if err := run(); err != nil {
				if glog.V(2) {
					fmt.Printf("Error : %+v\n", err)
				} else {
					fmt.Printf("Error : %s\n", err)
				}
				os.Exit(1)
			}
		},
		Annotations: map[string]string{"group": "core"},
	}
	GraphQL.EnvPrefix = "PHONEBOOK_GRAPHQL"
	GraphQL.Cmd.SetHelpTemplate(x.NonRootTemplate)

	flags := GraphQL.Cmd.Flags()
	flags.IntP("port", "p", 4000, "Port on which to run the HTTP service")
	flags.Bool("introspection", true, "Set to false for no GraphQL schema introspection")
	flags.String("seed", "",
		"YAML or JSON file with the people the phonebook starts with. "+
			"When empty, a built in list of three people is used.")

	flags.String("directory", DirectoryDefaults, z.NewSuperFlagHelp(DirectoryDefaults).
		Head("People directory options").
		Flag("url",
			"The URL allPeople reads the people directory from.").
		Flag("timeout",
			"How long to wait for the people directory. 0 waits as long as the client "+
				"request does.").
		String())

	flags.String("audit", AuditDefaults, z.NewSuperFlagHelp(AuditDefaults).
		Head("Audit options").
		Flag("output",
			`[stdout, stderr, /path/to/file] Where mutation audit logs are written. `+
				`Empty turns auditing off.`).
		String())

	flags.String("trace", TraceDefaults, z.NewSuperFlagHelp(TraceDefaults).
		Head("Trace options").
		Flag("ratio",
			"The ratio of requests to trace.").
		String())
}

// server is everything run starts, built from conf.
type server struct {
	http   *http.Server
	audit  *x.Logger
	store  *people.Store
	tracer trace.Sampler
}

func newServer(conf *viper.Viper) (*server, error) {
	directory := z.NewSuperFlag(conf.GetString("directory")).MergeAndCheckDefault(
		DirectoryDefaults)
	audit := z.NewSuperFlag(conf.GetString("audit")).MergeAndCheckDefault(AuditDefaults)
	tr := z.NewSuperFlag(conf.GetString("trace")).MergeAndCheckDefault(TraceDefaults)

	seed, err := people.LoadSeed(conf.GetString("seed"))
	if err != nil {
		return nil, err
	}
	store, err := people.NewStore(seed)
	if err != nil {
		return nil, errors.Wrap(err, "while seeding the phonebook")
	}

	logger, err := x.InitLogger(audit.GetString("output"))
	if err != nil {
		return nil, err
	}

	dir := people.NewDirectory(directory.GetString("url"), &http.Client{},
		directory.GetDuration("timeout"))
	resolver, err := phonebook.NewRequestResolver(store, dir, phonebook.Options{
		Introspection: conf.GetBool("introspection"),
		Audit:         logger,
	})
	if err != nil {
		return nil, errors.Wrap(err, "while building the GraphQL schema")
	}

	metrics, err := x.RegisterMetrics("phonebook")
	if err != nil {
		return nil, err
	}

	laddr := "localhost"
	if conf.GetBool("bindall") {
		laddr = "0.0.0.0"
	}

	glog.Infof("People directory at %s, %d people in the phonebook", dir.URL(), store.Count())
	return &server{
		http: &http.Server{
			Addr:              fmt.Sprintf("%s:%d", laddr, conf.GetInt("port")),
			Handler:           web.NewServeMux(web.NewServer(resolver), metrics),
			ReadHeaderTimeout: 10 * time.Second,
		},
		audit:  logger,
		store:  store,
		tracer: trace.ProbabilitySampler(tr.GetFloat64("ratio")),
	}, nil
}

func run() error {
	x.PrintVersion()

	s, err := newServer(GraphQL.Conf)
	if err != nil {
		return err
	}
	defer s.audit.Sync()

	trace.ApplyConfig(trace.Config{DefaultSampler: s.tracer})
	phonebook.RecordStoreSize(context.Background(), s.store)

	sdCh := make(chan os.Signal, 1)
	signal.Notify(sdCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sdCh
		glog.Infof("Shutting down...")
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := s.http.Shutdown(ctx); err != nil {
			glog.Errorf("Error while shutting down the HTTP server: %v", err)
		}
	}()

	glog.Infof("Bringing up GraphQL HTTP API at %s/graphql", s.http.Addr)
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return errors.Wrap(err, "GraphQL server failed")
	}
	glog.Infof("Server shutdown. Bye!")
	return nil
}
