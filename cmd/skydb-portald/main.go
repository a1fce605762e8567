// Command skydb-portald runs the in-memory portal over real HTTP, for
// local development and integration testing without a live portal.
// Everything it stores is lost on exit.
package main

import (
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"

	"github.com/rs/zerolog"

	"github.com/skynetkit/skydb/portal/testkit"
)

func main() {
	fs := flag.NewFlagSet("skydb-portald", flag.ExitOnError)
	listen := fs.String("listen", "127.0.0.1:9980", "listen address")
	looseRevisions := fs.Bool("loose-revisions", false, "Accept registry writes with stale revisions")
	verbose := fs.Bool("v", false, "Log every request")

	_ = fs.Parse(os.Args[1:])

	p := testkit.New()
	p.EnforceRevision = !*looseRevisions

	var handler http.Handler = p.Handler()
	if *verbose {
		log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
		inner := handler
		handler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			log.Info().Str("method", r.Method).Str("path", r.URL.Path).Msg("request")
			inner.ServeHTTP(w, r)
		})
	}

	lis, err := net.Listen("tcp", *listen)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer lis.Close()

	fmt.Fprintf(os.Stderr, "skydb-portald listening on %s\n", lis.Addr().String())
	if err := http.Serve(lis, handler); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
