// Command cep is a terminal version of the lookup form. Each line read from
// stdin (or each argument) is submitted as a CEP and the form is re-rendered
// on every state change.
//
// Usage:
//
//	go run ./cmd/cep 01310-930
//	echo 01310930 | go run ./cmd/cep
//	go run ./cmd/cep -base-url http://localhost:8081/ws -timeout 3s
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/couchcryptid/cep-lookup/internal/adapter/viacep"
	"github.com/couchcryptid/cep-lookup/internal/domain"
	"github.com/couchcryptid/cep-lookup/internal/form"
	"github.com/couchcryptid/cep-lookup/internal/observability"
	"github.com/couchcryptid/cep-lookup/internal/render"
)

func main() {
	baseURL := flag.String("base-url", viacep.DefaultBaseURL, "ViaCEP base URL")
	timeout := flag.Duration("timeout", 0, "lookup timeout (0 means none)")
	verbose := flag.Bool("v", false, "log lookups to stderr")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logOut := io.Discard
	if *verbose {
		logOut = os.Stderr
	}
	logger := slog.New(slog.NewTextHandler(logOut, nil))
	metrics := observability.NewMetrics()
	client := viacep.NewClient(*baseURL, *timeout, metrics, logger)

	if err := run(ctx, os.Stdin, os.Stdout, flag.Args(), client, metrics, logger); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run submits each argument, or each stdin line when there are no arguments,
// rendering every state transition to out.
func run(ctx context.Context, in io.Reader, out io.Writer, args []string, lookup domain.AddressLookup, metrics *observability.Metrics, logger *slog.Logger) error {
	var renderErr error
	f := form.New(lookup, logger, metrics, form.WithObserver(func(s form.State) {
		if err := render.Text(out, s); err != nil && renderErr == nil {
			renderErr = err
		}
	}))

	if len(args) > 0 {
		for _, a := range args {
			f.Submit(ctx, a)
		}
		return renderErr
	}

	fmt.Fprint(out, "Digite o CEP: ")
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		if ctx.Err() != nil {
			break
		}
		// Submit records the input itself. Only submits are rendered, so a
		// new line never redraws the previous result.
		f.Submit(ctx, scanner.Text())
		fmt.Fprint(out, "Digite o CEP: ")
	}
	fmt.Fprintln(out)
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read input: %w", err)
	}
	return renderErr
}
