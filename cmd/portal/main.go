// Command portal is the command line client of the scolarité API. It keeps
// the login token in a session file between invocations.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ensab/scolarite/internal/pkg/logger"
	"github.com/ensab/scolarite/internal/portal"
)

const defaultAPI = "http://localhost:8080"

type options struct {
	api         string
	sessionPath string
	outDir      string
	verbose     bool
}

func defaultSessionPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	return filepath.Join(dir, "scolarite", "session.yaml")
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, portal.UserMessage(err, err.Error()))
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:           "portal",
		Short:         "Client du service de scolarité",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(*cobra.Command, []string) {
			level := logger.WarnLevel
			if opts.verbose {
				level = logger.DebugLevel
			}
			logger.Configure(logger.Config{Level: level, Format: "text", Output: os.Stderr})
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.api, "api", envOr("SCOLARITE_API", defaultAPI), "base URL of the API")
	flags.StringVar(&opts.sessionPath, "session", envOr("SCOLARITE_SESSION", defaultSessionPath()), "session file")
	flags.StringVarP(&opts.outDir, "out", "o", ".", "directory receiving downloaded documents")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "debug logging")

	root.AddCommand(
		loginCommand(opts),
		logoutCommand(opts),
		listCommand(opts),
		statsCommand(opts),
		transitionCommand(opts),
		treatCommand(opts),
		pdfCommand(opts),
		receiptCommand(opts),
		qrCommand(opts),
		newCommand(opts),
	)
	return root
}

// client loads the session and builds an API client around it.
func (o *options) client() (*portal.Client, error) {
	s, err := portal.LoadSession(o.sessionPath)
	if err != nil {
		return nil, err
	}
	return portal.NewClient(o.api, s), nil
}
