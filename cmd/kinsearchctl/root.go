package main

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	kinsearch "github.com/kailas-cloud/kinsearch/pkg/sdk"
)

var validOutputFormats = []string{"text", "json"}

// storeFlags select the record store. Exactly one of sqlite, redis or valkey
// must be set.
type storeFlags struct {
	sqlite   string
	redis    string
	valkey   string
	password string
	prefix   string
	output   string
}

func newRootCmd() *cobra.Command {
	var sf storeFlags

	root := &cobra.Command{
		Use:          "kinsearchctl",
		Short:        "Seed and search kinsearch records",
		SilenceUsage: true,
		Run: func(cmd *cobra.Command, _ []string) {
			_ = cmd.Help()
		},
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			if !slices.Contains(validOutputFormats, sf.output) {
				return fmt.Errorf("invalid output format: %s (valid: %v)", sf.output, validOutputFormats)
			}
			return nil
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&sf.sqlite, "sqlite", "", "SQLite database path")
	pf.StringVar(&sf.redis, "redis", "", "Redis address (host:port)")
	pf.StringVar(&sf.valkey, "valkey", "", "Valkey address (host:port)")
	pf.StringVar(&sf.password, "password", "", "Redis/Valkey password")
	pf.StringVar(&sf.prefix, "prefix", "", "Redis/Valkey key prefix (default \"kinsearch:\")")
	pf.StringVarP(&sf.output, "output", "o", "text", "output format: text or json")

	root.AddCommand(newSeedCmd(&sf), newSearchCmd(&sf))
	return root
}

// options translates store flags into SDK options.
func (sf *storeFlags) options() ([]kinsearch.Option, error) {
	var opts []kinsearch.Option
	set := 0
	if sf.sqlite != "" {
		opts = append(opts, kinsearch.WithSQLite(sf.sqlite))
		set++
	}
	if sf.redis != "" {
		opts = append(opts, kinsearch.WithRedis(sf.redis, sf.password))
		set++
	}
	if sf.valkey != "" {
		opts = append(opts, kinsearch.WithValkey(sf.valkey, sf.password))
		set++
	}
	switch {
	case set == 0:
		return nil, errors.New("no record store: set one of --sqlite, --redis or --valkey")
	case set > 1:
		return nil, errors.New("--sqlite, --redis and --valkey are mutually exclusive")
	}
	if sf.prefix != "" {
		opts = append(opts, kinsearch.WithKeyPrefix(sf.prefix))
	}
	return opts, nil
}

func (sf *storeFlags) open(ctx context.Context, extra ...kinsearch.Option) (*kinsearch.Client, error) {
	opts, err := sf.options()
	if err != nil {
		return nil, err
	}
	client, err := kinsearch.New(ctx, append(opts, extra...)...)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	return client, nil
}
