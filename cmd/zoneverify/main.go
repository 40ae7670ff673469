package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"time"

	"github.com/faanross/zoneverify/internal/config"
	"github.com/faanross/zoneverify/internal/report"
	"github.com/faanross/zoneverify/internal/resolver"
	"github.com/faanross/zoneverify/internal/runner"
	"github.com/faanross/zoneverify/internal/zone"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "zoneverify",
		Usage: "compare the records in a zone file against a live authoritative DNS server",
		Description: "Reads a BIND zone file and queries every record against the given\n" +
			"nameserver, reporting which records the server answers differently.\n" +
			"Useful for verifying that a zone imported correctly when migrating\n" +
			"between DNS providers.",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "zone",
				Aliases: []string{"z"},
				Usage:   "name of the domain being checked (eg: example.com)",
			},
			&cli.StringFlag{
				Name:    "file",
				Aliases: []string{"f"},
				Usage:   "zone file to load records from",
			},
			&cli.StringFlag{
				Name:    "server",
				Aliases: []string{"s"},
				Usage:   "DNS server to compare the zone file against (must be an IP, not a hostname)",
			},
			&cli.IntFlag{
				Name:  "port",
				Usage: "port to query the DNS server on",
				Value: 53,
			},
			&cli.DurationFlag{
				Name:  "timeout",
				Usage: "per-query timeout",
				Value: 5 * time.Second,
			},
			&cli.BoolFlag{
				Name:  "tcp",
				Usage: "query over TCP instead of UDP",
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "print detailed results of each record checked",
			},
			&cli.BoolFlag{
				Name:    "soa",
				Aliases: []string{"a"},
				Usage:   "compare SOA records (default: skipped)",
			},
			&cli.BoolFlag{
				Name:    "ns",
				Aliases: []string{"n"},
				Usage:   "compare NS records (default: skipped)",
			},
			&cli.BoolFlag{
				Name:  "strict",
				Usage: "exit with a non-zero status if any record mis-matches",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "YAML file supplying defaults for any of the above",
			},
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	cfg, err := buildConfig(c)
	if err != nil {
		return err
	}

	z, err := zone.LoadFile(cfg.ZoneFile, cfg.Zone)
	if err != nil {
		return err
	}

	client := resolver.New(net.ParseIP(cfg.Nameserver), cfg.Port, cfg.Timeout, cfg.TCP)
	rep := report.NewConsole(os.Stdout, client.Addr(), cfg.Verbose)

	sum, err := runner.New(cfg, client, rep).Run(context.Background(), z)
	if err != nil {
		return err
	}

	if cfg.Strict && sum.Mismatches > 0 {
		return cli.Exit("", 1)
	}
	return nil
}

// buildConfig layers the three option sources: built-in defaults, then the
// optional YAML defaults file, then any flag set on the command line.
func buildConfig(c *cli.Context) (*config.Config, error) {
	cfg := config.Default()

	if path := c.String("config"); path != "" {
		loaded, err := config.LoadDefaults(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if c.IsSet("zone") {
		cfg.Zone = c.String("zone")
	}
	if c.IsSet("file") {
		cfg.ZoneFile = c.String("file")
	}
	if c.IsSet("server") {
		cfg.Nameserver = c.String("server")
	}
	if c.IsSet("port") {
		cfg.Port = c.Int("port")
	}
	if c.IsSet("timeout") {
		cfg.Timeout = c.Duration("timeout")
	}
	if c.IsSet("tcp") {
		cfg.TCP = c.Bool("tcp")
	}
	if c.IsSet("verbose") {
		cfg.Verbose = c.Bool("verbose")
	}
	if c.IsSet("soa") {
		cfg.CompareSOA = c.Bool("soa")
	}
	if c.IsSet("ns") {
		cfg.CompareNS = c.Bool("ns")
	}
	if c.IsSet("strict") {
		cfg.Strict = c.Bool("strict")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
