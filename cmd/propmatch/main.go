// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"github.com/poiesic/propmatch"
	"github.com/poiesic/propmatch/config"
	"github.com/poiesic/propmatch/core"
	"github.com/poiesic/propmatch/registration"
	"github.com/poiesic/propmatch/reindex"
)

func main() {
	if err := newApp(os.Stdout, os.Stderr).Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// runner carries the loaded configuration from Before into the actions.
type runner struct {
	cfg *config.Config
}

func newApp(stdout, stderr io.Writer) *cli.App {
	r := &runner{}
	return &cli.App{
		Name:      "propmatch",
		Usage:     "Register rental properties and match them against natural-language queries",
		Writer:    stdout,
		ErrWriter: stderr,

		// listing text routinely contains commas
		DisableSliceFlagSeparator: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to the YAML configuration file",
				Value:   "propmatch.yaml",
				EnvVars: []string{"PROPMATCH_CONFIG"},
			},
			&cli.StringSliceFlag{
				Name:  "env",
				Usage: "Load environment variables from these .env files",
				Value: cli.NewStringSlice(".env"),
			},
			&cli.StringFlag{
				Name:    "db",
				Aliases: []string{"d"},
				Usage:   "Path to the property store",
			},
			&cli.StringFlag{
				Name:  "store",
				Usage: "Store kind (badger, sqlite)",
			},
			&cli.BoolFlag{
				Name:  "in-memory",
				Usage: "Use a throwaway in-memory store",
			},
			&cli.StringFlag{
				Name:  "backend",
				Usage: "AI backend (openai, gemini, mock)",
			},
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
			},
		},
		Before:   r.setup,
		Commands: []*cli.Command{
			{
				Name:   "register",
				Usage:  "Extract, merge and store one property from its sources",
				Action: r.register,
				Flags: []cli.Flag{
					&cli.StringSliceFlag{
						Name:    "text",
						Aliases: []string{"t"},
						Usage:   "Listing text; repeat for several text sources",
					},
					&cli.StringSliceFlag{
						Name:  "text-file",
						Usage: "File holding listing text",
					},
					&cli.StringSliceFlag{
						Name:    "image",
						Aliases: []string{"i"},
						Usage:   "Photo of the property; all images form one source",
					},
					&cli.StringSliceFlag{
						Name:    "video",
						Aliases: []string{"v"},
						Usage:   "Walkthrough video; all videos form one source",
					},
					&cli.StringFlag{
						Name:  "id",
						Usage: "Replace the property with this ID instead of adding a new one",
					},
				},
			},
			{
				Name:      "search",
				Usage:     "Find the properties that best match a query",
				ArgsUsage: "QUERY",
				Action:    r.search,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:    "results",
						Aliases: []string{"n"},
						Usage:   "Number of results (defaults to the configured value)",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Print the outcome as JSON",
					},
				},
			},
			{
				Name:      "show",
				Usage:     "Print a stored property",
				ArgsUsage: "ID",
				Action:    r.show,
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Print the profile as JSON",
					},
				},
			},
			{
				Name:   "list",
				Usage:  "List stored properties",
				Action: r.list,
			},
			{
				Name:      "delete",
				Usage:     "Remove a stored property",
				ArgsUsage: "ID",
				Action:    r.delete,
			},
			{
				Name:   "reindex",
				Usage:  "Re-embed every stored property with the configured embedder",
				Action: r.reindex,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of properties embedded per request",
						Value: reindex.DefaultBatchSize,
					},
					&cli.IntFlag{
						Name:  "report-interval",
						Usage: "Report progress every N properties",
						Value: 100,
					},
				},
			},
			{
				Name:   "history",
				Usage:  "Show recent searches",
				Action: r.history,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:    "limit",
						Aliases: []string{"n"},
						Usage:   "Number of searches to show",
						Value:   10,
					},
				},
			},
			{
				Name:  "config",
				Usage: "Inspect or create the configuration file",
				Subcommands: []*cli.Command{
					{
						Name:   "show",
						Usage:  "Print the effective configuration",
						Action: r.showConfig,
					},
					{
						Name:   "init",
						Usage:  "Write the default configuration to the --config path",
						Action: r.initConfig,
						Flags: []cli.Flag{
							&cli.BoolFlag{
								Name:  "force",
								Usage: "Overwrite an existing file",
							},
						},
					},
				},
			},
		},
	}
}

// setup loads .env files and the configuration, applies flag overrides and
// installs the logger.
func (r *runner) setup(c *cli.Context) error {
	if err := config.LoadEnv(c.StringSlice("env")...); err != nil {
		return err
	}
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if c.IsSet("db") {
		cfg.Store.Path = c.String("db")
	}
	if c.IsSet("store") {
		cfg.Store.Kind = strings.ToLower(c.String("store"))
	}
	if c.IsSet("in-memory") {
		cfg.Store.InMemory = c.Bool("in-memory")
	}
	if c.IsSet("backend") {
		cfg.AI.Backend = strings.ToLower(c.String("backend"))
	}
	if c.IsSet("log-level") {
		cfg.LogLevel = strings.ToLower(c.String("log-level"))
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	level, err := config.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(c.App.ErrWriter, &slog.HandlerOptions{
		Level: level,
	})))

	r.cfg = cfg
	return nil
}

func (r *runner) withCatalog(c *cli.Context, fn func(context.Context, *propmatch.Catalog) error) error {
	ctx := c.Context
	if ctx == nil {
		ctx = context.Background()
	}
	catalog, err := propmatch.Open(ctx, r.cfg)
	if err != nil {
		return fmt.Errorf("failed to open catalog: %w", err)
	}
	defer catalog.Close()
	return fn(ctx, catalog)
}

func (r *runner) register(c *cli.Context) error {
	var sources []registration.SourceInput
	for _, text := range c.StringSlice("text") {
		sources = append(sources, registration.SourceInput{Kind: core.SourceKindText, Text: text})
	}
	for _, path := range c.StringSlice("text-file") {
		sources = append(sources, registration.SourceInput{Kind: core.SourceKindText, Paths: []string{path}})
	}
	if paths := c.StringSlice("image"); len(paths) > 0 {
		sources = append(sources, registration.SourceInput{Kind: core.SourceKindImage, Paths: paths})
	}
	if paths := c.StringSlice("video"); len(paths) > 0 {
		sources = append(sources, registration.SourceInput{Kind: core.SourceKindVideo, Paths: paths})
	}
	if len(sources) == 0 {
		return fmt.Errorf("%w: pass --text, --text-file, --image or --video", registration.ErrNoSources)
	}

	return r.withCatalog(c, func(ctx context.Context, catalog *propmatch.Catalog) error {
		registrar, err := catalog.NewRegistrar()
		if err != nil {
			return err
		}
		defer registrar.Release()

		profile, err := registrar.Register(ctx, registration.Registration{
			ID:      core.PropertyID(c.String("id")),
			Sources: sources,
		})
		if err != nil {
			return fmt.Errorf("registration failed: %w", err)
		}
		fmt.Fprintf(c.App.Writer, "Registered %s: %s (%d of %d sources merged)\n",
			profile.ID, title(profile), profile.SourceCount, len(sources))
		return nil
	})
}

func (r *runner) search(c *cli.Context) error {
	text := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if text == "" {
		return errors.New("a query is required")
	}
	n := c.Int("results")
	if n <= 0 {
		n = r.cfg.Search.Results
	}

	return r.withCatalog(c, func(ctx context.Context, catalog *propmatch.Catalog) error {
		searcher, err := catalog.NewSearcher()
		if err != nil {
			return err
		}
		outcome, err := searcher.Search(ctx, text, n)
		if err != nil {
			return fmt.Errorf("search failed: %w", err)
		}
		if c.Bool("json") {
			return writeJSON(c.App.Writer, outcome)
		}
		printOutcome(c.App.Writer, outcome)
		return nil
	})
}

func (r *runner) show(c *cli.Context) error {
	id, err := idArg(c)
	if err != nil {
		return err
	}
	return r.withCatalog(c, func(ctx context.Context, catalog *propmatch.Catalog) error {
		profile, err := catalog.Properties().GetProperty(ctx, id)
		if err != nil {
			return fmt.Errorf("property %s: %w", id, err)
		}
		if c.Bool("json") {
			return writeJSON(c.App.Writer, profile)
		}
		printProfile(c.App.Writer, profile)
		return nil
	})
}

func (r *runner) list(c *cli.Context) error {
	return r.withCatalog(c, func(ctx context.Context, catalog *propmatch.Catalog) error {
		profiles, err := catalog.Properties().ListProperties(ctx)
		if err != nil {
			return err
		}
		printList(c.App.Writer, profiles)
		return nil
	})
}

func (r *runner) delete(c *cli.Context) error {
	id, err := idArg(c)
	if err != nil {
		return err
	}
	return r.withCatalog(c, func(ctx context.Context, catalog *propmatch.Catalog) error {
		if err := catalog.Properties().DeleteProperty(ctx, id); err != nil {
			return fmt.Errorf("property %s: %w", id, err)
		}
		fmt.Fprintf(c.App.Writer, "Deleted %s\n", id)
		return nil
	})
}

func (r *runner) reindex(c *cli.Context) error {
	if c.Int("batch-size") <= 0 {
		return fmt.Errorf("batch-size must be greater than 0")
	}
	if c.Int("report-interval") <= 0 {
		return fmt.Errorf("report-interval must be greater than 0")
	}

	return r.withCatalog(c, func(ctx context.Context, catalog *propmatch.Catalog) error {
		reindexer, err := catalog.NewReindexer(
			reindex.WithBatchSize(c.Int("batch-size")),
			reindex.WithProgress(c.App.ErrWriter, c.Int("report-interval")),
		)
		if err != nil {
			return err
		}

		fmt.Fprintf(c.App.ErrWriter, "Store: %s (%s)\n", r.cfg.Store.Path, r.cfg.Store.Kind)
		fmt.Fprintf(c.App.ErrWriter, "Embedding model: %s\n", r.cfg.AIConfig().EmbeddingModel)
		n, err := reindexer.Run(ctx)
		if err != nil {
			return fmt.Errorf("reindexing failed after %d properties: %w", n, err)
		}
		fmt.Fprintf(c.App.Writer, "Reindexed %d properties\n", n)
		return nil
	})
}

func (r *runner) history(c *cli.Context) error {
	return r.withCatalog(c, func(ctx context.Context, catalog *propmatch.Catalog) error {
		entries, err := catalog.History().RecentSearches(ctx, c.Int("limit"))
		if err != nil {
			return err
		}
		printHistory(c.App.Writer, entries)
		return nil
	})
}

func (r *runner) showConfig(c *cli.Context) error {
	shown := *r.cfg
	if shown.AI.APIKey != "" {
		shown.AI.APIKey = "********"
	}
	data, err := yaml.Marshal(&shown)
	if err != nil {
		return err
	}
	_, err = c.App.Writer.Write(data)
	return err
}

func (r *runner) initConfig(c *cli.Context) error {
	path := c.String("config")
	if _, err := os.Stat(path); err == nil && !c.Bool("force") {
		return fmt.Errorf("%s already exists; pass --force to overwrite", path)
	}
	if err := config.Save(path, config.Default()); err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "Wrote %s\n", path)
	return nil
}

func idArg(c *cli.Context) (core.PropertyID, error) {
	id := strings.TrimSpace(c.Args().First())
	if id == "" {
		return "", errors.New("a property ID is required")
	}
	return core.PropertyID(id), nil
}
