package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/alecthomas/kong"

	"github.com/timmy/trendmeme/internal/config"
	"github.com/timmy/trendmeme/internal/logger"
	"github.com/timmy/trendmeme/internal/memegen"
	"github.com/timmy/trendmeme/internal/template"
)

// CLI is the top-level Kong command struct.
type CLI struct {
	Config  string `help:"Path to config file" type:"path"`
	Refresh bool   `help:"Fetch from memegen even if a cached snapshot is fresh, then update Redis"`

	List    ListCmd    `cmd:"" default:"1" help:"Print every template id in the catalog"`
	Resolve ResolveCmd `cmd:"" help:"Resolve a template name, alias or \"random\" against the catalog"`
}

// ListCmd prints the catalog.
type ListCmd struct{}

// ResolveCmd resolves one or more template names.
type ResolveCmd struct {
	Names []string `arg:"" help:"Template names to resolve"`
}

type env struct {
	ctx     context.Context
	catalog *template.TemplateCatalog
	refresh bool
	out     io.Writer
}

type listOutput struct {
	Count     int        `json:"count"`
	FetchedAt *time.Time `json:"fetchedAt,omitempty"`
	Templates []string   `json:"templates"`
}

type resolution struct {
	Requested string `json:"requested"`
	Alias     string `json:"alias,omitempty"`
	Resolved  string `json:"resolved"`
}

type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}

// run parses args and executes the selected command, writing JSON to out.
func run(ctx context.Context, args []string, out io.Writer) (err error) {
	var cli CLI
	parser, err := kong.New(&cli,
		kong.Name("catalog"),
		kong.Description("Inspect the memegen template catalog"),
		kong.Writers(out, out),
		kong.Exit(func(code int) { panic(&exitError{code: code}) }),
	)
	if err != nil {
		return err
	}

	// --help exits through kong.Exit; turn that back into a return value.
	defer func() {
		if r := recover(); r != nil {
			exitErr, ok := r.(*exitError)
			if !ok {
				panic(r)
			}
			if exitErr.code != 0 {
				err = exitErr
			}
		}
	}()

	kctx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	cfg, err := config.Load(cli.Config)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	var opts []template.CatalogOption
	if cfg.Cache.RedisURL != "" {
		store, err := template.NewRedisStore(cfg.Cache.RedisURL, cfg.Cache.KeyPrefix)
		if err != nil {
			logger.FromContext(ctx).WithError(err).Warn("Redis unavailable, fetching from memegen")
		} else {
			defer store.Close()
			opts = append(opts, template.WithStore(store))
		}
	}

	client := memegen.NewClient(memegen.ClientOptions{
		BaseURL:   cfg.Memegen.BaseURL,
		Timeout:   cfg.Memegen.Timeout,
		UserAgent: "trendmeme-catalog",
	})

	return kctx.Run(&env{
		ctx:     ctx,
		catalog: template.NewTemplateCatalog(client, cfg.Memegen.CatalogTTL, opts...),
		refresh: cli.Refresh,
		out:     out,
	})
}

func (e *env) current() template.Catalog {
	if e.refresh {
		return e.catalog.Refresh(e.ctx)
	}
	return e.catalog.Get(e.ctx)
}

func (e *env) write(v interface{}) error {
	enc := json.NewEncoder(e.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// Run prints every template id.
func (c *ListCmd) Run(e *env) error {
	current := e.current()
	out := listOutput{Count: current.Len(), Templates: current.IDs()}
	if t := e.catalog.FetchedAt(); !t.IsZero() {
		out.FetchedAt = &t
	}
	return e.write(out)
}

// Run resolves each name against the catalog.
func (c *ResolveCmd) Run(e *env) error {
	current := e.current()
	resolver := template.NewResolver()

	results := make([]resolution, 0, len(c.Names))
	for _, name := range c.Names {
		results = append(results, resolution{
			Requested: name,
			Alias:     template.Alias(name),
			Resolved:  resolver.Resolve(name, current),
		})
	}
	return e.write(results)
}
