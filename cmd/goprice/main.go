package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	"github.com/hyperifyio/goprice/internal/app"
	"github.com/hyperifyio/goprice/internal/report"
)

// errNotFound is returned by find when no link could be shown. It maps to
// exit code 2.
var errNotFound = errors.New("no price found")

func main() {
	// Logging setup
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newCLI(os.Stdin, os.Stdout).RunContext(ctx, os.Args); err != nil {
		// Exit code policy: 2 when the lookup completed without a link,
		// 1 for configuration and usage errors.
		if errors.Is(err, errNotFound) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

// session carries the resolved configuration from Before into the commands.
type session struct {
	cfg app.Config
}

func newCLI(in io.Reader, out io.Writer) *cli.App {
	s := &session{}
	return &cli.App{
		Name:      "goprice",
		Usage:     "find the lowest advertised price of a product in online stores",
		Version:   app.VersionString(),
		Reader:    in,
		Writer:    out,
		ErrWriter: os.Stderr,
		Flags:     globalFlags(),
		Before: func(c *cli.Context) error {
			if err := app.LoadEnvFiles(c.StringSlice("env-file")...); err != nil {
				return fmt.Errorf("load env files: %w", err)
			}
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}
			if cfg.Verbose {
				zerolog.SetGlobalLevel(zerolog.DebugLevel)
			} else {
				zerolog.SetGlobalLevel(zerolog.InfoLevel)
			}
			s.cfg = cfg
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:      "find",
				Usage:     "look up one product and print the lowest-priced link",
				ArgsUsage: "<product>",
				Action:    s.find,
			},
			{
				Name:    "interactive",
				Aliases: []string{"i"},
				Usage:   "prompt for products until 'quit' or end of input",
				Action:  s.interactive,
			},
		},
		ExitErrHandler: func(c *cli.Context, err error) {
			if err == nil || errors.Is(err, errNotFound) {
				return
			}
			log.Error().Err(err).Msg("goprice failed")
		},
	}
}

func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "config", Aliases: []string{"c"}, EnvVars: []string{"GOPRICE_CONFIG"}, TakesFile: true, Usage: "Path to a YAML or JSON config file"},
		&cli.StringSliceFlag{Name: "env-file", Value: cli.NewStringSlice(".env"), Usage: "Dotenv files to load; later files override earlier ones"},
		&cli.BoolFlag{Name: "verbose", Usage: "Verbose logging (or VERBOSE=1|true|yes|on)"},
		&cli.StringFlag{Name: "llm.api", EnvVars: []string{"LLM_API"}, Usage: "Text-generation wire format: inference or openai"},
		&cli.StringFlag{Name: "llm.base", EnvVars: []string{"LLM_BASE_URL"}, Usage: "Text-generation base URL"},
		&cli.StringFlag{Name: "llm.model", EnvVars: []string{"LLM_MODEL"}, Usage: "Model name"},
		&cli.IntFlag{Name: "llm.maxTokens", EnvVars: []string{"LLM_MAX_TOKENS"}, Usage: "Token limit for the generated query"},
		&cli.Float64Flag{Name: "llm.temperature", EnvVars: []string{"LLM_TEMPERATURE"}, Usage: "Sampling temperature; 0 is greedy"},
		&cli.Float64Flag{Name: "llm.topP", EnvVars: []string{"LLM_TOP_P"}, Usage: "Nucleus sampling probability mass"},
		&cli.StringFlag{Name: "search.url", EnvVars: []string{"SEARCH_URL"}, Usage: "Search API base URL"},
		&cli.StringFlag{Name: "search.country", EnvVars: []string{"SEARCH_COUNTRY"}, Usage: "Two-letter country code for results"},
		&cli.StringFlag{Name: "search.lang", EnvVars: []string{"SEARCH_LANGUAGE"}, Usage: "Language code for results"},
		&cli.StringFlag{Name: "search.file", EnvVars: []string{"SEARCH_FILE"}, TakesFile: true, Usage: "Read search results from a JSON file instead of the API"},
		&cli.DurationFlag{Name: "http.timeout", EnvVars: []string{"HTTP_TIMEOUT"}, Usage: "Timeout for each outbound request"},
		&cli.StringFlag{Name: "pdf", EnvVars: []string{"OUTPUT_PDF"}, TakesFile: true, Usage: "Write a PDF receipt to this path"},
		&cli.StringFlag{Name: "reports.dir", EnvVars: []string{"REPORTS_DIR"}, Usage: "Write one PDF receipt per product into this directory"},
		&cli.BoolFlag{Name: "candidates", Usage: "List every priced title below the result"},
		&cli.BoolFlag{Name: "markdown", Usage: "Print Markdown instead of styled text"},
		&cli.BoolFlag{Name: "ascii", Usage: "Use plain ASCII status markers"},
	}
}

// loadConfig resolves configuration with precedence flags > env > file >
// defaults, then validates it.
func loadConfig(c *cli.Context) (app.Config, error) {
	var cfg app.Config
	setStr := func(dst *string, name string) {
		if c.IsSet(name) {
			*dst = strings.TrimSpace(c.String(name))
		}
	}
	setStr(&cfg.LLMAPI, "llm.api")
	setStr(&cfg.LLMBaseURL, "llm.base")
	setStr(&cfg.LLMModel, "llm.model")
	setStr(&cfg.SearchURL, "search.url")
	setStr(&cfg.Country, "search.country")
	setStr(&cfg.Language, "search.lang")
	setStr(&cfg.SearchFile, "search.file")
	setStr(&cfg.PDFPath, "pdf")
	setStr(&cfg.ReportsDir, "reports.dir")
	if c.IsSet("llm.maxTokens") {
		cfg.LLMMaxTokens = c.Int("llm.maxTokens")
	}
	if c.IsSet("llm.temperature") {
		v := c.Float64("llm.temperature")
		cfg.LLMTemperature = &v
	}
	if c.IsSet("llm.topP") {
		v := c.Float64("llm.topP")
		cfg.LLMTopP = &v
	}
	if c.IsSet("http.timeout") {
		cfg.HTTPTimeout = c.Duration("http.timeout")
	}
	cfg.Verbose = c.Bool("verbose")

	app.ApplyEnvToConfig(&cfg)
	if path := strings.TrimSpace(c.String("config")); path != "" {
		fc, err := app.LoadConfigFile(path)
		if err != nil {
			return cfg, fmt.Errorf("load config file: %w", err)
		}
		app.ApplyFileConfig(&cfg, fc)
	}
	app.ApplyDefaults(&cfg)
	if err := app.ValidateConfig(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (s *session) find(c *cli.Context) error {
	product := strings.Join(c.Args().Slice(), " ")
	a, err := app.New(s.cfg)
	if err != nil {
		return fmt.Errorf("init app: %w", err)
	}
	defer a.Close()

	o := lookup(c.Context, a, product, c.App.Writer, renderOptions(c))
	if !o.Found() {
		return errNotFound
	}
	return nil
}

func (s *session) interactive(c *cli.Context) error {
	a, err := app.New(s.cfg)
	if err != nil {
		return fmt.Errorf("init app: %w", err)
	}
	defer a.Close()

	w := c.App.Writer
	opts := renderOptions(c)
	sc := bufio.NewScanner(c.App.Reader)
	for {
		fmt.Fprint(w, "Product (or 'quit'): ")
		if !sc.Scan() {
			fmt.Fprintln(w)
			return sc.Err()
		}
		line := strings.TrimSpace(sc.Text())
		switch strings.ToLower(line) {
		case "quit", "exit":
			return nil
		}
		if err := c.Context.Err(); err != nil {
			return nil
		}
		lookup(c.Context, a, line, w, opts)
		fmt.Fprintln(w)
	}
}

type renderOpts struct {
	markdown bool
	term     report.Options
}

func renderOptions(c *cli.Context) renderOpts {
	return renderOpts{
		markdown: c.Bool("markdown"),
		term:     report.Options{Candidates: c.Bool("candidates"), ASCII: c.Bool("ascii")},
	}
}

// lookup runs one search, renders it to w and writes the optional receipt.
// Rendering and receipt failures are logged, not returned.
func lookup(ctx context.Context, a *app.App, product string, w io.Writer, opts renderOpts) app.Outcome {
	o := a.FindLowestPrice(ctx, product)
	log.Debug().Object("outcome", o).Msg("lookup complete")

	cfg := a.Config()
	if opts.markdown {
		if _, err := io.WriteString(w, report.AppendRunFooter(report.Markdown(o), o, cfg)); err != nil {
			log.Warn().Err(err).Msg("write markdown")
		}
	} else if err := report.Terminal(w, o, opts.term); err != nil {
		log.Warn().Err(err).Msg("write result")
	}

	if o.Status == app.StatusInvalidInput {
		return o
	}
	path := strings.TrimSpace(cfg.PDFPath)
	if path == "" && strings.TrimSpace(cfg.ReportsDir) != "" {
		path = report.ReceiptPath(cfg.ReportsDir, o.Product)
	}
	if path != "" {
		if err := report.WriteReceipt(o, cfg, path, time.Now()); err != nil {
			log.Warn().Err(err).Str("path", path).Msg("write receipt")
		} else {
			log.Info().Str("path", path).Msg("receipt written")
		}
	}
	return o
}
