package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ironsheep/raster-tools-mcp/internal/codec"
	"github.com/ironsheep/raster-tools-mcp/internal/script"
	"github.com/ironsheep/raster-tools-mcp/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// Globals are the flags shared by every command.
type Globals struct {
	LogLevel string `help:"Log level (debug, info, warn, error)" enum:"debug,info,warn,error" default:"info" env:"RASTER_MCP_LOG_LEVEL"`
	Seed     int64  `help:"Seed for dither-rand and npr-paint; negative seeds from the clock" default:"-1" env:"RASTER_MCP_SEED"`
}

type CLI struct {
	Globals

	Serve   ServeCmd   `cmd:"" default:"1" help:"Serve the raster tools over MCP on stdin/stdout"`
	Run     RunCmd     `cmd:"" help:"Run a command script"`
	Apply   ApplyCmd   `cmd:"" help:"Apply commands to one image and save the result"`
	Ops     OpsCmd     `cmd:"" help:"List the script commands"`
	Version VersionCmd `cmd:"" help:"Print version information"`
}

type ServeCmd struct{}

func (c *ServeCmd) Run(g *Globals, logger *slog.Logger) error {
	logger.Debug("starting", "version", Version, "built", BuildTime, "commit", GitCommit)

	opts := []server.Option{server.WithLogger(logger), server.WithVersion(Version)}
	if g.Seed >= 0 {
		opts = append(opts, server.WithSeed(uint64(g.Seed)))
	}
	if err := server.New(opts...).Run(); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

type RunCmd struct {
	Script  string `arg:"" type:"existingfile" help:"Script file, one command per line"`
	BaseDir string `help:"Directory for relative paths in the script. Defaults to the script's folder"`
}

func (c *RunCmd) Validate() error {
	if c.BaseDir == "" {
		c.BaseDir = filepath.Dir(c.Script)
	}
	info, err := os.Stat(c.BaseDir)
	if err == nil && !info.IsDir() {
		err = fmt.Errorf("not a directory")
	}
	if err != nil {
		return fmt.Errorf("invalid base dir %q: %w", c.BaseDir, err)
	}
	return nil
}

func (c *RunCmd) Run(g *Globals, logger *slog.Logger) error {
	f, err := os.Open(c.Script)
	if err != nil {
		return fmt.Errorf("unable to open script: %w", err)
	}
	defer f.Close()

	sess := script.NewSession(sessionOptions(g, logger, script.WithBaseDir(c.BaseDir))...)
	results, err := sess.Run(f)
	for _, r := range results {
		printResult(r)
	}
	if err != nil {
		return fmt.Errorf("%s: %w", c.Script, err)
	}

	// compare lines that did not match fail the run, like a failing test
	for _, r := range results {
		if r.Match != nil && !*r.Match {
			return fmt.Errorf("%s: %s: %s", c.Script, r.Command, r.Message)
		}
	}
	return nil
}

type ApplyCmd struct {
	Input      string   `arg:"" type:"existingfile" help:"Image to read"`
	Output     string   `arg:"" help:"Path to write; the extension selects the format"`
	Operations []string `arg:"" optional:"" help:"Commands to apply in order, e.g. gray \"scale 0.5\""`
}

func (c *ApplyCmd) Validate() error {
	for _, p := range []string{c.Input, c.Output} {
		if _, err := codec.FormatFromPath(p); err != nil {
			return err
		}
	}
	return nil
}

func (c *ApplyCmd) Run(g *Globals, logger *slog.Logger) error {
	buf, err := codec.Load(c.Input)
	if err != nil {
		return err
	}

	sess := script.NewSession(sessionOptions(g, logger)...)
	sess.SetCurrent(buf)
	for _, line := range c.Operations {
		if _, err := sess.Exec(line); err != nil {
			return err
		}
	}

	if err := codec.Save(c.Output, sess.Current()); err != nil {
		return err
	}
	logger.Info("saved", "file", c.Output, "width", sess.Current().Width(), "height", sess.Current().Height())
	return nil
}

type OpsCmd struct{}

func (c *OpsCmd) Run() error {
	category := ""
	for _, op := range script.Operations() {
		if op.Category != category {
			category = op.Category
			fmt.Printf("\n%s:\n", category)
		}
		fmt.Printf("  %-22s %s\n", op.Usage(), op.Description)
	}
	return nil
}

type VersionCmd struct{}

func (c *VersionCmd) Run() error {
	fmt.Printf("raster-tools-mcp %s\n", Version)
	fmt.Printf("  Build time: %s\n", BuildTime)
	fmt.Printf("  Git commit: %s\n", GitCommit)
	return nil
}

func sessionOptions(g *Globals, logger *slog.Logger, extra ...script.Option) []script.Option {
	opts := append([]script.Option{script.WithLogger(logger)}, extra...)
	if g.Seed >= 0 {
		opts = append(opts, script.WithSeed(uint64(g.Seed)))
	}
	return opts
}

func printResult(r script.Result) {
	line := fmt.Sprintf("%-30s %dx%d", r.Command, r.Width, r.Height)
	if r.Message != "" {
		line += "  " + r.Message
	}
	fmt.Println(strings.TrimRight(line, " "))
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	// stdout is reserved for the MCP protocol
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}

func main() {
	var cli CLI
	kctx := kong.Parse(&cli,
		kong.Name("raster-mcp"),
		kong.Description("Raster image transforms: Targa, PNG, BMP, TIFF and .rgbz, as an MCP server or from the command line."),
		kong.UsageOnError(),
	)

	logger := newLogger(cli.LogLevel)
	slog.SetDefault(logger)

	if err := kctx.Run(&cli.Globals, logger); err != nil {
		logger.Error("failed", "command", kctx.Command(), "error", err)
		os.Exit(1)
	}
}
