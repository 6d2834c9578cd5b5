package cli

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/plotdown/pkg/buildinfo"
	"github.com/matzehuels/plotdown/pkg/cache"
	"github.com/matzehuels/plotdown/pkg/config"
	"github.com/matzehuels/plotdown/pkg/dispatch"
	"github.com/matzehuels/plotdown/pkg/document"
	"github.com/matzehuels/plotdown/pkg/document/markdown"
	"github.com/matzehuels/plotdown/pkg/errors"
	"github.com/matzehuels/plotdown/pkg/render/plot"
	"github.com/matzehuels/plotdown/pkg/render/plot/engine"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "plotdown"

	// stdinPath selects standard input as the source document.
	stdinPath = "-"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// localConfigNames are looked up in the working directory, in order.
var localConfigNames = []string{"plotdown.toml", "plotdown.yaml", "plotdown.yml"}

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	Config config.Config

	configPath string
	verbose    bool
}

// New creates a new CLI instance with a default logger and configuration.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// SetVerbose forces debug logging regardless of the configured level.
func (c *CLI) SetVerbose(v bool) {
	c.verbose = v
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "plotdown renders Markdown with embedded plots to HTML",
		Long:         `plotdown renders Markdown documents to HTML. Fenced blocks tagged plot-function become function plots, blocks tagged plot-force become force diagrams, and everything else renders as ordinary text.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.loadConfig()
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVarP(&c.configPath, "config", "c", "", "config file (.toml, .yaml, .yml)")

	root.AddCommand(c.renderCommand())
	root.AddCommand(c.exportCommand())
	root.AddCommand(c.blocksCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig reads the config file, if any, and applies its log level.
func (c *CLI) loadConfig() error {
	path := c.configPath
	if path == "" {
		path = discoverConfig()
	}
	if path != "" {
		cfg, err := config.Load(path)
		if err != nil {
			return err
		}
		c.Config = cfg
		c.configPath = path
		c.Logger.Debug("loaded config", "path", path)
	}

	level, err := log.ParseLevel(c.Config.Log.Level)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "log level")
	}
	if c.verbose {
		level = log.DebugLevel
	}
	c.SetLogLevel(level)
	return nil
}

// =============================================================================
// Renderer Factory
// =============================================================================

// newDispatcher creates a block dispatcher backed by the gonum plotting engine.
func (c *CLI) newDispatcher() *dispatch.Dispatcher {
	return dispatch.New(plot.NewAdapter(engine.New(), c.Logger), c.Logger)
}

// newRenderer creates a document renderer for CLI use.
func (c *CLI) newRenderer() *document.Renderer {
	return document.NewRenderer(markdown.New(), c.newDispatcher(), c.Config.NewCache(), memoKeyer(), c.Logger)
}

// memoKeyer is the keyer shared by rendering and export, so that a diagram
// gets the same surface id in both.
func memoKeyer() cache.Keyer {
	return cache.NewDefaultKeyer()
}

// =============================================================================
// Paths
// =============================================================================

// configDir returns the user config directory using XDG standard (~/.config/plotdown/).
func configDir() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName), nil
}

// discoverConfig returns the first existing config file: a plotdown.* file in
// the working directory, then config.* in the user config directory.
func discoverConfig() string {
	candidates := append([]string{}, localConfigNames...)
	if dir, err := configDir(); err == nil {
		for _, name := range []string{"config.toml", "config.yaml", "config.yml"} {
			candidates = append(candidates, filepath.Join(dir, name))
		}
	}
	for _, path := range candidates {
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}
	return ""
}

// readSource reads a document from path, or from stdin when path is "-".
func readSource(path string, stdin io.Reader) ([]byte, error) {
	if path == stdinPath {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read stdin")
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "read %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read %s", path)
	}
	return data, nil
}

// openOutput opens path for writing, or stdout when path is empty.
func openOutput(path string) (io.WriteCloser, error) {
	if path == "" {
		return nopCloser{os.Stdout}, nil
	}
	return os.Create(path)
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }
