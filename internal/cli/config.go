package cli

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/matzehuels/plotdown/pkg/errors"
)

// configCommand creates the config inspection command.
func (c *CLI) configCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			c.printConfigSummary()
			return nil
		},
	}

	cmd.AddCommand(c.configShowCommand())
	cmd.AddCommand(c.configPathCommand())

	return cmd
}

// configShowCommand creates the "config show" subcommand.
func (c *CLI) configShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration as TOML",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := toml.NewEncoder(os.Stdout).Encode(c.Config); err != nil {
				return errors.Wrap(errors.ErrCodeInternal, err, "encode config")
			}
			return nil
		},
	}
}

// configPathCommand creates the "config path" subcommand.
func (c *CLI) configPathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the config file in use, or where one would be read from",
		RunE: func(cmd *cobra.Command, args []string) error {
			if c.configPath != "" {
				fmt.Println(c.configPath)
				return nil
			}
			dir, err := configDir()
			if err != nil {
				return errors.Wrap(errors.ErrCodeInternal, err, "get config dir")
			}
			printInfo("No config file found; using defaults")
			printDetail("Looked for: %s", strings.Join(localConfigNames, ", "))
			printDetail("User config: %s", dir)
			printNextStep("Start from the defaults", "plotdown config show > plotdown.toml")
			return nil
		},
	}
}

func (c *CLI) printConfigSummary() {
	source := c.configPath
	if source == "" {
		source = "defaults"
	}
	cfg := c.Config
	printKeyValue("source", source)
	printKeyValue("log level", cfg.Log.Level)
	printKeyValue("standalone", strconv.FormatBool(cfg.Render.Standalone))
	if cfg.Render.Title != "" {
		printKeyValue("title", cfg.Render.Title)
	}
	if cfg.Render.Stylesheet != "" {
		printKeyValue("stylesheet", cfg.Render.Stylesheet)
	}
	printKeyValue("mathjax", strconv.FormatBool(cfg.Render.MathJax))
	if cfg.Cache.Enabled {
		printKeyValue("memo", fmt.Sprintf("%d entries", cfg.Cache.MaxEntries))
	} else {
		printKeyValue("memo", "disabled")
	}
	printKeyValue("export", fmt.Sprintf("%s @%gx", strings.Join(cfg.Export.Formats, ","), cfg.Export.Scale))
	printNewline()
	printNextStep("Print as TOML", appName+" config show")
}
