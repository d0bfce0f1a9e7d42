package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/sokinpui/fileagg/internal/config"
	"github.com/sokinpui/fileagg/internal/version"
)

// Command names the operation a Config runs.
type Command string

const (
	CommandAggregate  Command = "aggregate"
	CommandDistribute Command = "distribute"
)

// Config holds the resolved options of one invocation.
type Config struct {
	Command Command
	// Path is the operation root. After resolution it is absolute.
	Path string
	// Extensions is the allow-list; empty means every file.
	Extensions []string

	// Erase lists root-relative paths to append as delete records (aggregate).
	Erase []string
	// Stdout writes the blob to stdout instead of the clipboard (aggregate).
	Stdout bool

	// Markdown unwraps fenced code blocks before parsing (distribute).
	Markdown bool
	// DryRun reports what would change without touching files (distribute).
	DryRun bool

	NoAnimation bool
	Verbose     bool
	// ConfigFile overrides the default config file location.
	ConfigFile string
}

// RunFunc executes a resolved Config.
type RunFunc func(cfg *Config) error

// NewRootCommand builds the fileagg command tree. Each operation command
// resolves its Config and hands it to run.
func NewRootCommand(run RunFunc) *cobra.Command {
	cfg := &Config{}

	root := &cobra.Command{
		Use:           "fileagg",
		Short:         "File aggregation and distribution utility",
		Long:          "fileagg packs files under a directory into one text blob on the clipboard, and unpacks such a blob back onto disk.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.BoolVarP(&cfg.Verbose, "verbose", "v", false, "Enable debug logging on stderr.")
	pf.BoolVar(&cfg.NoAnimation, "no-animation", false, "Disable the loading spinner.")
	pf.StringVar(&cfg.ConfigFile, "config", "", "Path to a config file (default: $XDG_CONFIG_HOME/fileagg/config.toml).")

	aggregate := &cobra.Command{
		Use:   "aggregate",
		Short: "Aggregate file contents into the clipboard",
		Long: "Aggregate encodes every matching file under the root into one blob and copies it to the clipboard (or stdout).\n" +
			"If no file matches and nothing is erased, the clipboard is left unchanged.",
		Example: "  fileagg aggregate -p ./src -e go,mod\n" +
			"  fileagg aggregate --stdout > blob.txt",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg.Command = CommandAggregate
			if err := Resolve(cfg, cmd.Flags()); err != nil {
				return err
			}
			return run(cfg)
		},
	}
	addCommonFlags(aggregate.Flags(), cfg)
	aggregate.Flags().BoolVar(&cfg.Stdout, "stdout", false, "Write the blob to stdout instead of the clipboard.")
	aggregate.Flags().StringSliceVar(&cfg.Erase, "erase", nil, "Comma-separated root-relative paths to append as delete records.")

	distribute := &cobra.Command{
		Use:   "distribute",
		Short: "Distribute file contents from the clipboard",
		Example: "  fileagg distribute -p ./src\n" +
			"  cat blob.txt | fileagg distribute --dry-run",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg.Command = CommandDistribute
			if err := Resolve(cfg, cmd.Flags()); err != nil {
				return err
			}
			return run(cfg)
		},
	}
	addCommonFlags(distribute.Flags(), cfg)
	distribute.Flags().BoolVar(&cfg.Markdown, "markdown", false, "Extract the blob from fenced code blocks first.")
	distribute.Flags().BoolVarP(&cfg.DryRun, "dry-run", "n", false, "Show what would change without touching any file.")

	root.AddCommand(aggregate, distribute, newVersionCommand())
	return root
}

func addCommonFlags(fs *pflag.FlagSet, cfg *Config) {
	fs.StringVarP(&cfg.Path, "path", "p", "", "The root directory for the operation (default: current directory).")
	fs.StringSliceVarP(&cfg.Extensions, "extensions", "e", nil, "Comma-separated list of file extensions to include. If not specified, all files are included.")
}

func newVersionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Display the version of fileagg",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			short, err := cmd.Flags().GetBool("short")
			if err != nil {
				return fmt.Errorf("error reading flags: %w", err)
			}

			v := version.Get()
			if short {
				fmt.Fprintln(cmd.OutOrStdout(), v.Version)
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), v.String())
			}
			return nil
		},
	}
	cmd.Flags().BoolP("short", "s", false, "Print the version number only")
	return cmd
}

// Resolve fills the options the user did not set on the command line from
// the config file and environment, then makes Path absolute. This is the
// only place the working directory is consulted.
func Resolve(cfg *Config, flags *pflag.FlagSet) error {
	settings, err := config.Load(cfg.ConfigFile)
	if err != nil {
		return err
	}

	// The configured allow-list picks files to aggregate. Distribute filters
	// records only when -e is given.
	if cfg.Command == CommandAggregate && !flags.Changed("extensions") {
		cfg.Extensions = settings.Extensions
	}
	if !flags.Changed("no-animation") {
		cfg.NoAnimation = settings.NoAnimation
	}
	if f := flags.Lookup("markdown"); f != nil && !f.Changed {
		cfg.Markdown = settings.Markdown
	}

	if cfg.Path == "" {
		cfg.Path = "."
	}
	abs, err := filepath.Abs(cfg.Path)
	if err != nil {
		return fmt.Errorf("failed to resolve path %q: %w", cfg.Path, err)
	}
	cfg.Path = abs
	return nil
}
