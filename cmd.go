package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/robalobadob/the100/internal/config"
	"github.com/robalobadob/the100/internal/topics"
)

// overrides are flags that win over environment configuration when set.
type overrides struct {
	port        int
	maxAttempts int
	revealDelay time.Duration
}

func (o *overrides) register(fs *pflag.FlagSet, withPort bool) {
	if withPort {
		fs.IntVarP(&o.port, "port", "p", 5175, "port to listen on (env: PORT)")
	}
	fs.IntVar(&o.maxAttempts, "max-attempts", 6, "guesses per round (env: MAX_ATTEMPTS)")
	fs.DurationVar(&o.revealDelay, "reveal-delay", 100*time.Millisecond, "delay between reveal steps (env: REVEAL_DELAY)")
}

func (o *overrides) apply(fs *pflag.FlagSet, cfg *config.Config) {
	if fs.Changed("port") {
		cfg.Port = o.port
	}
	if fs.Changed("max-attempts") {
		cfg.MaxAttempts = o.maxAttempts
	}
	if fs.Changed("reveal-delay") {
		cfg.RevealDelay = o.revealDelay
	}
}

// loadConfig reads the environment, applies flag overrides, validates and
// sets the global log level.
func loadConfig(cmd *cobra.Command, o *overrides) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	o.apply(cmd.Flags(), cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	zerolog.SetGlobalLevel(cfg.LogLevelValue())
	return cfg, nil
}

func normalizeFlags(_ *pflag.FlagSet, name string) pflag.NormalizedName {
	return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:     "the100",
		Short:   "Name as many items of a Top 100 list as you can.",
		Args:    cobra.NoArgs,
		Version: releaseVersion,
	}
	root.AddCommand(newServeCmd(), newPlayCmd(), newTopicsCmd())

	root.CompletionOptions.HiddenDefaultCmd = true
	root.SetHelpCommand(&cobra.Command{Hidden: true})
	root.SetVersionTemplate("the100 v{{.Version}}\n")
	root.SilenceErrors = true
	root.SilenceUsage = true
	return root
}

func newServeCmd() *cobra.Command {
	o := &overrides{}
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP game server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, o)
			if err != nil {
				return err
			}
			return runServe(cmd.Context(), cfg)
		},
	}
	cmd.Flags().SetNormalizeFunc(normalizeFlags)
	o.register(cmd.Flags(), true)
	return cmd
}

func newPlayCmd() *cobra.Command {
	o := &overrides{}
	var topic string
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play a round in the terminal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, o)
			if err != nil {
				return err
			}
			return runPlay(cmd.Context(), cfg, topic, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
	cmd.Flags().SetNormalizeFunc(normalizeFlags)
	cmd.Flags().StringVarP(&topic, "topic", "t", "", "topic slug (default: topic of the day)")
	o.register(cmd.Flags(), false)
	return cmd
}

func newTopicsCmd() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "topics",
		Short: "List the topic catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if file == "" {
				file = os.Getenv("TOPICS_FILE")
			}
			c, err := topics.LoadCatalog(file)
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "SLUG\tNAME\tSOURCE\tDAILY")
			for _, t := range c.Topics {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%v\n", t.Slug, t.Name, t.Source.Kind, t.Daily)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().SetNormalizeFunc(normalizeFlags)
	cmd.Flags().StringVarP(&file, "file", "f", "", "catalog file (env: TOPICS_FILE; default: bundled catalog)")
	return cmd
}
