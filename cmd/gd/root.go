package main

import (
	"fmt"
	"log/slog"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/gogpu/gd"
)

// globals are the flags shared by every subcommand.
type globals struct {
	configPath string
	logLevel   string
}

func newRootCmd() *cobra.Command {
	g := &globals{}
	root := &cobra.Command{
		Use:          "gd",
		Short:        "Render graphics device pages to image and document formats",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&g.configPath, "config", "", "TOML config file (default "+defaultConfigPath+")")
	root.PersistentFlags().StringVar(&g.logLevel, "log-level", "", "log level: debug, info, warn or error")

	root.AddCommand(newRenderersCmd(), newRenderCmd(g))
	return root
}

// load reads the config file and applies the global flags.
func (g *globals) load(cmd *cobra.Command) (config, error) {
	cfg := defaultConfig()
	path, required := g.configPath, true
	if path == "" {
		path, required = defaultConfigPath, false
	}
	if err := loadConfig(path, required, &cfg); err != nil {
		return cfg, err
	}
	if cmd.Flags().Changed("log-level") {
		cfg.LogLevel = g.logLevel
	}

	level, err := parseLevel(cfg.LogLevel)
	if err != nil {
		return cfg, err
	}
	gd.SetLogger(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
		Level: level,
	})))
	return cfg, nil
}

func newRenderersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "renderers",
		Short: "List the available renderers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tMIME\tEXT\tTYPE\tTEXT\tDESCRIPTION")
			for _, info := range gd.NewRegistry().List() {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%t\t%s\n",
					info.ID, info.MIME, info.Ext, info.Type, info.Text, info.Description)
			}
			return tw.Flush()
		},
	}
}
