package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dshills/imagetoolkit/internal/app"
	"github.com/dshills/imagetoolkit/internal/panel/memsurface"
	"github.com/dshills/imagetoolkit/internal/settings/loader"
)

// cli carries the options resolved from defaults, environment and flags.
type cli struct {
	lookupEnv func(string) (string, bool)
	opts      app.Options
}

func newRootCmd(lookupEnv func(string) (string, bool)) *cobra.Command {
	c := &cli{lookupEnv: lookupEnv, opts: app.DefaultOptions()}

	root := &cobra.Command{
		Use:           "imagetoolkit",
		Short:         "Inspect and edit image toolkit settings",
		Long:          "Reads, edits and persists the settings of the image toolkit plugin.\nEnvironment: IMAGETOOLKIT_DATA, IMAGETOOLKIT_LOCALE, IMAGETOOLKIT_LOG_LEVEL, IMAGETOOLKIT_LOG_FORMAT, IMAGETOOLKIT_WATCH.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return c.resolve(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.String("data", c.opts.DataPath, "settings file (.json or .toml)")
	flags.String("locale", c.opts.Locale, "display language, e.g. en, zh-CN, zh-TW")
	flags.String("log-level", c.opts.LogLevel, "log level (debug, info, warn, error)")
	flags.String("log-format", c.opts.LogFormat, "log format (console, json)")

	root.AddCommand(
		c.showCmd(),
		c.setCmd(),
		c.resetCmd(),
		c.exportCmd(),
		c.importCmd(),
		c.panelCmd(),
		c.luaCmd(),
		versionCmd(),
	)
	return root
}

// resolve layers flags explicitly set on the command line over the
// environment over the defaults.
func (c *cli) resolve(cmd *cobra.Command) error {
	if err := c.opts.ApplyEnv(c.lookupEnv); err != nil {
		return err
	}

	flags := cmd.Flags()
	for name, dst := range map[string]*string{
		"data":       &c.opts.DataPath,
		"locale":     &c.opts.Locale,
		"log-level":  &c.opts.LogLevel,
		"log-format": &c.opts.LogFormat,
	} {
		if flags.Changed(name) {
			v, err := flags.GetString(name)
			if err != nil {
				return err
			}
			*dst = v
		}
	}
	return c.opts.Validate()
}

// withApp starts an App, runs fn and shuts down, flushing pending saves.
func (c *cli) withApp(cmd *cobra.Command, fn func(ctx context.Context, a *app.App) error, opts ...app.Option) (err error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	base := []app.Option{app.WithLogger(app.NewLogger(c.opts, cmd.ErrOrStderr()))}
	a, err := app.New(c.opts, append(base, opts...)...)
	if err != nil {
		return err
	}
	if err := a.Start(ctx); err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.opts.WriteTimeout)
		defer cancel()
		err = errors.Join(err, a.Shutdown(shutdownCtx))
	}()
	return fn(ctx, a)
}

func (c *cli) showCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the settings panel",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.withApp(cmd, func(_ context.Context, a *app.App) error {
				s := memsurface.New()
				tab := a.NewTab()
				tab.Display(s)
				defer tab.Dispose()
				return printPanel(cmd.OutOrStdout(), s.Snapshot())
			})
		},
	}
}

func (c *cli) setCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <field> <value>",
		Short: "Change one setting",
		Example: "  imagetoolkit set imageMoveSpeed 25\n" +
			"  imagetoolkit set imgFullScreenMode fill\n" +
			"  imagetoolkit set viewImageInCPB false",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			value, err := app.ParseValue(args[0], args[1])
			if err != nil {
				return err
			}
			return c.withApp(cmd, func(_ context.Context, a *app.App) error {
				if err := a.Set(args[0], value); err != nil {
					return err
				}
				v, _ := a.Plugin().Settings().Value(args[0])
				fmt.Fprintf(cmd.OutOrStdout(), "%s = %v\n", args[0], v)
				return nil
			})
		},
	}
}

func (c *cli) resetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Restore every default",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.withApp(cmd, func(_ context.Context, a *app.App) error {
				return a.Reset()
			})
		},
	}
}

func (c *cli) exportCmd() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Print the complete settings record",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := parseFormat(format)
			if err != nil {
				return err
			}
			return c.withApp(cmd, func(_ context.Context, a *app.App) error {
				data, err := a.Export(f)
				if err != nil {
					return err
				}
				_, err = cmd.OutOrStdout().Write(data)
				return err
			})
		},
	}
	cmd.Flags().StringVar(&format, "format", "json", "output format (json, toml)")
	return cmd
}

func (c *cli) importCmd() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "import [file | -]",
		Short: "Replace the settings with an exported record",
		Long:  "Reads a record as written by export. Missing fields take their defaults; an invalid field rejects the import.\nThe format follows the file extension unless --format is given; stdin defaults to json.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f := loader.FormatOf(args[0])
			if cmd.Flags().Changed("format") || args[0] == "-" {
				var err error
				if f, err = parseFormat(format); err != nil {
					return err
				}
			}

			in := cmd.InOrStdin()
			if args[0] != "-" {
				file, err := os.Open(args[0])
				if err != nil {
					return fmt.Errorf("opening import: %w", err)
				}
				defer file.Close()
				in = file
			}
			return c.withApp(cmd, func(_ context.Context, a *app.App) error {
				return a.Import(in, f)
			})
		},
	}
	cmd.Flags().StringVar(&format, "format", "json", "input format (json, toml)")
	return cmd
}

func parseFormat(name string) (loader.Format, error) {
	switch strings.ToLower(name) {
	case "json":
		return loader.FormatJSON, nil
	case "toml":
		return loader.FormatTOML, nil
	}
	return 0, fmt.Errorf("unsupported format %q", name)
}

func (c *cli) luaCmd() *cobra.Command {
	var eval string
	cmd := &cobra.Command{
		Use:   "lua [script.lua | -]",
		Short: "Run a Lua script against the settings",
		Example: "  imagetoolkit lua -e 'toolkit.settings.set(\"imageMoveSpeed\", 20)'\n" +
			"  imagetoolkit lua tune.lua",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			script, err := readScript(cmd.InOrStdin(), eval, args)
			if err != nil {
				return err
			}
			return c.withApp(cmd, func(ctx context.Context, a *app.App) error {
				return a.RunScript(ctx, script, cmd.OutOrStdout())
			})
		},
	}
	cmd.Flags().StringVarP(&eval, "eval", "e", "", "script text to run")
	return cmd
}

func readScript(stdin io.Reader, eval string, args []string) (string, error) {
	switch {
	case eval != "" && len(args) > 0:
		return "", errors.New("use either --eval or a script file, not both")
	case eval != "":
		return eval, nil
	case len(args) == 0:
		return "", errors.New("no script given")
	case args[0] == "-":
		data, err := io.ReadAll(stdin)
		return string(data), err
	default:
		data, err := os.ReadFile(args[0])
		if err != nil {
			return "", fmt.Errorf("reading script: %w", err)
		}
		return string(data), nil
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		// Skip option resolution.
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		Run: func(cmd *cobra.Command, _ []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "imagetoolkit %s\n", version)
			fmt.Fprintf(out, "Commit: %s\n", commit)
			fmt.Fprintf(out, "Built: %s\n", date)
		},
	}
}

// printPanel writes a plain text rendering of the panel controls.
func printPanel(w io.Writer, controls []memsurface.Control) error {
	var b strings.Builder
	for _, c := range controls {
		switch c.Kind {
		case memsurface.KindHeading:
			fmt.Fprintf(&b, "%s\n\n", c.Name)
		case memsurface.KindToggle:
			mark := " "
			if c.On {
				mark = "x"
			}
			fmt.Fprintf(&b, "[%s] %s\n", mark, c.Name)
		case memsurface.KindSlider:
			fmt.Fprintf(&b, "    %s (%d-%d):%s\n", c.Name, c.Min, c.Max, c.Readout)
		case memsurface.KindDropdown:
			labels := make([]string, len(c.Options))
			for i, o := range c.Options {
				labels[i] = o.Label
				if o.Key == c.Selected {
					labels[i] = "<" + o.Label + ">"
				}
			}
			fmt.Fprintf(&b, "    %s: %s\n", c.Name, strings.Join(labels, " "))
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}
