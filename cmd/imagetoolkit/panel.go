package main

import (
	"bytes"
	"context"
	"errors"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/dshills/imagetoolkit/internal/app"
	"github.com/dshills/imagetoolkit/internal/panel/termsurface"
	"github.com/dshills/imagetoolkit/internal/plugin"
	"github.com/dshills/imagetoolkit/internal/settings/notify"
)

func (c *cli) panelCmd() *cobra.Command {
	var (
		watch  bool
		accent string
	)
	cmd := &cobra.Command{
		Use:   "panel",
		Short: "Edit the settings interactively",
		Long:  "Opens the settings panel in the terminal. Edits are saved as they are made.\nKeys: up/down or j/k move, left/right or h/l change, space toggles, q quits.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !term.IsTerminal(int(os.Stdout.Fd())) {
				return errors.New("panel needs an interactive terminal; use show or set instead")
			}
			if _, fromEnv := c.lookupEnv(app.EnvWatch); cmd.Flags().Changed("watch") || !fromEnv {
				c.opts.Watch = watch
			}

			surface, err := termsurface.NewTerminal(termsurface.WithAccent(accent))
			if err != nil {
				return err
			}

			// Logs are held until the terminal is restored.
			var logs bytes.Buffer
			defer func() {
				surface.Close()
				_, _ = logs.WriteTo(cmd.ErrOrStderr())
			}()

			dispatch := func(fn func()) {
				// A full event queue drops the reload; the next file event retries.
				_ = surface.Dispatch(fn)
			}
			return c.withApp(cmd, func(ctx context.Context, a *app.App) error {
				tab := a.NewTab()
				defer tab.Dispose()
				tab.Display(surface)

				sub := a.Plugin().Notifier().Subscribe(func(ch notify.Change) {
					if ch.Type == notify.ChangeReload {
						tab.Display(surface)
					}
				})
				defer sub.Unsubscribe()

				return surface.Run(ctx)
			},
				app.WithLogger(app.NewLogger(c.opts, &logs)),
				app.WithPluginOptions(plugin.WithDispatcher(dispatch)),
			)
		},
	}
	cmd.Flags().BoolVar(&watch, "watch", true, "reload when the settings file changes on disk")
	cmd.Flags().StringVar(&accent, "accent", termsurface.DefaultAccent, "focus highlight color")
	return cmd
}
