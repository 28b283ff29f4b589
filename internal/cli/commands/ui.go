package commands

import (
	"fmt"
	"os/exec"
	"runtime"

	"github.com/gorilla/securecookie"
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/omnicatalog/internal/ui"
)

// NewUICommand creates the ui command.
func NewUICommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ui",
		Short: "Start the web catalog browser",
		Long: `Start a local web server for browsing models in a browser.

The UI provides:
- The list of models
- Each model's files, grouped into topics, views and other files
- The YAML of any file
- Each topic's join tree and field catalog

Every browser gets its own session, so two tabs in different browsers can
look at different models.`,
		Example: `  # Start UI on the default port
  omnicatalog ui

  # Start on a custom port
  omnicatalog ui --port 3000

  # Start without opening a browser
  omnicatalog ui --no-open`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runUI(cmd)
		},
	}

	// Values reach the config through the root command's flag layer.
	cmd.Flags().Int("port", 0, "Port to serve on (default: 8765)")
	cmd.Flags().Bool("no-open", false, "Don't open a browser")
	cmd.Flags().String("session-secret", "", "Key for signing session cookies (default: random per run)")

	return cmd
}

func runUI(cmd *cobra.Command) error {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	uiCfg := cmdCtx.Cfg.UI

	secret := uiCfg.SessionSecret
	if secret == "" {
		secret = string(securecookie.GenerateRandomKey(32))
		cmdCtx.Logger.Debug("using a random session secret; sessions end when the server stops")
	}

	server := ui.NewServer(ui.Config{
		Catalog:       cmdCtx.Catalog,
		Models:        cmdCtx.Client,
		ListOptions:   cmdCtx.Cfg.ListOptions(),
		Port:          uiCfg.Port,
		SessionSecret: secret,
		Logger:        cmdCtx.Logger,
	})

	url := fmt.Sprintf("http://localhost:%d", uiCfg.Port)
	if uiCfg.AutoOpen {
		go openBrowser(url)
	}

	r := cmdCtx.Renderer
	r.Printf("Serving %s at %s\n", cmdCtx.Client.BaseURL(), url)
	r.Muted("Press Ctrl+C to stop")

	return server.Serve(cmd.Context())
}

// openBrowser opens the default browser to the specified URL.
func openBrowser(url string) {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url) //nolint:noctx
	case "linux":
		cmd = exec.Command("xdg-open", url) //nolint:noctx
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url) //nolint:noctx
	default:
		return
	}

	_ = cmd.Start()
}
