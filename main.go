// Command planchis runs the Planchis game server.
//
// Subcommands:
//  1. "server" (default) runs the HTTP server exposing the REST API, the
//     WebSocket feed and an /mcp HTTP endpoint, optionally behind ngrok
//  2. "mcp" runs an MCP stdio server backed by an external API or an
//     internal one on a loopback port
//  3. "simulate" plays headless games with every seat automated and prints
//     the win counts
//
// Settings come from the environment (and a .env file); flags override them.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"
)

// Version information
const (
	Version = "1.0.0"
	AppName = "Planchis Server"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	settings, err := loadSettings()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if err := newApp(settings).Run(ctx, os.Args); err != nil {
		log.Error().Err(err).Msg("exiting")
		os.Exit(1)
	}
}

// newApp builds the command tree. settings provide the flag defaults.
func newApp(settings Settings) *cli.Command {
	return &cli.Command{
		Name:    "planchis",
		Usage:   AppName,
		Version: Version,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "host", Value: settings.Host, Usage: "HTTP server host"},
			&cli.IntFlag{Name: "port", Value: settings.Port, Usage: "HTTP server port"},
			&cli.StringFlag{Name: "config-dir", Value: settings.ConfigDir, Usage: "directory containing game presets"},
			&cli.StringFlag{Name: "sessions-dir", Value: settings.SessionsDir, Usage: "directory for persisted sessions"},
			&cli.BoolFlag{Name: "debug", Value: settings.Debug, Usage: "enable debug logging"},
			&cli.BoolFlag{Name: "log-pretty", Value: settings.LogPretty, Usage: "human readable log output"},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			setupLogging(os.Stderr, cmd.Bool("debug"), cmd.Bool("log-pretty"))
			return ctx, nil
		},
		Commands: []*cli.Command{
			serverCommand(settings),
			mcpCommand(),
			simulateCommand(os.Stdout),
		},
		// Bare invocation runs the server
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return runServer(ctx, cmd, settings)
		},
	}
}

func serverCommand(settings Settings) *cli.Command {
	return &cli.Command{
		Name:    "server",
		Aliases: []string{"http"},
		Usage:   "run the HTTP server with REST API, WebSocket and MCP endpoint",
		Flags: []cli.Flag{
			&cli.DurationFlag{Name: "session-ttl", Value: settings.SessionTTL, Usage: "drop sessions idle for longer than this"},
			&cli.BoolFlag{Name: "ngrok", Value: settings.NgrokEnabled, Usage: "expose the server through an ngrok tunnel"},
			&cli.StringFlag{Name: "ngrok-auth", Value: settings.NgrokAuthToken, Usage: "ngrok auth token"},
			&cli.StringFlag{Name: "ngrok-domain", Value: settings.NgrokDomain, Usage: "custom ngrok domain (optional)"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return runServer(ctx, cmd, settings)
		},
	}
}

func mcpCommand() *cli.Command {
	return &cli.Command{
		Name:    "mcp",
		Aliases: []string{"stdio-mcp", "mcp-stdio"},
		Usage:   "run an MCP stdio server",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "api-url", Value: "http://localhost:8080", Usage: "REST API to use when it is reachable"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			opts := serviceOptions{
				configDir:   cmd.String("config-dir"),
				sessionsDir: cmd.String("sessions-dir"),
			}
			return runStdioMCP(ctx, cmd.String("api-url"), opts)
		},
	}
}

func simulateCommand(out io.Writer) *cli.Command {
	return &cli.Command{
		Name:  "simulate",
		Usage: "play headless games with every seat automated",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Value: "", Usage: "preset ID (default preset when empty)"},
			&cli.IntFlag{Name: "games", Value: 100, Usage: "number of games"},
			&cli.Int64Flag{Name: "seed", Value: 1, Usage: "seed of the first game, 0 for random"},
			&cli.IntFlag{Name: "max-turns", Value: 5000, Usage: "turn limit per game"},
			&cli.BoolFlag{Name: "json", Usage: "print the report as JSON"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return runSimulate(ctx, cmd, out)
		},
	}
}
