// Command ghostmaze starts the ghost maze server.
//
// It supports three commands:
//  1. "serve" (default) runs the HTTP server exposing the REST API, WebSocket, metrics and an /mcp endpoint
//  2. "mcp" runs an MCP stdio server and spins up an internal HTTP API if none is available
//  3. "play" lets the autopilot play a maze in the terminal
//
// Settings come from ghostmaze.toml (when present), then environment
// variables and flags. A .env file is loaded first if one exists.
package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"
	"github.com/urfave/cli/v3"
	"github.com/wricardo/ghostmaze/api"
	"github.com/wricardo/ghostmaze/game/config"
	"github.com/wricardo/ghostmaze/game/service"
	"github.com/wricardo/ghostmaze/game/session"
	"github.com/wricardo/ghostmaze/observability"
	"github.com/wricardo/ghostmaze/transport/mcp"
	"github.com/wricardo/ghostmaze/transport/websocket"
	"golang.ngrok.com/ngrok"
	ngrokConfig "golang.ngrok.com/ngrok/config"
	"golang.org/x/sync/errgroup"
)

// Version information
const (
	Version = "1.0.0"
	AppName = "Ghost Maze Server"
)

const (
	cleanupInterval = 5 * time.Minute
	shutdownTimeout = 10 * time.Second
)

func main() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "Warning: Error loading .env file: %v\n", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp().Run(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newApp() *cli.Command {
	return &cli.Command{
		Name:    "ghostmaze",
		Usage:   AppName,
		Version: Version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "settings",
				Usage:   "TOML settings file",
				Value:   config.DefaultSettingsFile,
				Sources: cli.EnvVars("GHOSTMAZE_SETTINGS"),
			},
			&cli.StringFlag{
				Name:    "host",
				Usage:   "HTTP server host",
				Sources: cli.EnvVars("HOST"),
			},
			&cli.IntFlag{
				Name:    "port",
				Usage:   "HTTP server port",
				Sources: cli.EnvVars("PORT"),
			},
			&cli.StringFlag{
				Name:    "config-dir",
				Usage:   "Directory containing maze configurations",
				Sources: cli.EnvVars("CONFIG_DIR"),
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "trace, debug, info, warn or error",
				Sources: cli.EnvVars("LOG_LEVEL"),
			},
		},
		DefaultCommand: "serve",
		Commands: []*cli.Command{
			{
				Name:  "serve",
				Usage: "Run the HTTP server with REST API, WebSocket and MCP endpoints",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:    "ngrok",
						Usage:   "Expose the server through an ngrok tunnel",
						Sources: cli.EnvVars("NGROK_ENABLED"),
					},
					&cli.StringFlag{
						Name:    "ngrok-domain",
						Usage:   "Custom ngrok domain",
						Sources: cli.EnvVars("NGROK_DOMAIN"),
					},
					&cli.StringFlag{
						Name:  "static-dir",
						Usage: "Serve static files from this directory",
					},
				},
				Action: runServe,
			},
			{
				Name:    "mcp",
				Aliases: []string{"stdio-mcp", "mcp-stdio"},
				Usage:   "Run an MCP stdio server",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "api-url",
						Usage:   "REST API to proxy; an internal server is started when it is unreachable",
						Value:   "http://localhost:8080",
						Sources: cli.EnvVars("GHOSTMAZE_API_URL"),
					},
				},
				Action: runStdioMCP,
			},
			{
				Name:  "play",
				Usage: "Let the autopilot play a maze in the terminal",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "maze",
						Usage: "Maze config id (defaults to the configured default)",
					},
					&cli.IntFlag{
						Name:  "steps",
						Usage: "Maximum number of moves",
						Value: 500,
					},
					&cli.DurationFlag{
						Name:  "delay",
						Usage: "Pause between moves",
						Value: 150 * time.Millisecond,
					},
				},
				Action: runPlay,
			},
		},
	}
}

// loadSettings reads the settings file and applies flag overrides
func loadSettings(cmd *cli.Command) (config.Settings, error) {
	path := cmd.String("settings")
	settings, err := config.LoadSettings(path, !cmd.IsSet("settings"))
	if err != nil {
		return config.Settings{}, err
	}

	if cmd.IsSet("host") {
		settings.Server.Host = cmd.String("host")
	}
	if cmd.IsSet("port") {
		settings.Server.Port = int(cmd.Int("port"))
	}
	if cmd.IsSet("config-dir") {
		settings.Server.ConfigDir = cmd.String("config-dir")
	}
	if cmd.IsSet("log-level") {
		settings.Server.LogLevel = cmd.String("log-level")
	}
	if cmd.IsSet("ngrok") {
		settings.Ngrok.Enabled = cmd.Bool("ngrok")
	}
	if cmd.IsSet("ngrok-domain") {
		settings.Ngrok.Domain = cmd.String("ngrok-domain")
	}
	if err := config.ValidateSettings(settings); err != nil {
		return config.Settings{}, err
	}
	return settings, nil
}

// services bundles what every command needs
type services struct {
	logger   zerolog.Logger
	sessions *session.Manager
	game     service.GameService
	hub      *websocket.Hub
}

// initializeServices wires the session and config managers, the websocket
// hub and the game service.
func initializeServices(settings config.Settings, logger zerolog.Logger) (*services, error) {
	configManager, err := config.NewManagerWithDefault(settings.Server.ConfigDir, settings.Server.DefaultConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create config manager: %w", err)
	}

	sessionManager := session.NewManager(session.WithLogger(logger))

	var gameService service.GameService
	hub := websocket.NewHub(
		websocket.WithLogger(logger),
		websocket.WithCommandHandler(func(ctx context.Context, sessionID string, cmd websocket.Command) (any, error) {
			return api.CommandHandler(gameService)(ctx, sessionID, cmd)
		}),
	)
	gameService = service.NewGameService(sessionManager, configManager,
		service.WithLogger(logger),
		service.WithStateObserver(hub.BroadcastState),
	)

	return &services{
		logger:   logger,
		sessions: sessionManager,
		game:     gameService,
		hub:      hub,
	}, nil
}

func localURL(settings config.ServerSettings) string {
	host := settings.Host
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "localhost"
	}
	return fmt.Sprintf("http://%s:%d", host, settings.Port)
}

// runServe starts the HTTP server with REST API, WebSocket hub, and an /mcp
// endpoint. If ngrok is enabled it also provisions a public tunnel.
func runServe(ctx context.Context, cmd *cli.Command) error {
	settings, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	logger := observability.InitLogger("ghostmaze", settings.Server.LogLevel)
	logger.Info().Str("version", Version).Str("config_dir", settings.Server.ConfigDir).Msg("starting " + AppName)

	svc, err := initializeServices(settings, logger)
	if err != nil {
		return err
	}
	defer svc.sessions.StopAll()

	opts := []api.Option{
		api.WithLogger(logger),
		api.WithMCPHandler(mcp.NewClient(localURL(settings.Server)).Handler()),
	}
	if dir := cmd.String("static-dir"); dir != "" {
		opts = append(opts, api.WithStaticDir(dir))
	}
	handler := api.NewServer(svc.game, svc.hub, opts...)

	addr := settings.Server.Addr()
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return svc.hub.Run(ctx)
	})
	g.Go(func() error {
		return svc.sessions.RunCleanup(ctx, settings.Server.TTL(), cleanupInterval)
	})
	g.Go(func() error {
		logger.Info().
			Str("api", "http://"+addr+"/api").
			Str("ws", "ws://"+addr+"/ws?session=<session_id>").
			Str("mcp", "http://"+addr+"/mcp").
			Msg("HTTP server listening")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		logger.Info().Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})
	if settings.Ngrok.Enabled {
		g.Go(func() error {
			return serveNgrok(ctx, settings.Ngrok, handler, logger)
		})
	}

	err = g.Wait()
	logger.Info().Msg("server stopped")
	return err
}

// serveNgrok exposes handler through an ngrok tunnel until ctx is done.
// A tunnel that cannot be opened is logged and does not stop the server.
func serveNgrok(ctx context.Context, settings config.NgrokSettings, handler http.Handler, logger zerolog.Logger) error {
	authToken := os.Getenv("NGROK_AUTHTOKEN")
	if authToken == "" {
		authToken = os.Getenv("NGROK_AUTH_TOKEN")
	}
	if authToken == "" {
		logger.Warn().Msg("ngrok enabled but no auth token provided (set NGROK_AUTHTOKEN)")
		return nil
	}

	var tunnel ngrokConfig.Tunnel
	if settings.Domain != "" {
		tunnel = ngrokConfig.HTTPEndpoint(ngrokConfig.WithDomain(settings.Domain))
	} else {
		tunnel = ngrokConfig.HTTPEndpoint()
	}

	tun, err := ngrok.Listen(ctx, tunnel, ngrok.WithAuthtoken(authToken))
	if err != nil {
		logger.Error().Err(err).Msg("failed to start ngrok tunnel")
		return nil
	}
	logger.Info().Str("url", tun.URL()).Msg("ngrok tunnel established")

	go func() {
		<-ctx.Done()
		if err := tun.Close(); err != nil {
			logger.Warn().Err(err).Msg("failed to close ngrok tunnel")
		}
	}()

	if err := http.Serve(tun, handler); err != nil && ctx.Err() == nil {
		logger.Error().Err(err).Msg("ngrok server error")
	}
	return nil
}

// apiReachable reports whether a REST API answers at baseURL
func apiReachable(ctx context.Context, baseURL string) bool {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, strings.TrimSuffix(baseURL, "/")+"/health", nil)
	if err != nil {
		return false
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode < 500
}

// runStdioMCP runs an MCP stdio server. It reuses the API at --api-url when
// it answers, otherwise it starts an internal API on a loopback port.
func runStdioMCP(ctx context.Context, cmd *cli.Command) error {
	settings, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	// stdout carries the protocol
	logger := observability.InitLogger("ghostmaze-mcp", settings.Server.LogLevel)

	baseURL := cmd.String("api-url")
	if apiReachable(ctx, baseURL) {
		logger.Info().Str("api", baseURL).Msg("using external API server")
	} else {
		svc, err := initializeServices(settings, logger)
		if err != nil {
			return err
		}
		defer svc.sessions.StopAll()
		go svc.hub.Run(ctx)

		listener, err := net.Listen("tcp", "127.0.0.1:0")
		if err != nil {
			return fmt.Errorf("failed to get available port: %w", err)
		}
		internal := &http.Server{Handler: api.NewServer(svc.game, svc.hub, api.WithLogger(logger))}
		go func() {
			if err := internal.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error().Err(err).Msg("internal HTTP server error")
			}
		}()
		defer internal.Close()

		baseURL = "http://" + listener.Addr().String()
		logger.Info().Str("api", baseURL).Msg("started internal API server")
	}

	if err := server.ServeStdio(mcp.NewClient(baseURL).GetMCPServer()); err != nil {
		return fmt.Errorf("MCP stdio server: %w", err)
	}
	return nil
}
