// Command server runs the Common Lore coordination service: room lifecycle,
// deck dealing and the turn state machine behind a single websocket endpoint.
package main

import (
	"context"
	"encoding/base64"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"gosuda.org/portal/portal/core/cryptoops"
	"gosuda.org/portal/sdk"

	"github.com/jeeminhan/Common-Lore/internal/config"
	"github.com/jeeminhan/Common-Lore/internal/server"
	"github.com/jeeminhan/Common-Lore/internal/session"
)

var rootCmd = &cobra.Command{
	Use:   "common-lore",
	Short: "Realtime room and game coordination service for Common Lore",
	RunE:  runServer,
}

var (
	flagRelayURLs []string
	flagCredKey   string
	flagPort      int
	flagName      string
	flagDebug     bool
)

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringSliceVar(&flagRelayURLs, "relay-url", strings.Split(os.Getenv("RELAY"), ","), "relay base URL(s) for public ingress; empty for local-only mode")
	flags.StringVar(&flagCredKey, "cred-key", "", "optional relay credential key (base64 encoded)")
	flags.IntVar(&flagPort, "port", -1, "local HTTP port (negative to use the PORT env)")
	flags.StringVar(&flagName, "name", "", "backend display name (overrides SERVER_NAME)")
	flags.BoolVar(&flagDebug, "debug", false, "enable debug logging")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatal().Err(err).Msg("execute command")
	}
}

func runServer(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if flagDebug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if flagPort >= 0 {
		cfg.Port = flagPort
	}
	if flagName != "" {
		cfg.Name = flagName
	}

	reg := session.NewRegistry(session.Config{
		RoomCodeLength: cfg.RoomCodeLength,
		MaxPlayers:     cfg.MaxPlayersPerRoom,
		MinPlayers:     cfg.MinPlayersToStart,
		CardsPerPlayer: cfg.CardsPerPlayer,
		RoomTTL:        cfg.RoomExpiration,
	})
	hub := server.NewHub()
	router := server.NewRouter(reg, hub, cfg)
	handler := server.Handler(hub, router)

	// Abandoned rooms age out on a fixed sweep.
	go func() {
		ticker := time.NewTicker(cfg.CleanupInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n := reg.CleanupExpiredRooms(); n > 0 {
					log.Info().Int("rooms", n).Msg("expired rooms removed")
				}
			}
		}
	}()

	relays := make([]string, 0, len(flagRelayURLs))
	for _, raw := range flagRelayURLs {
		if trimmed := strings.TrimSpace(raw); trimmed != "" {
			relays = append(relays, trimmed)
		}
	}

	var (
		ln     net.Listener
		client *sdk.RDClient
	)
	if len(relays) > 0 {
		cred := sdk.NewCredential()
		if flagCredKey != "" {
			key, err := base64.StdEncoding.DecodeString(flagCredKey)
			if err != nil {
				return fmt.Errorf("decode cred key: %w", err)
			}
			cred, err = cryptoops.NewCredentialFromPrivateKey(key)
			if err != nil {
				return fmt.Errorf("new credential from private key: %w", err)
			}
		}
		c, err := sdk.NewClient(func(rc *sdk.RDClientConfig) {
			rc.BootstrapServers = relays
		})
		if err != nil {
			return fmt.Errorf("new relay client: %w", err)
		}
		listener, err := c.Listen(cred, cfg.Name, []string{"http/1.1"})
		if err != nil {
			_ = c.Close()
			return fmt.Errorf("relay listen: %w", err)
		}
		client = c
		ln = listener
		log.Info().Str("name", cfg.Name).Msg("relay ingress enabled")
	}

	if ln != nil {
		go func() {
			if err := http.Serve(ln, handler); err != nil && err != http.ErrServerClosed && ctx.Err() == nil {
				log.Error().Err(err).Msg("relay http error")
			}
		}()
	}

	httpSrv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	log.Info().Int("port", cfg.Port).Msg("listening")
	go func() {
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("http server stopped")
		}
	}()

	<-ctx.Done()

	if ln != nil {
		_ = ln.Close()
	}
	if client != nil {
		_ = client.Close()
	}
	sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(sctx); err != nil && err != context.Canceled {
		log.Error().Err(err).Msg("http shutdown error")
	}
	hub.Close()
	log.Info().Msg("shutdown complete")
	return nil
}
