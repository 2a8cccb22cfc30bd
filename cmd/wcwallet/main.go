// WCWallet - WalletConnect Sign Wallet Responder
// Copyright (C) 2025 wcwallet-project
//
// This file is part of WCWallet.
//
// WCWallet is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// WCWallet is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with WCWallet. If not, see <https://www.gnu.org/licenses/>.

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/wcwallet-project/wcwallet/config"
	"github.com/wcwallet-project/wcwallet/internal/logger"
	"github.com/wcwallet-project/wcwallet/internal/metrics"
	"github.com/wcwallet-project/wcwallet/pairing"
	"github.com/wcwallet-project/wcwallet/relay"
	"github.com/wcwallet-project/wcwallet/rpc"
	"github.com/wcwallet-project/wcwallet/session"
	"github.com/wcwallet-project/wcwallet/wallet"
)

var (
	flagAddress   string
	flagProjectID string
	flagConfig    string
	flagLogLevel  string
)

var rootCmd = &cobra.Command{
	Use:   "wcwallet <pairing-uri>",
	Short: "WalletConnect Sign wallet responder",
	Long: `wcwallet answers a dApp's pairing invitation: it connects to the
relay, settles sessions proposed on the pairing topic, and serves
pings until the dApp disconnects.

The positional argument is the wc: pairing URI displayed by the dApp.`,
	Args: cobra.ExactArgs(1),
	RunE: run,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.SilenceUsage = true

	rootCmd.Flags().StringVarP(&flagAddress, "address", "a", "", "relay WebSocket address (default wss://relay.walletconnect.com)")
	rootCmd.Flags().StringVarP(&flagProjectID, "project-id", "p", "", "WalletConnect project ID")
	rootCmd.Flags().StringVarP(&flagConfig, "config", "c", "", "path to YAML config file")
	rootCmd.Flags().StringVarP(&flagLogLevel, "log-level", "l", "", "log level (debug, info, warn, error)")
}

func run(cmd *cobra.Command, args []string) error {
	// Optional .env for WCWALLET_* variables; missing file is fine.
	_ = godotenv.Load()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	log := logger.GetDefaultLogger()
	log.SetLevel(logger.ParseLevel(cfg.Logging.Level))
	log.SetPrettyPrint(cfg.Logging.Pretty)

	paired, err := pairing.Parse(args[0])
	if err != nil {
		return fmt.Errorf("invalid pairing uri: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	handler := &deferredHandler{}
	client, err := relay.Dial(ctx, relay.ConnectionOptions{
		Address:        cfg.Relay.Address,
		ProjectID:      cfg.Relay.ProjectID,
		Origin:         cfg.Relay.Origin,
		DialTimeout:    cfg.Relay.DialTimeout,
		RequestTimeout: cfg.Relay.RequestTimeout,
	}, handler)
	if err != nil {
		return err
	}
	defer client.Close()

	pair := session.NewPairing(paired.Topic, paired.Params.SymKey)
	engine := wallet.New(client, pair, walletConfig(cfg))
	handler.set(engine.Handler())

	subscriptionID, err := client.Subscribe(ctx, pair.Topic)
	if err != nil {
		return fmt.Errorf("failed to subscribe pairing topic: %w", err)
	}
	pair.SubscriptionID = subscriptionID
	log.Info("pairing subscribed",
		logger.String("topic", pair.Topic),
		logger.String("subscription_id", string(subscriptionID)))

	group, groupCtx := errgroup.WithContext(ctx)

	// The metrics endpoint lives exactly as long as the event loop.
	metricsCtx, stopMetricsServer := context.WithCancel(groupCtx)
	defer stopMetricsServer()

	group.Go(func() error {
		defer stopMetricsServer()
		return engine.Run(groupCtx)
	})

	if cfg.Metrics.Enabled {
		group.Go(func() error { return serveMetrics(metricsCtx, cfg.Metrics.Address) })
	}

	if err := group.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	log.Info("clean teardown complete")
	return nil
}

func loadConfig() (*config.Config, error) {
	cfg := config.Default()
	if flagConfig != "" {
		loaded, err := config.LoadFromFile(flagConfig)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if flagAddress != "" {
		cfg.Relay.Address = flagAddress
	}
	if flagProjectID != "" {
		cfg.Relay.ProjectID = flagProjectID
	}
	if cfg.Relay.ProjectID == "" {
		cfg.Relay.ProjectID = os.Getenv("WCWALLET_PROJECT_ID")
	}
	if flagLogLevel != "" {
		cfg.Logging.Level = flagLogLevel
	}

	return cfg, cfg.Validate()
}

func walletConfig(cfg *config.Config) wallet.Config {
	return wallet.Config{
		Account: cfg.Wallet.Account,
		Chains:  cfg.Wallet.Chains,
		Methods: cfg.Wallet.Methods,
		Events:  cfg.Wallet.Events,
		Metadata: rpc.Metadata{
			Name:        cfg.Wallet.Name,
			Description: cfg.Wallet.Description,
			URL:         cfg.Wallet.URL,
			Icons:       cfg.Wallet.Icons,
		},
	}
}

// serveMetrics runs the Prometheus endpoint until the context ends.
func serveMetrics(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	server := &http.Server{Addr: addr, Handler: mux}

	errCh := make(chan error, 1)
	go func() { errCh <- server.ListenAndServe() }()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
		return nil
	case err := <-errCh:
		return err
	}
}

// deferredHandler lets the relay client be dialed before the engine that
// consumes its callbacks exists. Callbacks arriving before set are
// limited to Connected, which is safe to drop.
type deferredHandler struct {
	mu       sync.RWMutex
	delegate relay.ConnectionHandler
}

func (h *deferredHandler) set(delegate relay.ConnectionHandler) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.delegate = delegate
}

func (h *deferredHandler) get() relay.ConnectionHandler {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.delegate
}

func (h *deferredHandler) Connected() {
	if d := h.get(); d != nil {
		d.Connected()
	}
}

func (h *deferredHandler) Disconnected(err error) {
	if d := h.get(); d != nil {
		d.Disconnected(err)
	}
}

func (h *deferredHandler) MessageReceived(message relay.PublishedMessage) {
	if d := h.get(); d != nil {
		d.MessageReceived(message)
	}
}

func (h *deferredHandler) InboundError(err error) {
	if d := h.get(); d != nil {
		d.InboundError(err)
	}
}

func (h *deferredHandler) OutboundError(err error) {
	if d := h.get(); d != nil {
		d.OutboundError(err)
	}
}
