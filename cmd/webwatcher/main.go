package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/edwardtay/webwatcher-sub001/internal/config"
	"github.com/edwardtay/webwatcher-sub001/internal/events"
	"github.com/edwardtay/webwatcher-sub001/internal/gateway"
	"github.com/edwardtay/webwatcher-sub001/internal/intel"
	"github.com/edwardtay/webwatcher-sub001/internal/logging"
	"github.com/edwardtay/webwatcher-sub001/internal/metrics"
	"github.com/edwardtay/webwatcher-sub001/internal/rules"
	"github.com/edwardtay/webwatcher-sub001/internal/scan"
	"github.com/edwardtay/webwatcher-sub001/internal/skills"
)

const version = "1.0.0"

func main() {
	cfg := config.FromEnv()
	logger := logging.New(cfg.LogLevel, "webwatcher")

	logger.Info("starting webwatcher agent",
		"version", version,
		"addr", cfg.Addr,
		"rules_file", cfg.RulesFile,
		"nats", cfg.NATSURL != "",
		"eth_rpc", cfg.EthRPC != "",
		"intel_timeout", cfg.IntelTimeout)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ruleStore, err := rules.NewStore(cfg.RulesFile, logger.With("component", "rules"))
	if err != nil {
		logger.Error("failed to load scoring rules", "error", err)
		os.Exit(1)
	}
	go func() {
		if err := ruleStore.Watch(ctx); err != nil {
			logger.Error("rules watcher stopped", "error", err)
		}
	}()

	m := metrics.New()

	intelCfg := func(baseURL string) intel.Config {
		return intel.Config{BaseURL: baseURL, Timeout: cfg.IntelTimeout}
	}
	pages := intel.NewPageScan(intelCfg(cfg.PageScanURL), logger.With("component", "pagescan"))
	reputation := intel.NewReputation(intelCfg(cfg.ReputationURL), logger.With("component", "reputation"))
	whois, err := intel.NewWhois(intelCfg(cfg.WhoisURL), cfg.CacheSize, logger.With("component", "whois"))
	if err != nil {
		logger.Error("failed to create whois client", "error", err)
		os.Exit(1)
	}
	breaches := intel.NewBreach(intelCfg(cfg.BreachURL), logger.With("component", "breach"))
	ipRisk, err := intel.NewIPRisk(intelCfg(cfg.IPRiskURL), cfg.CacheSize, logger.With("component", "iprisk"))
	if err != nil {
		logger.Error("failed to create iprisk client", "error", err)
		os.Exit(1)
	}
	policy := intel.NewPolicy(intelCfg(cfg.PolicyURL), cfg.PolicyDenylist, logger.With("component", "policy"))
	redirects := intel.NewRedirects(cfg.IntelTimeout, logger.With("component", "redirects"))
	forms := intel.NewFormRisk(cfg.IntelTimeout, logger.With("component", "formrisk"))
	tlsAudit := intel.NewTLSAudit(cfg.IntelTimeout, logger.With("component", "tlsaudit"))
	chain, err := intel.NewChain(cfg.EthRPC, logger.With("component", "chain"))
	if err != nil {
		logger.Error("failed to dial eth rpc", "error", err)
		os.Exit(1)
	}
	defer chain.Close()

	publisher, err := events.NewPublisher(cfg.NATSURL, cfg.ReportsSubject, m, logger.With("component", "events"))
	if err != nil {
		logger.Error("failed to connect to nats", "error", err)
		os.Exit(1)
	}
	defer publisher.Close()

	orchestrator := scan.New(scan.Branches{
		Redirects:  redirects,
		Pages:      pages,
		Forms:      forms,
		TLS:        tlsAudit,
		Reputation: reputation,
		Policy:     policy,
		Whois:      whois,
		IPRisk:     ipRisk,
	}, ruleStore, m, publisher, cfg.IntelTimeout, logger.With("component", "scan"))

	registry := skills.NewRegistry(
		skills.NewURLScanner(pages, reputation, ruleStore, logger.With("skill", "scan_url")),
		skills.NewDomainChecker(whois, ruleStore, logger.With("skill", "check_domain")),
		skills.NewEmailAnalyzer(whois, ruleStore, logger.With("skill", "analyze_email")),
		skills.NewBreachChecker(breaches, ruleStore, logger.With("skill", "check_breach")),
		skills.NewWalletChecker(chain, ruleStore, logger.With("skill", "check_wallet")),
		orchestrator,
	)

	gw := gateway.New(cfg, registry, m, version, logger.With("component", "gateway"))
	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           gw.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", "addr", cfg.Addr)
		errCh <- server.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Info("shutting down", "signal", sig.String())
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server failed", "error", err)
			os.Exit(1)
		}
	}

	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	}
	logger.Info("stopped")
}
