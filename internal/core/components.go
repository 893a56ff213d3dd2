package core

import (
	"fmt"

	"github.com/SethMC26/3320-antivirus-Final/internal/config"
	"github.com/SethMC26/3320-antivirus-Final/internal/disposition"
	"github.com/SethMC26/3320-antivirus-Final/internal/privilege"
	"github.com/SethMC26/3320-antivirus-Final/internal/quarantine"
	"github.com/SethMC26/3320-antivirus-Final/internal/signatures"
	"github.com/SethMC26/3320-antivirus-Final/internal/whitelist"
	"go.uber.org/zap"
)

// Components is the full scanner stack built from a config
type Components struct {
	Matcher   *signatures.Matcher
	Allowlist *whitelist.Store
	Vault     *quarantine.Vault
	Handler   *disposition.Handler
	Scanner   *Scanner
}

// Build wires blocklists, allowlist, quarantine and disposition into a
// scanner. confirm decides what happens to detected files.
func Build(cfg *config.Config, logger *zap.Logger, confirm disposition.Confirmer) (*Components, error) {
	algs, err := cfg.GetAlgorithms()
	if err != nil {
		return nil, err
	}

	loader := signatures.NewLoader(cfg.BlocklistPath)
	lists, missing := loader.Load(algs)
	for _, alg := range missing {
		logger.Warn("Blocklist not found",
			zap.String("algorithm", string(alg)),
			zap.String("path", cfg.BlocklistPath(alg)),
			zap.String("policy", cfg.MissingBlocklist))
	}
	logger.Info("Loaded blocklists",
		zap.Int("count", len(lists)-len(missing)),
		zap.Int("missing", len(missing)))

	matcher := signatures.NewMatcher(lists, cfg.MissingBlocklist == config.MissingFail, logger)
	order := make([]string, 0, len(algs))
	for _, alg := range matcher.Algorithms() {
		order = append(order, alg.Label())
	}
	logger.Debug("Blocklist check order", zap.Strings("order", order))
	allowlist := whitelist.NewStore(cfg.WhitelistPath(), logger)
	vault := quarantine.NewVault(cfg.QuarantinePath(), quarantine.NewLedger(cfg.LedgerPath()), logger)
	handler := disposition.NewHandler(vault, allowlist, confirm, privilege.For(cfg.RequireRoot), logger)

	scanner, err := NewScanner(cfg, logger, Deps{
		Matcher:   matcher,
		Allowlist: allowlist,
		Handler:   handler,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create scanner: %w", err)
	}

	return &Components{
		Matcher:   matcher,
		Allowlist: allowlist,
		Vault:     vault,
		Handler:   handler,
		Scanner:   scanner,
	}, nil
}
