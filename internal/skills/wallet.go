package skills

import (
	"context"
	"log/slog"
	"regexp"
	"strings"

	"github.com/edwardtay/webwatcher-sub001/internal/intel"
	"github.com/edwardtay/webwatcher-sub001/internal/model"
	"github.com/edwardtay/webwatcher-sub001/internal/resolve"
	"github.com/edwardtay/webwatcher-sub001/internal/rules"
	"github.com/edwardtay/webwatcher-sub001/internal/score"
)

var walletAddressRe = regexp.MustCompile(`^0x[0-9a-fA-F]{40}$`)

const nullAddress = "0x0000000000000000000000000000000000000000"

// WalletChecker implements the check_wallet skill: format validation plus,
// when a chain endpoint is configured, on-chain account state.
type WalletChecker struct {
	chain *intel.Chain
	rules *rules.Store
	log   *slog.Logger
}

// NewWalletChecker creates the check_wallet executor.
func NewWalletChecker(chain *intel.Chain, rs *rules.Store, log *slog.Logger) *WalletChecker {
	return &WalletChecker{chain: chain, rules: rs, log: log}
}

// ID implements Executor.
func (w *WalletChecker) ID() string { return model.SkillCheckWallet }

// Execute implements Executor. Without a chain endpoint the result carries
// format-level findings only, flagged so callers know the difference.
func (w *WalletChecker) Execute(ctx context.Context, p resolve.Params) (any, error) {
	if p.Wallet == "" {
		return nil, Missing(w.ID(), "address")
	}
	if !walletAddressRe.MatchString(p.Wallet) {
		return nil, Invalid(w.ID(), "address must be a 0x-prefixed 40-hex-digit string")
	}

	riskScore := 0
	flags := []string{}
	if strings.EqualFold(p.Wallet, nullAddress) {
		riskScore += 10
		flags = append(flags, "null_address")
	}

	result := model.WalletCheckResult{Address: p.Wallet}

	if !w.chain.Enabled() {
		flags = append(flags, "chain_data_unavailable")
	} else {
		account, err := w.chain.Account(ctx, p.Wallet)
		if err != nil {
			return nil, Upstream(w.ID(), err)
		}
		result.BalanceWei = account.BalanceWei
		result.TxCount = account.TxCount
		result.IsContract = account.IsContract
		if account.IsContract {
			flags = append(flags, "contract_address")
		}
		if account.TxCount == 0 {
			riskScore += 10
			flags = append(flags, "no_transaction_history")
		}
	}

	th := w.rules.Current().Thresholds
	result.RiskScore = score.Clamp(riskScore)
	result.Verdict = score.Verdict(result.RiskScore, th)
	result.Flags = flags
	return result, nil
}
