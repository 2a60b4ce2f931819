package config

import (
	"errors"
	"fmt"
	"math/big"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/joho/godotenv"
	"github.com/samber/lo"
	"github.com/trebuchet-org/bridge/internal/domain"
	"github.com/trebuchet-org/bridge/internal/domain/config"
)

const (
	DefaultPollInterval          = time.Second
	DefaultRequiredConfirmations = uint64(12)
	DefaultRequestTimeout        = 5 * time.Second
)

// bridgeFile mirrors the TOML file. Optional keys are pointers so that
// "not set" can be told apart from zero before defaults are applied.
type bridgeFile struct {
	Address                     string            `toml:"address"`
	Home                        *nodeFile         `toml:"home"`
	Foreign                     *nodeFile         `toml:"foreign"`
	Authorities                 *authoritiesFile  `toml:"authorities"`
	Transactions                *transactionsFile `toml:"transactions"`
	EstimatedGasCostOfWithdraw  string            `toml:"estimated_gas_cost_of_withdraw"`
	MaxTotalHomeContractBalance string            `toml:"max_total_home_contract_balance"`
	MaxSingleDepositValue       string            `toml:"max_single_deposit_value"`
}

type nodeFile struct {
	Contract              *contractFile `toml:"contract"`
	HTTP                  *string       `toml:"http"`
	RequestTimeout        *uint64       `toml:"request_timeout"`
	PollInterval          *uint64       `toml:"poll_interval"`
	RequiredConfirmations *uint64       `toml:"required_confirmations"`
}

type contractFile struct {
	Bin string `toml:"bin"`
}

type authoritiesFile struct {
	Accounts           []string `toml:"accounts"`
	RequiredSignatures uint32   `toml:"required_signatures"`
}

type transactionsFile struct {
	HomeDeploy      *transactionFile `toml:"home_deploy"`
	ForeignDeploy   *transactionFile `toml:"foreign_deploy"`
	DepositRelay    *transactionFile `toml:"deposit_relay"`
	WithdrawConfirm *transactionFile `toml:"withdraw_confirm"`
	WithdrawRelay   *transactionFile `toml:"withdraw_relay"`
}

type transactionFile struct {
	Gas      *uint64 `toml:"gas"`
	GasPrice *uint64 `toml:"gas_price"`
}

// LoadBridgeConfig loads and validates the bridge configuration file.
// Relative contract paths are resolved against the directory of the file,
// and environment variables in endpoints are expanded after loading any
// .env files found next to it.
func LoadBridgeConfig(path string) (*config.BridgeConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &domain.ConfigError{Path: path, Err: fmt.Errorf("failed to read config: %w", err)}
	}

	baseDir := filepath.Dir(path)
	loadEnvFiles(baseDir)

	cfg, err := parseBridgeConfig(string(data), baseDir)
	if err != nil {
		return nil, &domain.ConfigError{Path: path, Err: err}
	}
	return cfg, nil
}

// loadEnvFiles loads .env files for variable expansion
func loadEnvFiles(dir string) {
	envFiles := []string{
		filepath.Join(dir, ".env"),
		filepath.Join(dir, ".env.local"),
	}

	for _, envFile := range envFiles {
		if _, err := os.Stat(envFile); err == nil {
			if err := godotenv.Load(envFile); err != nil {
				// Log warning but don't fail
				fmt.Fprintf(os.Stderr, "Warning: Failed to load %s: %v\n", envFile, err)
			}
		}
	}
}

func parseBridgeConfig(content, baseDir string) (*config.BridgeConfig, error) {
	var raw bridgeFile
	md, err := toml.Decode(content, &raw)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := lo.Map(undecoded, func(k toml.Key, _ int) string { return k.String() })
		return nil, fmt.Errorf("%w: unknown fields: %s", domain.ErrInvalidConfig, strings.Join(keys, ", "))
	}

	return toBridgeConfig(&raw, baseDir)
}

// toBridgeConfig applies defaults and validates cross-field constraints.
func toBridgeConfig(raw *bridgeFile, baseDir string) (*config.BridgeConfig, error) {
	var errs []error

	address, err := parseAddress("address", raw.Address)
	if err != nil {
		errs = append(errs, err)
	}

	home, err := toNodeConfig("home", raw.Home, baseDir)
	if err != nil {
		errs = append(errs, err)
	}

	foreign, err := toNodeConfig("foreign", raw.Foreign, baseDir)
	if err != nil {
		errs = append(errs, err)
	}

	authorities, err := toAuthorities(raw.Authorities)
	if err != nil {
		errs = append(errs, err)
	}

	estimatedGas, err := parseUint256("estimated_gas_cost_of_withdraw", raw.EstimatedGasCostOfWithdraw)
	if err != nil {
		errs = append(errs, err)
	}
	maxBalance, err := parseUint256("max_total_home_contract_balance", raw.MaxTotalHomeContractBalance)
	if err != nil {
		errs = append(errs, err)
	}
	maxDeposit, err := parseUint256("max_single_deposit_value", raw.MaxSingleDepositValue)
	if err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidConfig, errors.Join(errs...))
	}

	return &config.BridgeConfig{
		Address:                     address,
		Home:                        home,
		Foreign:                     foreign,
		Authorities:                 authorities,
		Txs:                         toTransactions(raw.Transactions),
		EstimatedGasCostOfWithdraw:  estimatedGas,
		MaxTotalHomeContractBalance: maxBalance,
		MaxSingleDepositValue:       maxDeposit,
	}, nil
}

func toNodeConfig(name string, node *nodeFile, baseDir string) (config.NodeConfig, error) {
	if node == nil {
		return config.NodeConfig{}, fmt.Errorf("[%s] is required", name)
	}

	var errs []error

	var endpoint string
	if node.HTTP == nil {
		errs = append(errs, fmt.Errorf("%s.http is required (e.g. http = \"${%s}\")", name, GenerateEnvVarName(name)))
	} else {
		var err error
		endpoint, err = expandEndpoint(name+".http", *node.HTTP)
		switch {
		case err != nil:
			errs = append(errs, err)
		case strings.TrimSpace(endpoint) == "":
			errs = append(errs, fmt.Errorf("%s.http must not be empty", name))
		}
	}
	if node.PollInterval != nil && *node.PollInterval == 0 {
		errs = append(errs, fmt.Errorf("%s.poll_interval must be at least 1 second", name))
	}

	var bin []byte
	if node.Contract == nil || node.Contract.Bin == "" {
		errs = append(errs, fmt.Errorf("%s.contract.bin is required", name))
	} else {
		var err error
		bin, err = loadContractBin(resolvePath(baseDir, node.Contract.Bin))
		if err != nil {
			errs = append(errs, fmt.Errorf("%s.contract.bin: %w", name, err))
		}
	}

	if len(errs) > 0 {
		return config.NodeConfig{}, errors.Join(errs...)
	}

	return config.NodeConfig{
		Contract:              config.ContractConfig{Bin: bin},
		HTTP:                  endpoint,
		RequestTimeout:        secondsOr(node.RequestTimeout, DefaultRequestTimeout),
		PollInterval:          secondsOr(node.PollInterval, DefaultPollInterval),
		RequiredConfirmations: lo.FromPtrOr(node.RequiredConfirmations, DefaultRequiredConfirmations),
	}, nil
}

func toAuthorities(raw *authoritiesFile) (config.Authorities, error) {
	if raw == nil {
		return config.Authorities{}, errors.New("[authorities] is required")
	}

	var errs []error
	accounts := make([]common.Address, 0, len(raw.Accounts))
	for i, account := range raw.Accounts {
		addr, err := parseAddress(fmt.Sprintf("authorities.accounts[%d]", i), account)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		accounts = append(accounts, addr)
	}

	if dups := lo.FindDuplicates(accounts); len(dups) > 0 {
		errs = append(errs, fmt.Errorf("authorities.accounts contains duplicates: %s",
			strings.Join(lo.Map(dups, func(a common.Address, _ int) string { return a.Hex() }), ", ")))
	}

	switch {
	case raw.RequiredSignatures == 0:
		errs = append(errs, errors.New("authorities.required_signatures must be at least 1"))
	case int(raw.RequiredSignatures) > len(raw.Accounts):
		errs = append(errs, fmt.Errorf("authorities.required_signatures (%d) exceeds number of accounts (%d)",
			raw.RequiredSignatures, len(raw.Accounts)))
	}

	if len(errs) > 0 {
		return config.Authorities{}, errors.Join(errs...)
	}

	return config.Authorities{
		Accounts:           accounts,
		RequiredSignatures: raw.RequiredSignatures,
	}, nil
}

func toTransactions(raw *transactionsFile) config.Transactions {
	if raw == nil {
		return config.Transactions{}
	}
	return config.Transactions{
		HomeDeploy:      toTransactionConfig(raw.HomeDeploy),
		ForeignDeploy:   toTransactionConfig(raw.ForeignDeploy),
		DepositRelay:    toTransactionConfig(raw.DepositRelay),
		WithdrawConfirm: toTransactionConfig(raw.WithdrawConfirm),
		WithdrawRelay:   toTransactionConfig(raw.WithdrawRelay),
	}
}

func toTransactionConfig(raw *transactionFile) config.TransactionConfig {
	if raw == nil {
		return config.TransactionConfig{}
	}
	return config.TransactionConfig{
		Gas:      lo.FromPtr(raw.Gas),
		GasPrice: lo.FromPtr(raw.GasPrice),
	}
}

// loadContractBin reads a hex encoded compiled contract
func loadContractBin(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open compiled contract file at %s: %w", path, err)
	}

	encoded := strings.TrimSpace(string(data))
	if !strings.HasPrefix(encoded, "0x") && !strings.HasPrefix(encoded, "0X") {
		encoded = "0x" + encoded
	}

	bin, err := hexutil.Decode(encoded)
	if err != nil {
		return nil, fmt.Errorf("invalid hex in %s: %w", path, err)
	}
	if len(bin) == 0 {
		return nil, fmt.Errorf("compiled contract file %s is empty", path)
	}
	return bin, nil
}

func parseAddress(field, value string) (common.Address, error) {
	if !common.IsHexAddress(value) {
		return common.Address{}, fmt.Errorf("%s: %w: %q", field, domain.ErrInvalidAddress, value)
	}
	return common.HexToAddress(value), nil
}

func parseUint256(field, value string) (*big.Int, error) {
	if value == "" {
		return nil, fmt.Errorf("%s is required", field)
	}
	n, ok := math.ParseBig256(value)
	if !ok || n.Sign() < 0 {
		return nil, fmt.Errorf("%s: %q is not a 256-bit unsigned integer", field, value)
	}
	return n, nil
}

func secondsOr(value *uint64, def time.Duration) time.Duration {
	if value == nil {
		return def
	}
	return time.Duration(*value) * time.Second
}

func resolvePath(baseDir, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(baseDir, path)
}
