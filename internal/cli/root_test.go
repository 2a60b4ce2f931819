package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeNode answers the JSON-RPC calls of one deployment
func fakeNode(t *testing.T, chainID, block uint64, contract string) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var sent atomic.Int32
	txHash := "0x" + strings.Repeat("cd", 32)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			ID     json.RawMessage `json:"id"`
			Method string          `json:"method"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		var result any
		switch req.Method {
		case "eth_chainId":
			result = fmt.Sprintf("0x%x", chainID)
		case "eth_sendTransaction":
			sent.Add(1)
			result = txHash
		case "eth_getTransactionReceipt":
			result = map[string]any{
				"status":            "0x1",
				"cumulativeGasUsed": "0x1",
				"logsBloom":         "0x" + strings.Repeat("0", 512),
				"logs":              []any{},
				"transactionHash":   txHash,
				"contractAddress":   contract,
				"gasUsed":           "0x1",
				"blockNumber":       fmt.Sprintf("0x%x", block),
			}
		case "eth_blockNumber":
			result = fmt.Sprintf("0x%x", block)
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"jsonrpc": "2.0", "id": req.ID, "result": result})
	}))
	t.Cleanup(srv.Close)
	return srv, &sent
}

func writeBridgeConfig(t *testing.T, homeURL, foreignURL string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Bridge.bin"), []byte("6080604052"), 0644))

	content := fmt.Sprintf(`
address = "0x00000000000000000000000000000000000000ff"
estimated_gas_cost_of_withdraw = "0"
max_total_home_contract_balance = "1000"
max_single_deposit_value = "10"

[home]
http = %q
poll_interval = 1
required_confirmations = 0
contract = { bin = "Bridge.bin" }

[foreign]
http = %q
poll_interval = 1
required_confirmations = 0
contract = { bin = "Bridge.bin" }

[authorities]
accounts = ["0x00000000000000000000000000000000000000ff"]
required_signatures = 1
`, homeURL, foreignURL)

	path := filepath.Join(dir, "bridge.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestVersionCmd(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "bridge version dev (commit unknown, built unknown)\n", out)
}

func TestDeployCmd(t *testing.T) {
	home, homeSent := fakeNode(t, 77, 120, "0x1111111111111111111111111111111111111111")
	foreign, foreignSent := fakeNode(t, 99, 8, "0x2222222222222222222222222222222222222222")
	configPath := writeBridgeConfig(t, home.URL, foreign.URL)
	dbPath := filepath.Join(t.TempDir(), "bridge-db.toml")

	out, err := execute(t, "deploy", "--non-interactive", "-c", configPath, "-d", dbPath, "--format", "json")
	require.NoError(t, err)

	var printed map[string]map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &printed))
	assert.Equal(t, float64(120), printed["home"]["deployBlockNumber"])
	assert.Equal(t, float64(8), printed["foreign"]["lastBlockNumber"])
	assert.FileExists(t, dbPath)
	assert.Equal(t, int32(1), homeSent.Load())
	assert.Equal(t, int32(1), foreignSent.Load())

	// A second run finds the record and sends nothing
	out, err = execute(t, "deploy", "--non-interactive", "-c", configPath, "-d", dbPath)
	require.NoError(t, err)
	assert.Contains(t, out, "already deployed")
	assert.Equal(t, int32(1), homeSent.Load())
	assert.Equal(t, int32(1), foreignSent.Load())

	out, err = execute(t, "show", "-d", dbPath, "--network", "foreign", "--format", "yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "foreign:")
	assert.NotContains(t, out, "home:")
	assert.Contains(t, out, "0x2222222222222222222222222222222222222222")
}

func TestDeployCmdUnreachableNode(t *testing.T) {
	home, homeSent := fakeNode(t, 1, 1, "0x1111111111111111111111111111111111111111")
	down := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusBadGateway)
	}))
	defer down.Close()

	configPath := writeBridgeConfig(t, home.URL, down.URL)
	dbPath := filepath.Join(t.TempDir(), "bridge-db.toml")

	_, err := execute(t, "deploy", "--non-interactive", "-c", configPath, "-d", dbPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "foreign network")
	assert.NoFileExists(t, dbPath)
	assert.Equal(t, int32(0), homeSent.Load())
}

func TestShowCmd(t *testing.T) {
	t.Run("missing record", func(t *testing.T) {
		dbPath := filepath.Join(t.TempDir(), "bridge-db.toml")
		_, err := execute(t, "show", "-d", dbPath)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not deployed yet")
	})

	t.Run("unknown network", func(t *testing.T) {
		_, err := execute(t, "show", "--network", "sidechain")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown network")
	})

	t.Run("unknown format", func(t *testing.T) {
		_, err := execute(t, "show", "--format", "xml")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unsupported format")
	})
}
