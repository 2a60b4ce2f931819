package adapters

import (
	"os"

	"github.com/google/wire"
	"github.com/trebuchet-org/bridge/internal/adapters/blockchain"
	"github.com/trebuchet-org/bridge/internal/adapters/fs"
	"github.com/trebuchet-org/bridge/internal/adapters/interactive"
	"github.com/trebuchet-org/bridge/internal/adapters/progress"
	"github.com/trebuchet-org/bridge/internal/domain/config"
	"github.com/trebuchet-org/bridge/internal/usecase"
)

// ProvideProgressSink provides a spinner in interactive mode and a no-op sink otherwise.
// The cleanup stops the spinner if a deployment ends early.
func ProvideProgressSink(cfg *config.RuntimeConfig) (usecase.ProgressSink, func()) {
	if cfg.NonInteractive {
		return usecase.NopProgress{}, func() {}
	}
	reporter := progress.NewSpinnerProgressReporter(os.Stderr)
	return reporter, reporter.Stop
}

// ProvideConfirmer provides the deployment confirmation prompt on stderr
func ProvideConfirmer(cfg *config.RuntimeConfig) *interactive.ConfirmerAdapter {
	return interactive.NewConfirmerAdapter(cfg, os.Stderr)
}

// FSSet provides filesystem-based implementations
var FSSet = wire.NewSet(
	fs.NewRecordStoreAdapter,
	wire.Bind(new(usecase.DeploymentRecordStore), new(*fs.RecordStoreAdapter)),
)

// BlockchainSet provides blockchain-based implementations
var BlockchainSet = wire.NewSet(
	blockchain.NewConnections,
	wire.Bind(new(usecase.NetworkConnections), new(*blockchain.Connections)),

	blockchain.NewConfirmationWaiter,
	wire.Bind(new(usecase.ConfirmationWaiter), new(*blockchain.ConfirmationWaiter)),
)

// InteractiveSet provides interactive implementations
var InteractiveSet = wire.NewSet(
	ProvideProgressSink,
	ProvideConfirmer,
	wire.Bind(new(usecase.DeployConfirmer), new(*interactive.ConfirmerAdapter)),
)

// AllAdapters includes all adapter sets
var AllAdapters = wire.NewSet(
	FSSet,
	BlockchainSet,
	InteractiveSet,
)
