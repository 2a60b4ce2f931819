package interactive

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/manifoldco/promptui"
	"github.com/trebuchet-org/bridge/internal/domain/config"
	"github.com/trebuchet-org/bridge/internal/usecase"
)

// ConfirmerAdapter asks the operator to approve a fresh deployment
type ConfirmerAdapter struct {
	config *config.RuntimeConfig
	out    io.Writer
	prompt func(label string) (string, error)
}

// NewConfirmerAdapter creates a new confirmer adapter
func NewConfirmerAdapter(cfg *config.RuntimeConfig, out io.Writer) *ConfirmerAdapter {
	return &ConfirmerAdapter{
		config: cfg,
		out:    out,
		prompt: runConfirmPrompt,
	}
}

// ConfirmDeploy prints the deployment plan and asks for a yes/no answer
func (c *ConfirmerAdapter) ConfirmDeploy(ctx context.Context, plan []usecase.DeployPlanEntry) (bool, error) {
	if c.config.NonInteractive || c.config.AssumeYes {
		return true, nil
	}

	bold := color.New(color.Bold)
	bold.Fprintln(c.out, "No deployment record found. The bridge contract will be deployed on:")
	for _, entry := range plan {
		fmt.Fprintf(c.out, "  %s  from %s, gas %s, gas price %s, %d bytes, %d confirmations\n",
			color.New(color.FgCyan).Sprintf("%-8s", entry.Network),
			entry.From.Hex(),
			orNodeDefault(entry.Gas),
			orNodeDefault(entry.GasPrice),
			entry.BytecodeSize,
			entry.RequiredConfirmations)
	}

	_, err := c.prompt("Deploy now (this spends funds on both networks)")
	if err != nil {
		if errors.Is(err, promptui.ErrAbort) {
			return false, nil
		}
		return false, fmt.Errorf("input cancelled: %w", err)
	}
	return true, nil
}

func runConfirmPrompt(label string) (string, error) {
	prompt := promptui.Prompt{
		Label:     label,
		IsConfirm: true,
	}
	return prompt.Run()
}

func orNodeDefault(v uint64) string {
	if v == 0 {
		return "node default"
	}
	return fmt.Sprintf("%d", v)
}

// Ensure ConfirmerAdapter implements DeployConfirmer
var _ usecase.DeployConfirmer = (*ConfirmerAdapter)(nil)
