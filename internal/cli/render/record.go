package render

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/trebuchet-org/bridge/internal/domain"
	"github.com/trebuchet-org/bridge/internal/domain/models"
	"github.com/trebuchet-org/bridge/internal/usecase"
)

// Output formats supported by RecordRenderer
const (
	FormatTable = "table"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
)

// Formats lists the accepted values of --format
var Formats = []string{FormatTable, FormatJSON, FormatYAML}

// RecordRenderer renders a deployment record
type RecordRenderer struct {
	out    io.Writer
	format string
}

var _ Renderer[*usecase.ShowDeploymentResult] = (*RecordRenderer)(nil)

// NewRecordRenderer creates a new record renderer for one of Formats
func NewRecordRenderer(out io.Writer, format string) (*RecordRenderer, error) {
	switch format {
	case "", FormatTable:
		format = FormatTable
	case FormatJSON, FormatYAML:
	default:
		return nil, fmt.Errorf("unsupported format %q (expected one of %v)", format, Formats)
	}
	return &RecordRenderer{out: out, format: format}, nil
}

// Render writes the selected networks of the record
func (r *RecordRenderer) Render(result *usecase.ShowDeploymentResult) error {
	switch r.format {
	case FormatJSON:
		return r.renderJSON(result)
	case FormatYAML:
		return r.renderYAML(result)
	default:
		return r.renderTable(result)
	}
}

// selected returns the record filtered to the requested networks, keyed by name
func selected(result *usecase.ShowDeploymentResult) map[string]models.ChainState {
	out := make(map[string]models.ChainState, len(result.Networks))
	for _, network := range result.Networks {
		out[network.String()] = result.Record.State(network)
	}
	return out
}

func (r *RecordRenderer) renderJSON(result *usecase.ShowDeploymentResult) error {
	data, err := json.MarshalIndent(selected(result), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal record: %w", err)
	}
	_, err = fmt.Fprintln(r.out, string(data))
	return err
}

func (r *RecordRenderer) renderYAML(result *usecase.ShowDeploymentResult) error {
	enc := yaml.NewEncoder(r.out)
	enc.SetIndent(2)
	if err := enc.Encode(selected(result)); err != nil {
		return fmt.Errorf("failed to marshal record: %w", err)
	}
	return enc.Close()
}

func (r *RecordRenderer) renderTable(result *usecase.ShowDeploymentResult) error {
	title := cases.Title(language.English)

	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Network", "Bridge Contract", "Deploy Block", "Last Block"})
	for _, network := range result.Networks {
		state := result.Record.State(network)
		t.AppendRow(table.Row{
			color.New(color.FgCyan, color.Bold).Sprint(title.String(network.String())),
			color.New(color.FgYellow).Sprint(state.BridgeContractAddress.Hex()),
			state.DeployBlockNumber,
			state.LastBlockNumber,
		})
	}

	if result.Path != "" {
		fmt.Fprintf(r.out, "Deployment record: %s\n", result.Path)
	}
	_, err := fmt.Fprintln(r.out, t.Render())
	return err
}

// RecordResult adapts a bare record to the renderer input, covering every network
func RecordResult(path string, record *models.DeploymentRecord) *usecase.ShowDeploymentResult {
	return &usecase.ShowDeploymentResult{
		Path:     path,
		Record:   record,
		Networks: domain.Networks,
	}
}
