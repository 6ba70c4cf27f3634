package pipeline

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/theirongolddev/holdcalc/internal/assets"
	"github.com/theirongolddev/holdcalc/internal/model"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// ErrNoScenarios is returned when a scenario file holds no entries.
var ErrNoScenarios = errors.New("no scenarios found")

// Scenario is one named portfolio to project.
type Scenario struct {
	Name      string          `json:"name" yaml:"name"`
	Portfolio model.Portfolio `json:"portfolio" yaml:"portfolio"`
}

// amount decodes a number, a string or null into a decimal using the
// permissive amount coercion.
type amount decimal.Decimal

func (a *amount) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: amount must be a scalar", n.Line)
	}
	if n.Tag == "!!null" {
		*a = amount(decimal.Zero)
		return nil
	}
	*a = amount(assets.ParseAmount(n.Value))
	return nil
}

func (a *amount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*a = amount(decimal.Zero)
		return nil
	}
	s := string(data)
	if len(data) > 0 && data[0] == '"' {
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
	}
	*a = amount(assets.ParseAmount(s))
	return nil
}

type rawScenario struct {
	Name       string `json:"name" yaml:"name"`
	Vehicles   amount `json:"vehicles" yaml:"vehicles"`
	RealEstate amount `json:"real_estate" yaml:"real_estate"`
	Cash       amount `json:"cash" yaml:"cash"`
}

type scenarioFile struct {
	Scenarios []rawScenario `json:"scenarios" yaml:"scenarios"`
}

func (r rawScenario) scenario(idx int) Scenario {
	name := strings.TrimSpace(r.Name)
	if name == "" {
		name = "scenario-" + strconv.Itoa(idx+1)
	}
	return Scenario{
		Name: name,
		Portfolio: model.Portfolio{
			Vehicles:   decimal.Decimal(r.Vehicles),
			RealEstate: decimal.Decimal(r.RealEstate),
			Cash:       decimal.Decimal(r.Cash),
		},
	}
}

// LoadFile reads scenarios from a .yaml, .yml, .json or .csv file.
func LoadFile(path string) ([]Scenario, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	format := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	scenarios, err := Decode(f, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return scenarios, nil
}

// Decode reads scenarios in the given format: yaml, yml, json or csv.
func Decode(r io.Reader, format string) ([]Scenario, error) {
	var raw []rawScenario
	switch format {
	case "yaml", "yml":
		var sf scenarioFile
		if err := yaml.NewDecoder(r).Decode(&sf); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("decoding yaml: %w", err)
		}
		raw = sf.Scenarios
	case "json":
		var sf scenarioFile
		if err := json.NewDecoder(r).Decode(&sf); err != nil {
			return nil, fmt.Errorf("decoding json: %w", err)
		}
		raw = sf.Scenarios
	case "csv":
		var err error
		raw, err = decodeCSV(r)
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported scenario format %q", format)
	}

	if len(raw) == 0 {
		return nil, ErrNoScenarios
	}
	out := make([]Scenario, len(raw))
	for i, rs := range raw {
		out[i] = rs.scenario(i)
	}
	return out, nil
}

// decodeCSV expects a header row naming the columns; name and any of the
// asset columns may be missing.
func decodeCSV(r io.Reader) ([]rawScenario, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading csv header: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}

	cell := func(rec []string, name string) string {
		i, ok := cols[name]
		if !ok || i >= len(rec) {
			return ""
		}
		return rec[i]
	}

	var out []rawScenario
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading csv: %w", err)
		}
		out = append(out, rawScenario{
			Name:       cell(rec, "name"),
			Vehicles:   amount(assets.ParseAmount(cell(rec, "vehicles"))),
			RealEstate: amount(assets.ParseAmount(cell(rec, "real_estate"))),
			Cash:       amount(assets.ParseAmount(cell(rec, "cash"))),
		})
	}
	return out, nil
}
