package sheetmatch

import (
	"fmt"
	"os"

	"github.com/ukaji3/sheetmatch-go/pkg/sheetmatch/models"
	"gopkg.in/yaml.v3"
)

// Model is the outcome of a training run.
type Model struct {
	// Workbook is the root spreadsheet the model was trained on.
	Workbook string `yaml:"workbook"`
	// NestedDir holds the spreadsheets forwarded to.
	NestedDir string `yaml:"nested_dir,omitempty"`
	// NamePaths holds the identifying-field path of every record type.
	NamePaths []string `yaml:"name_paths"`
	// Mappings holds the winning expression of every learned path.
	Mappings   []models.Mapping   `yaml:"mappings"`
	Ambiguous  []string           `yaml:"ambiguous,omitempty"`
	Unmatched  []string           `yaml:"unmatched,omitempty"`
	Histograms []models.Histogram `yaml:"histograms,omitempty"`
}

// Expressions maps every learned tree path to its expression.
func (m *Model) Expressions() map[string]string {
	out := make(map[string]string, len(m.Mappings))
	for _, mp := range m.Mappings {
		out[mp.Tree] = mp.Sink
	}
	return out
}

// TreePaths returns the learned tree paths in training order.
func (m *Model) TreePaths() []string {
	out := make([]string, 0, len(m.Mappings))
	for _, mp := range m.Mappings {
		out = append(out, mp.Tree)
	}
	return out
}

// SaveModel writes m as YAML.
func SaveModel(path string, m *Model) error {
	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("unable to encode model: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("unable to write model: %w", err)
	}
	return nil
}

// LoadModel reads a model written by SaveModel.
func LoadModel(path string) (*Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to read model: %w", err)
	}
	m := new(Model)
	if err := yaml.Unmarshal(data, m); err != nil {
		return nil, fmt.Errorf("unable to decode model: %w", err)
	}
	return m, nil
}
