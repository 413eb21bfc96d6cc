// Package main provides the CLI entry point for sheetmatch-go.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/ddddddO/gtree"
	"github.com/spf13/cobra"
	"github.com/ukaji3/sheetmatch-go/pkg/sheetmatch"
	"github.com/ukaji3/sheetmatch-go/pkg/sheetmatch/config"
)

var (
	configPath   string
	verbose      bool
	modelPath    string
	nestedDir    string
	templatePath string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "sheetmatch",
		Short: "Learn where tree data lives in spreadsheets and rebuild the tree",
		Long: `sheetmatch-go learns which spreadsheet cells hold the values of an XML
document and regenerates the document from spreadsheet contents.`,
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "config.toml", "Configuration file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log debug output")

	trainCmd := &cobra.Command{
		Use:   "train [source.xml] [sink.xlsx]",
		Short: "Learn the mapping from a tree document to a workbook",
		Args:  cobra.ExactArgs(2),
		RunE:  runTrain,
	}
	trainCmd.Flags().StringVarP(&modelPath, "model", "m", "model.yaml", "Output model file")
	trainCmd.Flags().StringVar(&nestedDir, "nested-dir", "", "Directory of forwarded workbooks (default: next to the sink)")

	templateCmd := &cobra.Command{
		Use:   "template [source.xml] [template.xml]",
		Short: "Collapse a tree document into a generation template",
		Args:  cobra.ExactArgs(2),
		RunE:  runTemplate,
	}

	generateCmd := &cobra.Command{
		Use:   "generate [output.xml]",
		Short: "Rebuild a tree document from a model, a template and the workbook",
		Args:  cobra.ExactArgs(1),
		RunE:  runGenerate,
	}
	generateCmd.Flags().StringVarP(&modelPath, "model", "m", "model.yaml", "Model file")
	generateCmd.Flags().StringVarP(&templatePath, "template", "t", "template.xml", "Template file")

	inspectCmd := &cobra.Command{
		Use:   "inspect [model.yaml]",
		Short: "Print the candidate votes of a model as a tree",
		Args:  cobra.ExactArgs(1),
		RunE:  runInspect,
	}

	rootCmd.AddCommand(trainCmd, templateCmd, generateCmd, inspectCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newMatcher(opts sheetmatch.Options) (*sheetmatch.Matcher, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	opts.Logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	return sheetmatch.New(cfg, opts), nil
}

func runTrain(cmd *cobra.Command, args []string) error {
	m, err := newMatcher(sheetmatch.DefaultOptions())
	if err != nil {
		return err
	}
	dir := nestedDir
	if dir == "" {
		dir = filepath.Dir(args[1])
	}
	model, err := m.Train(args[0], args[1], dir)
	if err != nil {
		return fmt.Errorf("training failed: %w", err)
	}
	if err := sheetmatch.SaveModel(modelPath, model); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "learned %d paths (%d ambiguous, %d unmatched)\n",
		len(model.Mappings), len(model.Ambiguous), len(model.Unmatched))
	return nil
}

func runTemplate(cmd *cobra.Command, args []string) error {
	m, err := newMatcher(sheetmatch.DefaultOptions())
	if err != nil {
		return err
	}
	return m.BuildTemplate(args[0], args[1])
}

func runGenerate(cmd *cobra.Command, args []string) error {
	model, err := sheetmatch.LoadModel(modelPath)
	if err != nil {
		return err
	}
	m, err := newMatcher(sheetmatch.Options{TemplatePath: templatePath})
	if err != nil {
		return err
	}
	m.SetModel(model)

	n, err := m.Generate(args[0])
	if err != nil {
		return fmt.Errorf("generation failed: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "generated %d records\n", n)
	return nil
}

func runInspect(cmd *cobra.Command, args []string) error {
	model, err := sheetmatch.LoadModel(args[0])
	if err != nil {
		return err
	}
	return printHistograms(cmd.OutOrStdout(), model)
}

// printHistograms writes every learned path with its candidates and votes.
func printHistograms(w io.Writer, model *sheetmatch.Model) error {
	if len(model.Histograms) == 0 {
		return fmt.Errorf("model %s has no candidate tables", model.Workbook)
	}
	root := gtree.NewRoot(model.Workbook)
	for _, h := range model.Histograms {
		label := h.Path
		if h.Ambiguous {
			label += " (ambiguous)"
		}
		node := root.Add(label)
		for _, b := range h.Bins {
			node.Add(fmt.Sprintf("%d  %s", b.Votes, b.Expression))
		}
	}
	return gtree.OutputProgrammably(w, root)
}
