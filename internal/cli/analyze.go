package cli

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"

	appanalysis "github.com/bryanwahyu/wireframe-extract/internal/application/analysis"
	domain "github.com/bryanwahyu/wireframe-extract/internal/domain/analysis"
)

// dirFlags --input / --output overrides
type dirFlags struct {
	input  string
	output string
}

func (d *dirFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&d.input, "input", "", "Screenshot folder (overrides the default layout)")
	cmd.Flags().StringVar(&d.output, "output", "", "Output folder (overrides the default layout)")
}

func newImageCmd(root *rootFlags) *cobra.Command {
	dirs := &dirFlags{}
	cmd := &cobra.Command{
		Use:   "image [subject]",
		Short: "Comprehensive UI analysis of the first screenshot in input/screenshots",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := orDefault(dirs.input, filepath.Join(root.cfg.Paths.InputDir, "screenshots"))
			subject := domain.DisplayName(input)
			if len(args) == 1 {
				subject = args[0]
			}
			return runAnalyze(cmd, root, domain.ModeImage, subject, input, dirs.output)
		},
	}
	dirs.register(cmd)
	return cmd
}

func newFeatureCmd(root *rootFlags) *cobra.Command {
	dirs := &dirFlags{}
	cmd := &cobra.Command{
		Use:   "feature <name>",
		Short: "Analyze every screenshot of input/feature-<name> as one feature",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := orDefault(dirs.input, filepath.Join(root.cfg.Paths.InputDir, "feature-"+args[0]))
			return runAnalyze(cmd, root, domain.ModeFeature, domain.DisplayName(args[0]), input, dirs.output)
		},
	}
	dirs.register(cmd)
	return cmd
}

func newScreenCmd(root *rootFlags) *cobra.Command {
	dirs := &dirFlags{}
	cmd := &cobra.Command{
		Use:   "screen <name>",
		Short: "Analyze the states of one screen in input/screen-<name>",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := orDefault(dirs.input, filepath.Join(root.cfg.Paths.InputDir, "screen-"+args[0]))
			return runAnalyze(cmd, root, domain.ModeScreen, domain.DisplayName(args[0]), input, dirs.output)
		},
	}
	dirs.register(cmd)
	return cmd
}

func runAnalyze(cmd *cobra.Command, root *rootFlags, mode domain.Mode, subject, input, output string) error {
	ctx := cmd.Context()
	app, err := root.app(ctx)
	if err != nil {
		return err
	}
	defer app.Close()

	output = orDefault(output, filepath.Join(root.cfg.Paths.OutputDir, domain.Slug(subject)))
	res, paths, err := app.Service.Analyze(ctx, appanalysis.AnalyzeCommand{
		Mode:      mode,
		Subject:   subject,
		Folder:    input,
		OutputDir: output,
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Analyzed %d image(s) for %q with %s/%s\n", len(res.ImagesAnalyzed), res.SubjectName, res.Provider, res.ModelUsed)
	printUsage(out, res.Metadata)
	for _, p := range paths {
		fmt.Fprintf(out, "  %s\n", p)
	}
	return nil
}

func printUsage(out io.Writer, m domain.Metadata) {
	if m.CostEstimateUSD != nil {
		fmt.Fprintf(out, "Tokens: %d (prompt %d, completion %d), estimated cost $%.4f\n", m.TokensUsed, m.PromptTokens, m.CompletionTokens, *m.CostEstimateUSD)
		return
	}
	fmt.Fprintf(out, "Tokens: %d (prompt %d, completion %d)\n", m.TokensUsed, m.PromptTokens, m.CompletionTokens)
}

func orDefault(v, def string) string {
	if v != "" {
		return v
	}
	return def
}
