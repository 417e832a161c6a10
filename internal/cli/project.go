package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	appanalysis "github.com/bryanwahyu/wireframe-extract/internal/application/analysis"
	"github.com/bryanwahyu/wireframe-extract/internal/domain/screenshots"
	"github.com/bryanwahyu/wireframe-extract/internal/infra/fs"
)

const projectDir = "project-analyze"

func newProjectCmd(root *rootFlags) *cobra.Command {
	dirs := &dirFlags{}
	cmd := &cobra.Command{
		Use:   "project <feature>",
		Short: "Three-stage wireframe extraction for input/project-analyze/<feature>",
		Long: `Runs pattern extraction on every screenshot, combines the patterns into a
wireframe and refines it. Writes one .dsl per screenshot, application_wireframe.dsl,
the analysis json/text, analysis_summary.md and a debug dump.

Examples:
  wireframe project review-management
  wireframe project checkout --input shots/checkout --output out/checkout`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			feature := args[0]
			input := orDefault(dirs.input, filepath.Join(root.cfg.Paths.InputDir, projectDir, feature))
			output := orDefault(dirs.output, filepath.Join(root.cfg.Paths.OutputDir, projectDir, feature))

			ctx := cmd.Context()
			app, err := root.app(ctx)
			if err != nil {
				return err
			}
			defer app.Close()

			p, err := app.Service.AnalyzeProject(ctx, appanalysis.ProjectCommand{
				Feature:   feature,
				Folder:    input,
				OutputDir: output,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Project %q: %d screenshot(s) analyzed with %s/%s\n", p.FeatureContext, len(p.PatternAnalyses), p.Result.Provider, p.Result.ModelUsed)
			printUsage(out, p.Result.Metadata)
			for _, o := range p.Outputs {
				fmt.Fprintf(out, "  %s\n", o)
			}
			return nil
		},
	}
	dirs.register(cmd)
	return cmd
}

// features lists the project folders with their screenshot counts
func newFeaturesCmd(root *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "features",
		Short: "List the features available under input/project-analyze",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			base := filepath.Join(root.cfg.Paths.InputDir, projectDir)
			fsys := afero.NewOsFs()
			entries, err := afero.ReadDir(fsys, base)
			if err != nil {
				if os.IsNotExist(err) {
					return fmt.Errorf("%w: %s", screenshots.ErrInputNotFound, base)
				}
				return err
			}

			loc := fs.NewLocator(fsys, root.cfg.Scan.Extensions).WithRecursive()
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "FEATURE\tSCREENSHOTS")
			for _, e := range entries {
				if !e.IsDir() {
					continue
				}
				files, err := loc.Scan(filepath.Join(base, e.Name()))
				if err != nil && !errors.Is(err, screenshots.ErrEmptyInput) {
					return err
				}
				fmt.Fprintf(w, "%s\t%d\n", e.Name(), len(files))
			}
			return w.Flush()
		},
	}
}
