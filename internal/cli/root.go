package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/bryanwahyu/wireframe-extract/internal/bootstrap"
	"github.com/bryanwahyu/wireframe-extract/internal/config"
)

// rootFlags holds the persistent flags shared by every command
type rootFlags struct {
	configPath string
	envFile    string
	provider   string
	model      string

	cfg *config.Config
}

func NewRoot() *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:           "wireframe",
		Short:         "Extract UI/UX structure and wireframes from application screenshots",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Priority: flags > ENV > config.yaml > defaults
			if err := config.LoadEnvFile(flags.envFile); err != nil {
				return err
			}
			path := flags.configPath
			if path == "" {
				path = os.Getenv("CONFIG_PATH")
			}
			if path == "" {
				path = "config.yaml"
			}
			cfg, err := config.Load(path)
			if err != nil {
				return fmt.Errorf("config load: %w", err)
			}
			cfg.ApplyEnv()
			if flags.provider != "" {
				cfg.Provider = flags.provider
			}
			if flags.model != "" {
				cfg.Model = flags.model
			}
			flags.cfg = cfg
			return nil
		},
		RunE: func(c *cobra.Command, _ []string) error { return c.Help() },
	}

	cmd.PersistentFlags().StringVar(&flags.configPath, "config", "", "Path to config.yaml (default $CONFIG_PATH or ./config.yaml)")
	cmd.PersistentFlags().StringVar(&flags.envFile, "env-file", ".env", "Path to a .env file with provider API keys")
	cmd.PersistentFlags().StringVar(&flags.provider, "provider", "", "AI provider: openai, openrouter or local")
	cmd.PersistentFlags().StringVar(&flags.model, "model", "", "Model name sent to the provider")

	cmd.AddCommand(newImageCmd(flags))
	cmd.AddCommand(newFeatureCmd(flags))
	cmd.AddCommand(newScreenCmd(flags))
	cmd.AddCommand(newProjectCmd(flags))
	cmd.AddCommand(newFeaturesCmd(flags))
	return cmd
}

// app builds the wired application on the local filesystem
func (f *rootFlags) app(ctx context.Context) (*bootstrap.App, error) {
	return bootstrap.New(ctx, f.cfg, afero.NewOsFs())
}

// Run executes the CLI and returns the process exit code
func Run(args []string) int {
	root := NewRoot()
	root.SetArgs(args)
	if err := root.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(root.ErrOrStderr(), "error: %s\n", strings.TrimSpace(err.Error()))
		return 1
	}
	return 0
}
