package app

import (
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/andyballingall/clang-checks/internal/config"
	"github.com/andyballingall/clang-checks/internal/fs"
	"github.com/andyballingall/clang-checks/internal/repo"
	"github.com/andyballingall/clang-checks/internal/report"
	"github.com/andyballingall/clang-checks/internal/tool"
	"github.com/andyballingall/clang-checks/internal/validator"
)

// Version is the current version of the checkers, set at build time.
var Version = "dev"

// ConfigEnvVar names a config file to use instead of the one in the repository root.
const ConfigEnvVar = "CLANG_CHECKS_CONFIG"

// NewRootCmd creates the command for program p and wires up dependencies.
func NewRootCmd(
	p Program, lazy *LazyManager, ll *slog.LevelVar, stderr io.Writer, env fs.EnvProvider,
) *cobra.Command {
	var debug bool
	var noColour bool
	var verbose bool
	var watch bool
	var noDiff bool
	var printOutput bool
	var baseBranch string
	var toolPath pathValue
	var configPath pathValue
	var dir pathValue
	vcs := vcsValue("")
	outputVal := formatValue(report.FormatText)

	rootCmd := &cobra.Command{
		Use:           p.Name + " [files...]",
		Short:         p.Short,
		Long:          p.Long,
		Version:       Version,
		Args:          cobra.ArbitraryArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// 1. Setup Logging
			if debug {
				ll.Set(slog.LevelDebug)
			}
			// Skip if already initialised (e.g., in tests)
			if lazy.HasInner() {
				return nil
			}

			// 2. Find the repository
			workDir := string(dir)
			root, err := repo.DiscoverRoot(cmd.Context(), repo.Backend(vcs), workDir)
			if err != nil {
				return err
			}

			cacheDir, _ := os.UserCacheDir()
			logger, _, err := setupLogger(stderr, ll, root, cacheDir, env)
			if err != nil {
				logger.Warn("logging to file disabled", "error", err)
			}

			// 3. Load configuration; flags override the file
			loader, err := config.NewLoader(validator.NewSanthoshCompiler())
			if err != nil {
				return err
			}
			cfgPath := string(configPath)
			if cfgPath == "" {
				cfgPath = env.Get(ConfigEnvVar)
			}
			cfg, err := loader.Find(root, cfgPath)
			if err != nil {
				return err
			}
			if baseBranch != "" {
				cfg.BaseBranch = baseBranch
			}
			if vcs != "" {
				cfg.VCS = repo.Backend(vcs)
			}
			gitter, err := repo.NewGitter(cfg.VCS, root)
			if err != nil {
				return err
			}
			logger.Debug("configuration loaded", "path", cfg.Path, "root", root,
				"baseBranch", cfg.BaseBranch, "vcs", cfg.VCS)

			// 4. Hydrate the Lazy Wrapper
			realMgr := NewCLIManager(logger, p, cfg, tool.NewFinder(workDir), tool.NewExecRunner(root), gitter,
				root, workDir, cmd.OutOrStdout())
			lazy.SetInner(realMgr)

			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := CheckOptions{
				ToolPath:   string(toolPath),
				Files:      args,
				Format:     report.Format(outputVal),
				ShowOutput: printOutput,
				Verbose:    verbose,
				UseColour:  report.UseColour(cmd.OutOrStdout(), env, noColour),
			}
			if !p.analyzer {
				opts.ShowOutput = !noDiff
			}

			if watch {
				return lazy.Watch(cmd.Context(), opts, nil)
			}
			return lazy.Check(cmd.Context(), opts)
		},
	}

	flags := rootCmd.Flags()
	flags.VarP(&toolPath, p.PathFlag, "c", "path to "+p.Tool+" (default: search PATH)")
	if p.analyzer {
		flags.BoolVar(&printOutput, "print-output", false, "print output from "+p.Tool)
	} else {
		flags.BoolVar(&noDiff, "no-diff", false, "don't print the suggested changes")
	}
	flags.StringVarP(&baseBranch, "base", "b", "", "branch to compare against (default: develop, or baseBranch in config)")
	flags.Var(&configPath, "config", "config file (default: "+config.FileName+" in the repository root)")
	flags.Var(&vcs, "vcs", "version control backend (cli, go-git)")
	flags.VarP(&dir, "directory", "C", "run as if started in this directory")
	flags.VarP(&outputVal, "output", "o", "Output format (text, json)")
	flags.BoolVarP(&verbose, "verbose", "v", false, "List every checked file in the summary")
	flags.BoolVarP(&watch, "watch", "w", false, "Watch for changes and recheck edited files")

	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "Enable debug logging")

	rootCmd.PersistentFlags().BoolVar(&noColour, "nocolour", false, "Disable colour in output")
	// Support alternate spellings
	rootCmd.PersistentFlags().BoolVar(&noColour, "nocolor", false, "")
	rootCmd.PersistentFlags().BoolVar(&noColour, "noColor", false, "")
	rootCmd.PersistentFlags().BoolVar(&noColour, "noColour", false, "")
	_ = rootCmd.PersistentFlags().MarkHidden("nocolor")
	_ = rootCmd.PersistentFlags().MarkHidden("noColor")
	_ = rootCmd.PersistentFlags().MarkHidden("noColour")

	return rootCmd
}
