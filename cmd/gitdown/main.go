package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/quantmind-br/gitdown/internal/app"
	"github.com/quantmind-br/gitdown/internal/config"
	"github.com/quantmind-br/gitdown/internal/domain"
	"github.com/quantmind-br/gitdown/internal/manifest"
	"github.com/quantmind-br/gitdown/internal/utils"
	"github.com/quantmind-br/gitdown/pkg/version"
)

var (
	cfgFile string
	verbose bool
	log     = utils.NewDefaultLogger()

	// Dependencies for testing
	osStat           = os.Stat
	execLookPath     = exec.LookPath
	internetCheckURL = "https://github.com"
	newFetcher       = func(cfg *config.Config) (*app.Fetcher, error) {
		return app.NewFetcher(app.FetcherOptions{Config: cfg, Verbose: verbose, Logger: log})
	}
)

// Exit codes
const (
	exitFailure          = 1
	exitInvalidReference = 2
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCode(err))
	}
}

// exitCode maps an error to the process exit status. Invalid references
// exit 2 whether they surface from a fetch or from manifest validation.
func exitCode(err error) int {
	if errors.Is(err, domain.ErrInvalidReference) {
		return exitInvalidReference
	}
	return exitFailure
}

var rootCmd = &cobra.Command{
	Use:   "gitdown <ref> [dest]",
	Short: "Fetch a repository by shorthand reference",
	Long: `gitdown resolves a shorthand repository reference and places the
repository's files in a local directory, without version control metadata.

References:
  owner/name                     GitHub, branch master
  github:owner/name#branch       GitHub
  gitlab:host:group/name#branch  GitLab on a custom host
  bitbucket:owner/name           Bitbucket
  direct:https://host/repo.git   any URL, used verbatim

By default the repository is cloned with git. With --download the provider's
zip archive is downloaded and extracted instead.`,
	Version:       version.Short(),
	Args:          cobra.MaximumNArgs(2),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          run,
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.gitdown/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().Bool("download", false, "Download and extract the archive instead of cloning")
	rootCmd.PersistentFlags().Bool("ssh", false, "Use SSH (git@host:owner/name) URLs")
	rootCmd.PersistentFlags().Bool("strict-cleanup", false, "Fail when .git cannot be removed after a clone")
	rootCmd.PersistentFlags().Duration("timeout", config.DefaultHTTPTimeout, "Archive download timeout")

	// Fetch flags
	rootCmd.Flags().StringArrayP("option", "O", nil, "Fetch option as key=value (repeatable)")
	rootCmd.Flags().StringArrayP("header", "H", nil, "HTTP header for downloads as name=value (repeatable)")

	// Bind flags to viper
	_ = viper.BindPFlag("ssh", rootCmd.PersistentFlags().Lookup("ssh"))
	_ = viper.BindPFlag("strict_cleanup", rootCmd.PersistentFlags().Lookup("strict-cleanup"))
	_ = viper.BindPFlag("http.timeout", rootCmd.PersistentFlags().Lookup("timeout"))

	batchCmd.Flags().Bool("continue-on-error", false, "Keep going after a source fails")
	initCmd.Flags().Bool("force", false, "Overwrite an existing config file")
	batchCmd.Flags().String("format", "yaml", "Manifest format when reading from stdin (yaml, json, toml)")

	// Add subcommands
	rootCmd.AddCommand(resolveCmd)
	rootCmd.AddCommand(batchCmd)
	rootCmd.AddCommand(doctorCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(versionCmd)
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	}
}

// loadConfig reads the configuration and applies flags that have no direct
// viper key
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if download, _ := cmd.Flags().GetBool("download"); download {
		cfg.Mode = config.ModeDownload
	}
	if verbose {
		cfg.Logging.Level = "debug"
	}

	log = utils.NewLogger(utils.LoggerOptions{
		Level:   cfg.Logging.Level,
		Format:  cfg.Logging.Format,
		Verbose: verbose,
	})
	return cfg, nil
}

// signalContext returns a context cancelled on SIGINT or SIGTERM
func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		select {
		case <-sigCh:
			log.Info().Msg("Shutting down gracefully...")
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigCh)
	}()

	return ctx, cancel
}

// parseKeyValues turns repeated key=value flags into a map
func parseKeyValues(pairs []string) (map[string]string, error) {
	out := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid key=value pair %q", pair)
		}
		out[key] = value
	}
	return out, nil
}

// callOptions builds the per-call option layer from --option and --header
func callOptions(cmd *cobra.Command) (map[string]any, error) {
	rawOpts, _ := cmd.Flags().GetStringArray("option")
	rawHeaders, _ := cmd.Flags().GetStringArray("header")

	opts, err := parseKeyValues(rawOpts)
	if err != nil {
		return nil, fmt.Errorf("--option: %w", err)
	}
	headers, err := parseKeyValues(rawHeaders)
	if err != nil {
		return nil, fmt.Errorf("--header: %w", err)
	}

	callOpts := make(map[string]any, len(opts)+1)
	for k, v := range opts {
		callOpts[strings.ToLower(k)] = v
	}
	if len(headers) > 0 {
		callOpts["headers"] = headers
	}
	return callOpts, nil
}

func run(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return cmd.Help()
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	callOpts, err := callOptions(cmd)
	if err != nil {
		return err
	}

	fetcher, err := newFetcher(cfg)
	if err != nil {
		return fmt.Errorf("failed to create fetcher: %w", err)
	}

	ctx, cancel := signalContext()
	defer cancel()

	var dest string
	if len(args) > 1 {
		dest = args[1]
	}

	result, err := fetcher.FetchWithOptions(ctx, args[0], dest, callOpts)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s -> %s (%s)\n", result.URL, result.LocalPath, result.Method)
	return nil
}

var resolveCmd = &cobra.Command{
	Use:   "resolve <ref>",
	Short: "Print the URL a reference resolves to",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		fetcher, err := newFetcher(cfg)
		if err != nil {
			return fmt.Errorf("failed to create fetcher: %w", err)
		}

		url, err := fetcher.Resolve(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), url)
		return nil
	},
}

var batchCmd = &cobra.Command{
	Use:   "batch <manifest>",
	Short: "Fetch every source listed in a manifest file",
	Long: `Fetch every source listed in a YAML, JSON or TOML manifest. Use "-" to
read the manifest from standard input.

Example manifest:

  sources:
    - ref: github:org/repo#v1.2.0
      dest: vendor/repo
    - ref: gitlab:group/project
  options:
    continue_on_error: true
    output: ./third_party`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		var manifestCfg *manifest.Config
		if args[0] == "-" {
			format, _ := cmd.Flags().GetString("format")
			manifestCfg, err = manifest.NewLoader().LoadReader(cmd.InOrStdin(), "."+strings.TrimPrefix(format, "."))
		} else {
			manifestCfg, err = manifest.NewLoader().Load(args[0])
		}
		if err != nil {
			return fmt.Errorf("failed to load manifest: %w", err)
		}
		if cmd.Flags().Changed("continue-on-error") {
			manifestCfg.Options.ContinueOnError, _ = cmd.Flags().GetBool("continue-on-error")
		}

		fetcher, err := newFetcher(cfg)
		if err != nil {
			return fmt.Errorf("failed to create fetcher: %w", err)
		}

		ctx, cancel := signalContext()
		defer cancel()

		results, err := fetcher.FetchAll(ctx, manifestCfg)
		out := cmd.OutOrStdout()
		for _, r := range results {
			if r.Error != nil {
				fmt.Fprintf(out, "FAIL %s: %v\n", r.Source.Ref, r.Error)
				continue
			}
			fmt.Fprintf(out, "OK   %s -> %s\n", r.Source.Ref, r.Dest)
		}
		return err
	},
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check the environment",
	Long:  "Verifies network access, write permissions and configuration.",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "Checking environment...")
		allPassed := true

		fmt.Fprint(out, "  Internet connection: ")
		if checkInternet(internetCheckURL) {
			fmt.Fprintln(out, "OK")
		} else {
			fmt.Fprintln(out, "FAILED")
			allPassed = false
		}

		// Cloning uses go-git; the binary is informational
		fmt.Fprint(out, "  git binary: ")
		if gitPath := checkGit(); gitPath != "" {
			fmt.Fprintf(out, "OK (%s)\n", gitPath)
		} else {
			fmt.Fprintln(out, "NOT FOUND (not required)")
		}

		fmt.Fprint(out, "  Write permissions: ")
		if checkWritePermissions() {
			fmt.Fprintln(out, "OK")
		} else {
			fmt.Fprintln(out, "FAILED")
			allPassed = false
		}

		fmt.Fprint(out, "  Config file: ")
		if _, v, err := config.LoadWithViper(cfgFile); err != nil {
			fmt.Fprintf(out, "WARN (%v)\n", err)
		} else if used := v.ConfigFileUsed(); used != "" {
			fmt.Fprintf(out, "OK (%s)\n", used)
		} else {
			fmt.Fprintln(out, "OK (defaults)")
		}

		fmt.Fprint(out, "  Config directory: ")
		if dir := config.ConfigDir(); checkDir(dir) {
			fmt.Fprintf(out, "OK (%s)\n", dir)
		} else {
			fmt.Fprintln(out, "WARN (not present, defaults in use)")
		}

		fmt.Fprintln(out)
		if allPassed {
			fmt.Fprintln(out, "All critical checks passed!")
		} else {
			fmt.Fprintln(out, "Some checks failed. Please resolve the issues above.")
		}
		return nil
	},
}

// checkInternet checks that url answers a HEAD request
func checkInternet(url string) bool {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return false
	}

	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode < 400
}

// checkGit returns the path of the git binary, if any
func checkGit() string {
	path, err := execLookPath("git")
	if err != nil {
		return ""
	}
	return path
}

// checkWritePermissions checks if we can write to the current directory
func checkWritePermissions() bool {
	tmpFile := ".gitdown_test_write"
	f, err := os.Create(tmpFile)
	if err != nil {
		return false
	}
	f.Close()
	os.Remove(tmpFile)
	return true
}

// checkDir reports whether path exists and is a directory
func checkDir(path string) bool {
	info, err := osStat(path)
	if err != nil {
		return false
	}
	return info.IsDir()
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default config file to ~/.gitdown/config.yaml",
	RunE: func(cmd *cobra.Command, args []string) error {
		path := config.ConfigFilePath()
		if force, _ := cmd.Flags().GetBool("force"); !force {
			if _, err := osStat(path); err == nil {
				return fmt.Errorf("config file %s already exists (use --force to overwrite)", path)
			}
		}

		if err := config.EnsureConfigDir(); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}

		data, err := yaml.Marshal(config.Default())
		if err != nil {
			return fmt.Errorf("failed to encode config: %w", err)
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), version.Full())
	},
}
