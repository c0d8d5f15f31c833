package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/ppiankov/morphprod/internal/model"
	"github.com/ppiankov/morphprod/internal/pipeline"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const version = "morphprod v0.3.0"

var (
	cfgFile  string
	verbose  bool
	logLevel string
	logger   = logrus.New()
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "morphprod",
	Short: "Morphological productivity over a dated historical corpus",
	Long: `morphprod derives dated lemma-frequency datasets from a tagged corpus
and measures the productivity of word-formation patterns over time.

For every sub-corpus (e.g. nouns in -ção and in -mento) it slides a
fixed-width window over the years, pools the lemmas in each window and
computes Baayen's productivity measures against whole-corpus reference
counts. Resampling to a fixed sample size controls for uneven corpus size,
and a change-point posterior locates shifts in the resulting series.`,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setupLogger()
	},
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(version)
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.morphprod/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output (same as --log-level debug)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")

	// Overrides shared by every corpus command
	defaults := model.DefaultConfig()
	rootCmd.PersistentFlags().String("out", defaults.Output.Dir, "output directory")
	rootCmd.PersistentFlags().Int("width", defaults.Window.Width, "rolling window width in years")

	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	_ = viper.BindPFlag("output.dir", rootCmd.PersistentFlags().Lookup("out"))
	_ = viper.BindPFlag("window.width", rootCmd.PersistentFlags().Lookup("width"))

	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	logger.SetOutput(os.Stderr)

	rootCmd.AddCommand(versionCmd)
}

// initConfig reads in config file and ENV variables
func initConfig() {
	if err := setDefaults(model.DefaultConfig()); err != nil {
		fmt.Fprintf(os.Stderr, "Error setting defaults: %v\n", err)
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			return
		}
		viper.AddConfigPath(home + "/.morphprod")
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	// MORPHPROD_WINDOW_WIDTH overrides window.width, and so on
	viper.SetEnvPrefix("MORPHPROD")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

// setDefaults registers every leaf of cfg with viper so environment
// variables can override keys that no file or flag mentions
func setDefaults(cfg *model.Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	var tree map[string]interface{}
	if err := yaml.Unmarshal(data, &tree); err != nil {
		return err
	}
	setDefaultTree("", tree)
	return nil
}

func setDefaultTree(prefix string, tree map[string]interface{}) {
	for k, v := range tree {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		if sub, ok := v.(map[string]interface{}); ok {
			setDefaultTree(key, sub)
			continue
		}
		viper.SetDefault(key, v)
	}
}

func setupLogger() error {
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", logLevel, err)
	}
	if verbose || viper.GetBool("verbose") {
		level = logrus.DebugLevel
	}
	logger.SetLevel(level)
	return nil
}

// loadConfig merges defaults, config file, env and flags into a Config.
// Defaults reach viper through setDefaults, so decoding starts from a zero
// Config and lists from the file replace the default lists whole.
func loadConfig() (*model.Config, error) {
	cfg := &model.Config{}
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func validateConfig(cfg *model.Config) error {
	if cfg.Window.Width < 1 {
		return fmt.Errorf("%w: window.width must be at least 1, got %d", model.ErrInvalidArgument, cfg.Window.Width)
	}
	if cfg.Resample.SampleSize < 1 {
		return fmt.Errorf("%w: resample.sample_size must be at least 1, got %d", model.ErrInvalidArgument, cfg.Resample.SampleSize)
	}
	if cfg.Resample.Runs < 2 {
		return fmt.Errorf("%w: resample.runs must be at least 2, got %d", model.ErrInvalidArgument, cfg.Resample.Runs)
	}
	if cfg.Resample.Confidence <= 0 || cfg.Resample.Confidence >= 1 {
		return fmt.Errorf("%w: resample.confidence must be in (0, 1), got %v", model.ErrInvalidArgument, cfg.Resample.Confidence)
	}
	seen := make(map[string]bool)
	for _, sc := range cfg.Corpus.Subcorpora {
		if sc.Tag == "" || sc.Path == "" {
			return fmt.Errorf("%w: sub-corpus needs both tag and path", model.ErrInvalidArgument)
		}
		if seen[sc.Tag] {
			return fmt.Errorf("%w: duplicate sub-corpus tag %q", model.ErrInvalidArgument, sc.Tag)
		}
		seen[sc.Tag] = true
	}
	return nil
}

// newPipeline loads the configuration and builds a pipeline from it
func newPipeline() (*pipeline.Pipeline, *model.Config, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	p, err := pipeline.NewPipeline(cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	return p, cfg, nil
}
