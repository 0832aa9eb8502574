package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/ppiankov/railvoice/internal/logging"
	"github.com/ppiankov/railvoice/internal/model"
)

// version is overridden at build time with -ldflags "-X .../internal/cli.version=..."
var version = "v0.1.0"

var (
	cfgFile string
	verbose bool
	seed    int64

	logger = zap.NewNop()
)

// keys viper cannot discover from the defaults because they are empty and omitted
var envOnlyKeys = []string{
	"asr.api_key",
	"asr.base_url",
	"asr.model_path",
	"http.http_proxy",
	"http.https_proxy",
	"http.no_proxy",
}

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "railvoice",
	Short: "railvoice - spoken shunting command interpreter",
	Long: `railvoice turns recorded shunting-yard radio commands into structured records:
a transcript, a command label and, for commands that take one, a wagon count.

Transcription is delegated to a configurable engine (Whisper API, Vosk, or
stored transcripts). Interpretation is local and deterministic for a fixed seed.`,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		l, err := logging.New(verbose || viper.GetBool("output.verbose"))
		if err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
		logger = l
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
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
	Long:  `Display the version number of railvoice.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "railvoice %s\n", version)
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.railvoice/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().Int64Var(&seed, "seed", 0, "seed for reproducible tie-breaks (0: time-seeded)")
	rootCmd.PersistentFlags().String("asr", "", "transcription engine (openai, vosk, text)")
	rootCmd.PersistentFlags().String("lemmatizer", "", "lemmatizer backend (dictionary, http)")
	rootCmd.PersistentFlags().String("catalog", "", "command catalog YAML (default: built-in)")
	rootCmd.PersistentFlags().String("lexicon", "", "number lexicon YAML (default: built-in)")

	// Bind flags to viper
	_ = viper.BindPFlag("output.verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	_ = viper.BindPFlag("seed", rootCmd.PersistentFlags().Lookup("seed"))
	_ = viper.BindPFlag("asr.provider", rootCmd.PersistentFlags().Lookup("asr"))
	_ = viper.BindPFlag("lemmatizer.provider", rootCmd.PersistentFlags().Lookup("lemmatizer"))
	_ = viper.BindPFlag("tables.catalog_path", rootCmd.PersistentFlags().Lookup("catalog"))
	_ = viper.BindPFlag("tables.lexicon_path", rootCmd.PersistentFlags().Lookup("lexicon"))

	// Add subcommands
	rootCmd.AddCommand(versionCmd)
}

// initConfig reads in config file and ENV variables
func initConfig() {
	if err := setDefaults(viper.GetViper(), model.DefaultConfig()); err != nil {
		fmt.Fprintf(os.Stderr, "Error loading defaults: %v\n", err)
	}

	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			return
		}

		// Search for config in home directory
		viper.AddConfigPath(filepath.Join(home, ".railvoice"))
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	// Read in environment variables that match RAILVOICE_*
	bindEnv(viper.GetViper())

	// If a config file is found, read it in
	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	} else if err != nil && cfgFile != "" {
		fmt.Fprintf(os.Stderr, "Error reading config file: %v\n", err)
	}
}

func bindEnv(v *viper.Viper) {
	v.SetEnvPrefix("RAILVOICE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, key := range envOnlyKeys {
		_ = v.BindEnv(key)
	}
}

// setDefaults registers every field of cfg as a viper default so that
// environment overrides reach nested keys
func setDefaults(v *viper.Viper, cfg *model.Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal defaults: %w", err)
	}

	var tree map[string]any
	if err := yaml.Unmarshal(data, &tree); err != nil {
		return fmt.Errorf("unmarshal defaults: %w", err)
	}

	setFlat(v, "", tree)
	return nil
}

func setFlat(v *viper.Viper, prefix string, tree map[string]any) {
	for k, val := range tree {
		key := prefix + k
		if sub, ok := val.(map[string]any); ok {
			setFlat(v, key+".", sub)
			continue
		}
		v.SetDefault(key, val)
	}
}

// decodeConfig builds the effective configuration from v.
// Defaults must already be registered with setDefaults.
func decodeConfig(v *viper.Viper) (*model.Config, error) {
	cfg := &model.Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if len(cfg.Tables.Gate) == 0 {
		cfg.Tables.Gate = model.DefaultConfig().Tables.Gate
	}
	if cfg.Concurrency.Workers <= 0 {
		cfg.Concurrency.Workers = 1
	}
	return cfg, nil
}

// loadConfig returns the configuration from flags, env, file and defaults
func loadConfig() (*model.Config, error) {
	return decodeConfig(viper.GetViper())
}
