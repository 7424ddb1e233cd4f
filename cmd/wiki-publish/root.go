/*
Copyright © 2024 paul <paul@denknerd.org>
*/

package main

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"time"

	"github.com/fatih/structs"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v2"
)

const defaultConfigPath = "~/.config/wiki-publish.yaml"

var (
	// Store the result of binding cobra flags
	Config       string
	ConfigActual string
	Debug        bool

	BaseURL string

	// Command to run to retrieve API Personal Access Token
	AuthTokenCmd []string
	AuthUsername string

	// Name of the environment variable holding a browser session cookie.
	SessionCookieEnv string

	RequestTimeout time.Duration
	WithVCR        bool

	ParsedConfig YamlConfig

	logger = zap.NewNop()
)

// Build the cobra command that handles our command line tool.
var rootCmd = &cobra.Command{
	Use:   "wiki-publish",
	Short: "Publish rendered reports as Confluence pages",
	Long: `
Publish an HTML report as a new Confluence page, underneath a parent page named by its title path,
e.g. "Standard Tools and Infrastructure/MITO/MITO FY-25/MITO Release".
`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := initializeConfig(cmd); err != nil {
			return fmt.Errorf("wiki-publish: failed to initialise config: %w", err)
		}

		if err := initializeLogger(); err != nil {
			return fmt.Errorf("wiki-publish: failed to initialise logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

func init() {
	// Define cobra flags, the default value has the lowest (least significant) precedence
	rootCmd.PersistentFlags().StringVar(&Config, "config", "", "config file location (default: "+defaultConfigPath+", respects WIKI_PUBLISH_CONFIG)")
	rootCmd.PersistentFlags().BoolVar(&Debug, "debug", false, "display debug output")
	rootCmd.PersistentFlags().StringVar(&BaseURL, "base-url", "", "Confluence site, e.g. https://wiki.example.com or https://ORG.atlassian.net/wiki")
	rootCmd.PersistentFlags().StringSliceVar(&AuthTokenCmd, "auth-token-cmd", []string{}, "shell command to retrieve an API token")
	rootCmd.PersistentFlags().StringVar(&AuthUsername, "auth-username", "", "username for basic auth with the API token")
	rootCmd.PersistentFlags().StringVar(&SessionCookieEnv, "session-cookie-env", "WIKI_SESSION_COOKIE", "environment variable holding a Confluence session cookie")
	rootCmd.PersistentFlags().DurationVar(&RequestTimeout, "request-timeout", 30*time.Second, "timeout for each HTTP request")
	rootCmd.PersistentFlags().BoolVar(&WithVCR, "with-vcr", false, "use go-vcr to record and replay HTTP interactions")
}

func initializeConfig(cmd *cobra.Command) error {
	explicit := Config != ""
	if !explicit {
		// Did the user provide an ENV?
		if envConfig := os.Getenv("WIKI_PUBLISH_CONFIG"); envConfig != "" {
			Config = envConfig
			explicit = true
		} else {
			// As fallback, search for config in home XDG-ish directory
			Config = defaultConfigPath
		}
	}
	config, err := homedir.Expand(Config)
	if err != nil {
		return fmt.Errorf("wiki-publish: unable to expand homedir: %w", err)
	}
	ConfigActual = config

	if _, err := os.Stat(ConfigActual); errors.Is(err, os.ErrNotExist) {
		if explicit {
			fmt.Printf("Couldn't read config file %s, does it exist?  Override with --config.\n", ConfigActual)
			return fmt.Errorf("wiki-publish: specified config file does not exist: %w", err)
		}
		// flags alone are enough to publish one page.
		return nil
	}

	yamlFile, err := os.ReadFile(ConfigActual)
	if err != nil {
		return fmt.Errorf("wiki-publish: error reading config file: %w", err)
	}

	// I'd like to bark if a user sets a key we don't recognise:
	ParsedConfig = YamlConfig{}
	if err := yaml.UnmarshalStrict(yamlFile, &ParsedConfig); err != nil {
		return fmt.Errorf("wiki-publish: issue parsing config file: %w", err)
	}

	if err := bindFlags(cmd, ParsedConfig); err != nil {
		return fmt.Errorf("wiki-publish: failed to bind flags: %w", err)
	}

	return nil
}

func initializeLogger() error {
	config := zap.NewProductionConfig()
	if Debug {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	built, err := config.Build()
	if err != nil {
		return err
	}
	logger = built
	return nil
}

type YamlConfig struct {
	Debug   *bool `yaml:"debug"`
	WithVCR *bool `yaml:"with-vcr"`

	BaseURL          string   `yaml:"base-url"`
	AuthUsername     string   `yaml:"auth-username"`
	AuthTokenCmd     []string `yaml:"auth-token-cmd"`
	SessionCookieEnv string   `yaml:"session-cookie-env"`
	RequestTimeout   string   `yaml:"request-timeout"`

	// Publishing targets, keyed by application name.
	Apps map[string]AppConfig `yaml:"apps"`
}

// AppConfig says where one application's release report goes.
type AppConfig struct {
	FixVersion string `yaml:"fix-version"` // used as the page title
	SpaceKey   string `yaml:"space-key"`
	ParentPath string `yaml:"parent-path"`
	Report     string `yaml:"report"`
}

const defaultSpaceKey = "STI"

func (a AppConfig) Space() string {
	if a.SpaceKey == "" {
		return defaultSpaceKey
	}
	return a.SpaceKey
}

// Bind each YAML value onto its cobra flag, unless the flag was given on the command line.
func bindFlags(cmd *cobra.Command, v YamlConfig) error {
	for _, field := range structs.Fields(v) {
		key := field.Tag("yaml")
		if key == "" {
			return fmt.Errorf("wiki-publish: could not retrieve struct tag 'yaml'")
		}
		if flag := cmd.Flag(key); flag == nil {
			// not every key is a flag (apps), and not every command has every flag.
			continue
		}
		if !cmd.Flags().Changed(key) {
			switch field.Kind() {
			case reflect.Ptr:
				// YamlConfig only uses pointers for bools.
				b, ok := field.Value().(*bool)
				if !ok {
					return fmt.Errorf("wiki-publish: found unrecognised field: %+v", field.Name())
				}
				if b != nil {
					if err := cmd.Flags().Set(key, fmt.Sprintf("%v", *b)); err != nil {
						return fmt.Errorf("wiki-publish: bad value for %s: %w", key, err)
					}
				}

			case reflect.String:
				s, ok := field.Value().(string)
				if !ok {
					return fmt.Errorf("wiki-publish: found unrecognised field: %+v", field.Name())
				}
				if s != "" {
					if err := cmd.Flags().Set(key, s); err != nil {
						return fmt.Errorf("wiki-publish: bad value for %s: %w", key, err)
					}
				}

			case reflect.Slice:
				ss, ok := field.Value().([]string)
				if !ok {
					return fmt.Errorf("wiki-publish: found unrecognised field: %+v", field.Name())
				}
				for _, s := range ss {
					// yes, repeatedly calling Set() appends to the slice...
					if err := cmd.Flags().Set(key, s); err != nil {
						return fmt.Errorf("wiki-publish: bad value for %s: %w", key, err)
					}
				}

			default:
				return fmt.Errorf("wiki-publish: found unrecognised field: %+v", field.Name())
			}
		}
	}

	return nil
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		return fmt.Errorf("wiki-publish: execution error: %w", err)
	}

	return nil
}
