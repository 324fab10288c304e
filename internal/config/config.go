package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"

	"github.com/inkpress/md2pdf/internal/fileutil"
	"github.com/inkpress/md2pdf/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrConfigInvalid   = errors.New("invalid config")
)

// Engine names accepted in the config file.
const (
	EngineChrome = "chrome"
	EngineNative = "native"
)

// Timeout bounds for PDF rendering.
const (
	DefaultTimeout = 30 * time.Second
	MinTimeout     = time.Second
	MaxTimeout     = 10 * time.Minute
)

// DefaultLogLevel keeps stderr quiet unless something fails.
const DefaultLogLevel = "warn"

// Config holds runtime settings for the converter. Styling and page
// geometry are fixed and intentionally absent.
type Config struct {
	Engine  string        `yaml:"engine" validate:"omitempty,oneof=chrome native"`
	Timeout string        `yaml:"timeout"`
	Browser BrowserConfig `yaml:"browser"`
	Log     LogConfig     `yaml:"log"`
}

// BrowserConfig locates and configures headless Chrome.
type BrowserConfig struct {
	Bin       string `yaml:"bin"` // Path or command name, resolved at startup. Empty = ROD_BROWSER_BIN or auto-detect
	NoSandbox bool   `yaml:"noSandbox"`
}

// LogConfig controls diagnostic output on stderr.
type LogConfig struct {
	Level string `yaml:"level" validate:"omitempty,oneof=debug info warn error"`
}

// NotFoundError reports every location searched for a named config.
type NotFoundError struct {
	Name  string
	Paths []string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s: %q (tried %s)", ErrConfigNotFound, e.Name, strings.Join(e.Paths, ", "))
}

// Is makes errors.Is(err, ErrConfigNotFound) match.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrConfigNotFound
}

// DefaultConfig returns the settings used when no config file is given.
func DefaultConfig() *Config {
	return &Config{
		Engine:  EngineChrome,
		Timeout: DefaultTimeout.String(),
		Log:     LogConfig{Level: DefaultLogLevel},
	}
}

// TimeoutDuration returns the parsed timeout, or DefaultTimeout when unset.
// Call Validate first; an unparsable value also yields DefaultTimeout.
func (c *Config) TimeoutDuration() time.Duration {
	if c.Timeout == "" {
		return DefaultTimeout
	}
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return DefaultTimeout
	}
	return d
}

// Validate checks field values. Called automatically by LoadConfig, and by
// the CLI again after flag overrides are applied.
func (c *Config) Validate() error {
	validate, trans, err := newValidator()
	if err != nil {
		return err
	}

	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return fmt.Errorf("%w: %v", ErrConfigInvalid, err)
		}
		msgs := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			msgs = append(msgs, fe.Translate(trans))
		}
		return fmt.Errorf("%w: %s", ErrConfigInvalid, strings.Join(msgs, "; "))
	}

	if c.Timeout != "" {
		d, err := time.ParseDuration(c.Timeout)
		if err != nil {
			return fmt.Errorf("%w: timeout: %q is not a duration (e.g. 30s, 2m)", ErrConfigInvalid, c.Timeout)
		}
		if d < MinTimeout || d > MaxTimeout {
			return fmt.Errorf("%w: timeout: must be between %s and %s, got %s", ErrConfigInvalid, MinTimeout, MaxTimeout, d)
		}
	}

	return nil
}

// newValidator builds a validator that reports fields by their YAML names
// with English messages.
func newValidator() (*validator.Validate, ut.Translator, error) {
	validate := validator.New()

	enLocale := en.New()
	uni := ut.New(enLocale, enLocale)
	trans, _ := uni.GetTranslator("en")
	if err := enTranslations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, nil, fmt.Errorf("registering validator translations: %w", err)
	}

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return validate, trans, nil
}

// LoadConfig loads a config by name or path.
// A value containing a path separator is read as a file path. Otherwise it is
// a name looked up as name.yaml / name.yml in the current directory, then in
// the user config directory under md2pdf/.
// Keys missing from the file keep their DefaultConfig values.
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	var configPath string
	var err error

	if fileutil.IsFilePath(nameOrPath) {
		configPath = nameOrPath
	} else {
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &NotFoundError{Name: nameOrPath, Paths: []string{configPath}}
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yamlutil.UnmarshalStrict(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %s: %s", ErrConfigParse, configPath, yamlutil.FormatError(err))
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// resolveConfigPath searches for a config file by name in standard locations.
// Tries extensions in order: .yaml, .yml
// Tries locations in order: current directory, <user config dir>/md2pdf/
func resolveConfigPath(name string) (string, error) {
	extensions := []string{".yaml", ".yml"}
	triedPaths := make([]string, 0, len(extensions)*2)

	for _, ext := range extensions {
		localPath := name + ext
		if fileutil.FileExists(localPath) {
			return localPath, nil
		}
		triedPaths = append(triedPaths, localPath)
	}

	userConfigDir, err := os.UserConfigDir()
	if err == nil {
		for _, ext := range extensions {
			userPath := filepath.Join(userConfigDir, "md2pdf", name+ext)
			if fileutil.FileExists(userPath) {
				return userPath, nil
			}
			triedPaths = append(triedPaths, userPath)
		}
	}

	return "", &NotFoundError{Name: name, Paths: triedPaths}
}
