package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
	"golang.org/x/mod/semver"
	"gopkg.in/yaml.v3"

	"github.com/vango-dev/markup/internal/errors"
	"github.com/vango-dev/markup/pkg/markup"
	"github.com/vango-dev/markup/pkg/schema"
)

const (
	// ConfigFileName is the name of the JSON configuration file.
	ConfigFileName = "markup.json"

	// YAMLConfigFileName is the name of the YAML configuration file.
	YAMLConfigFileName = "markup.yaml"

	// DefaultPort is the default preview server port.
	DefaultPort = 4000

	// DefaultHost is the default preview server host.
	DefaultHost = "localhost"

	// DefaultDocuments is the default documents directory.
	DefaultDocuments = "pages"

	// DefaultOutput is the default publish directory.
	DefaultOutput = "dist"

	// DefaultNamespace is the default metrics namespace.
	DefaultNamespace = "markup"
)

// Config represents the complete markup.json configuration.
type Config struct {
	// Requires is the minimum CLI version the project needs, e.g. "v1.2.0".
	Requires string `json:"requires,omitempty" yaml:"requires,omitempty"`

	// Documents is the directory holding the document descriptions.
	Documents string `json:"documents,omitempty" yaml:"documents,omitempty"`

	// CoercionMode is "silent", "warn" or "strict".
	CoercionMode string `json:"coercionMode,omitempty" yaml:"coercionMode,omitempty"`

	// ValidateChildren enables content model checks.
	ValidateChildren bool `json:"validateChildren" yaml:"validateChildren"`

	// ValidateAttributes enables attribute validation on write.
	ValidateAttributes bool `json:"validateAttributes" yaml:"validateAttributes"`

	// MaxExpansionDepth bounds composite expansion chains.
	MaxExpansionDepth int `json:"maxExpansionDepth,omitempty" yaml:"maxExpansionDepth,omitempty"`

	// Preview contains preview server configuration.
	Preview PreviewConfig `json:"preview,omitempty" yaml:"preview,omitempty"`

	// Metrics contains Prometheus metrics configuration.
	Metrics MetricsConfig `json:"metrics,omitempty" yaml:"metrics,omitempty"`

	// Publish contains publish target configuration.
	Publish PublishConfig `json:"publish,omitempty" yaml:"publish,omitempty"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// PreviewConfig contains preview server settings.
type PreviewConfig struct {
	// Host is the host to bind to.
	Host string `json:"host,omitempty" yaml:"host,omitempty"`

	// Port is the port to listen on.
	Port int `json:"port,omitempty" yaml:"port,omitempty"`

	// Watch contains paths to watch for changes.
	Watch []string `json:"watch,omitempty" yaml:"watch,omitempty"`

	// Reload enables live reload in the browser.
	Reload bool `json:"reload" yaml:"reload"`
}

// MetricsConfig contains metrics settings.
type MetricsConfig struct {
	Enabled   bool   `json:"enabled" yaml:"enabled"`
	Namespace string `json:"namespace,omitempty" yaml:"namespace,omitempty"`
}

// PublishConfig contains publish settings. When S3.Bucket is set,
// rendered output goes to the bucket, otherwise to Dir.
type PublishConfig struct {
	Dir string   `json:"dir,omitempty" yaml:"dir,omitempty"`
	S3  S3Config `json:"s3,omitempty" yaml:"s3,omitempty"`

	// Prune deletes pages whose document no longer exists.
	Prune bool `json:"prune,omitempty" yaml:"prune,omitempty"`
}

// S3Config names the bucket rendered output is uploaded to.
type S3Config struct {
	Bucket   string `json:"bucket,omitempty" yaml:"bucket,omitempty"`
	Prefix   string `json:"prefix,omitempty" yaml:"prefix,omitempty"`
	Region   string `json:"region,omitempty" yaml:"region,omitempty"`
	Endpoint string `json:"endpoint,omitempty" yaml:"endpoint,omitempty"`
}

// New creates a new Config with default values.
func New() *Config {
	c := defaults()
	c.applyDefaults()
	return c
}

// defaults holds the values a config file starts from. Preview.Watch is
// left unset so it can follow Documents.
func defaults() *Config {
	return &Config{
		Documents:          DefaultDocuments,
		CoercionMode:       schema.CoercionSilent.String(),
		ValidateChildren:   true,
		ValidateAttributes: true,
		MaxExpansionDepth:  markup.DefaultMaxExpansionDepth,
		Preview: PreviewConfig{
			Host:   DefaultHost,
			Port:   DefaultPort,
			Reload: true,
		},
		Metrics: MetricsConfig{
			Enabled:   true,
			Namespace: DefaultNamespace,
		},
		Publish: PublishConfig{
			Dir: DefaultOutput,
		},
	}
}

// Load reads configuration from the specified directory. markup.json is
// preferred over markup.yaml when both exist.
func Load(dir string) (*Config, error) {
	for _, name := range []string{ConfigFileName, YAMLConfigFileName} {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return LoadFile(path)
		}
	}
	return nil, errors.New("E131").
		WithDetail("No markup.json or markup.yaml found in " + dir)
}

// LoadFile reads configuration from the specified file path. Files ending
// in .yaml or .yml are decoded as YAML, everything else as JSON.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("E131").
				WithDetail("No " + filepath.Base(path) + " found in " + filepath.Dir(path))
		}
		return nil, errors.New("E130").Wrap(err)
	}

	cfg := defaults()
	if isYAML(path) {
		err = yaml.Unmarshal(data, cfg)
	} else {
		err = json.Unmarshal(data, cfg)
	}
	if err != nil {
		return nil, errors.New("E130").
			WithDetail("Failed to parse " + filepath.Base(path) + ": " + err.Error())
	}

	cfg.configPath = path
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration to the file it was loaded from.
func (c *Config) Save() error {
	if c.configPath == "" {
		return errors.Newf(errors.CategoryConfig, "no config path set")
	}
	return c.SaveTo(c.configPath)
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	var (
		data []byte
		err  error
	)
	if isYAML(path) {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
		data = append(data, '\n')
	}
	if err != nil {
		return errors.New("E130").Wrap(err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.New("E130").Wrap(err)
	}
	c.configPath = path
	return nil
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// Dir returns the directory containing the config file.
func (c *Config) Dir() string {
	if c.configPath == "" {
		return ""
	}
	return filepath.Dir(c.configPath)
}

// applyDefaults fills in default values for empty fields.
func (c *Config) applyDefaults() {
	if c.Documents == "" {
		c.Documents = DefaultDocuments
	}
	if c.MaxExpansionDepth == 0 {
		c.MaxExpansionDepth = markup.DefaultMaxExpansionDepth
	}
	if c.Preview.Host == "" {
		c.Preview.Host = DefaultHost
	}
	if c.Preview.Port == 0 {
		c.Preview.Port = DefaultPort
	}
	if c.Preview.Watch == nil {
		c.Preview.Watch = []string{c.Documents}
	}
	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = DefaultNamespace
	}
	if c.Publish.Dir == "" {
		c.Publish.Dir = DefaultOutput
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Requires != "" && !semver.IsValid(c.Requires) {
		return errors.New("E130").
			WithDetailf("requires %q is not a semantic version", c.Requires)
	}
	if _, err := schema.ParseCoercionMode(c.CoercionMode); err != nil {
		return err
	}
	if c.Preview.Port < 0 || c.Preview.Port > 65535 {
		return errors.New("E130").
			WithDetail("Port must be between 0 and 65535")
	}
	if c.MaxExpansionDepth < 0 {
		return errors.New("E130").
			WithDetail("maxExpansionDepth must not be negative")
	}
	return nil
}

// CheckVersion reports an error when version is older than Requires.
// Development builds, whose version is not a semantic version, always pass.
func (c *Config) CheckVersion(version string) error {
	if c.Requires == "" || !semver.IsValid(version) {
		return nil
	}
	if semver.Compare(version, c.Requires) < 0 {
		return errors.New("E130").
			WithDetailf("project requires markup %s, running %s", c.Requires, version).
			WithSuggestion("Upgrade the markup CLI")
	}
	return nil
}

// Apply installs the process-wide settings: coercion mode and validation
// toggles. The returned function restores the previous settings.
func (c *Config) Apply() (restore func(), err error) {
	mode, err := schema.ParseCoercionMode(c.CoercionMode)
	if err != nil {
		return func() {}, err
	}
	prevMode := schema.SetCoercionMode(mode)
	prevChildren := markup.SetChildValidation(c.ValidateChildren)
	prevAttributes := markup.SetAttributeValidation(c.ValidateAttributes)
	return func() {
		schema.SetCoercionMode(prevMode)
		markup.SetChildValidation(prevChildren)
		markup.SetAttributeValidation(prevAttributes)
	}, nil
}

// RendererConfig returns the renderer settings held by the configuration.
func (c *Config) RendererConfig() markup.RendererConfig {
	return markup.RendererConfig{MaxExpansionDepth: c.MaxExpansionDepth}
}

// PreviewAddress returns the address string for the preview server.
func (c *Config) PreviewAddress() string {
	return c.Preview.Host + ":" + strconv.Itoa(c.Preview.Port)
}

// PreviewURL returns the full URL for the preview server.
func (c *Config) PreviewURL() string {
	return "http://" + c.PreviewAddress()
}

// DocumentsPath returns the absolute path to the documents directory.
func (c *Config) DocumentsPath() string {
	return c.resolve(c.Documents)
}

// OutputPath returns the absolute path to the publish directory.
func (c *Config) OutputPath() string {
	return c.resolve(c.Publish.Dir)
}

// WatchPaths returns the watched paths resolved against the config
// directory.
func (c *Config) WatchPaths() []string {
	out := make([]string, len(c.Preview.Watch))
	for i, p := range c.Preview.Watch {
		out[i] = c.resolve(p)
	}
	return out
}

func (c *Config) resolve(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(c.Dir(), path)
}

// Exists checks if a config file exists in the given directory.
func Exists(dir string) bool {
	for _, name := range []string{ConfigFileName, YAMLConfigFileName} {
		if _, err := os.Stat(filepath.Join(dir, name)); err == nil {
			return true
		}
	}
	return false
}

// FindProjectRoot walks up directories to find the project root.
// Returns the directory containing a config file, or an error if not found.
func FindProjectRoot(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	for {
		if Exists(dir) {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.New("E131").
				WithDetail("No markup.json found in " + startDir + " or any parent directory")
		}
		dir = parent
	}
}

// LoadFromWorkingDir loads configuration from the current working directory
// or one of its parents.
func LoadFromWorkingDir() (*Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}

	root, err := FindProjectRoot(wd)
	if err != nil {
		return nil, err
	}

	return Load(root)
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}
