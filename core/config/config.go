package config

import (
	_ "embed"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"sigs.k8s.io/yaml"
)

var (
	//go:embed default/msh.yaml
	defaultConfigData []byte
)

const (
	ConfigurationName = "msh.yaml"
)

type Configuration struct {
	// Prompt is written before every read.
	Prompt string `json:"prompt" validate:"required"`
	// HistorySize is the capacity of the history list.
	HistorySize int `json:"history_size" validate:"gte=1,lte=1000"`
	// MaxTokens bounds the number of arguments kept from a line.
	MaxTokens int `json:"max_tokens" validate:"gte=1,lte=256"`
	// MaxLineLength is the longest accepted line in bytes, excluding the
	// line terminator.
	MaxLineLength int `json:"max_line_length" validate:"gte=1,lte=65536"`
	// Tokenizer selects how lines are split into arguments.
	Tokenizer string `json:"tokenizer" validate:"oneof=whitespace shlex"`
	// LogFile receives the JSON lines session log if set.
	LogFile string `json:"log_file"`
}

// Validate the configuration for basic semantic errors.
func (c *Configuration) Validate() error {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		return name
	})

	return validate.Struct(c)
}

// Default returns the built-in configuration.
func Default() *Configuration {
	var out Configuration
	if err := yaml.UnmarshalStrict(defaultConfigData, &out); err != nil {
		panic(err)
	}
	return &out
}

// DefaultData returns the contents of the built-in configuration file.
func DefaultData() []byte {
	return append([]byte(nil), defaultConfigData...)
}
