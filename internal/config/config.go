// Package config resolves the settings of the hashpass command from built-in
// defaults, an optional YAML file and command-line overrides.
package config

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"

	"github.com/hasbyte1/hashpass/hashing"
	"github.com/hasbyte1/hashpass/internal/export"
)

// ErrInvalidConfig is matched by every error returned by Load. Errors from
// reading or decoding also wrap their underlying cause.
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Config holds every setting of the command.
type Config struct {
	Driver   string   `koanf:"driver" validate:"oneof=bcrypt argon2id"`
	Output   string   `koanf:"output" validate:"required"`
	LogLevel string   `koanf:"log_level" validate:"oneof=debug info warn error"`
	Bcrypt   Bcrypt   `koanf:"bcrypt"`
	Argon2id Argon2id `koanf:"argon2id"`
}

// Bcrypt holds the bcrypt work factor.
type Bcrypt struct {
	Cost int `koanf:"cost" validate:"min=4,max=31"`
}

// Argon2id holds the Argon2id parameters. Memory is in KiB.
//
// Fields are decoded as int and narrowed by Argon2Options only after the
// bounds below have been checked, so out-of-range input is rejected rather
// than wrapped. Memory is capped at 1 GiB.
type Argon2id struct {
	Memory  int `koanf:"memory" validate:"min=8,max=1048576"`
	Time    int `koanf:"time" validate:"min=1,max=100"`
	Threads int `koanf:"threads" validate:"min=1,max=255"`
	KeyLen  int `koanf:"key_len" validate:"min=4,max=1024"`
	SaltLen int `koanf:"salt_len" validate:"min=8,max=1024"`
}

// Default returns the settings used when nothing is configured.
func Default() Config {
	a2 := hashing.DefaultArgon2Options()
	return Config{
		Driver:   string(hashing.DriverBcrypt),
		Output:   export.DefaultFilename,
		LogLevel: "warn",
		Bcrypt:   Bcrypt{Cost: hashing.DefaultBcryptCost},
		Argon2id: Argon2id{
			Memory:  int(a2.Memory),
			Time:    int(a2.Time),
			Threads: int(a2.Threads),
			KeyLen:  int(a2.KeyLen),
			SaltLen: int(a2.SaltLen),
		},
	}
}

// Load starts from Default, merges the YAML file at path when path is not
// empty, then applies overrides keyed by dotted path ("bcrypt.cost").
// The result is validated before it is returned.
func Load(path string, overrides map[string]any) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: read %s: %w", ErrInvalidConfig, path, err)
		}
	}

	// Sorted so that a parent and its child are applied in a fixed order.
	keys := make([]string, 0, len(overrides))
	for key := range overrides {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		if err := k.Set(key, overrides[key]); err != nil {
			return nil, fmt.Errorf("%w: override %s: %w", ErrInvalidConfig, key, err)
		}
	}

	cfg := Default()
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &cfg,
			TagName:          "koanf",
			WeaklyTypedInput: true,
			ErrorUnused:      true,
		},
	}); err != nil {
		return nil, fmt.Errorf("%w: decode: %w", ErrInvalidConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks every field against its allowed range.
func (c *Config) Validate() error {
	v, trans, err := newValidator()
	if err != nil {
		return errors.Wrap(err, "config: init validator")
	}
	if err := v.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return errors.Wrap(ErrInvalidConfig, err.Error())
		}
		msgs := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			key := strings.TrimPrefix(fe.Namespace(), "Config.")
			msgs = append(msgs, fmt.Sprintf("%s: %s", key, fe.Translate(trans)))
		}
		sort.Strings(msgs)
		return errors.Wrap(ErrInvalidConfig, strings.Join(msgs, "; "))
	}
	return nil
}

// BcryptOptions converts the bcrypt section for the hashing package.
func (c *Config) BcryptOptions() hashing.BcryptOptions {
	return hashing.BcryptOptions{Cost: c.Bcrypt.Cost}
}

// Argon2Options converts the argon2id section for the hashing package.
// The narrowing conversions are exact for any Config that passed Validate.
func (c *Config) Argon2Options() hashing.Argon2Options {
	return hashing.Argon2Options{
		Memory:  uint32(c.Argon2id.Memory),
		Time:    uint32(c.Argon2id.Time),
		Threads: uint8(c.Argon2id.Threads),
		KeyLen:  uint32(c.Argon2id.KeyLen),
		SaltLen: uint32(c.Argon2id.SaltLen),
	}
}

func newValidator() (*validator.Validate, ut.Translator, error) {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("koanf"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})

	enLang := en.New()
	trans, _ := ut.New(enLang, enLang).GetTranslator("en")
	if err := enTranslations.RegisterDefaultTranslations(v, trans); err != nil {
		return nil, nil, err
	}
	return v, trans, nil
}
