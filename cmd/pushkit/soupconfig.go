package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/funvibe/pushkit/internal/object"
	"github.com/funvibe/pushkit/internal/soup"
)

// SoupConfig is the YAML shape of a soup definition. With core: true
// the bag starts from the full library soup; otherwise from an empty
// one (brackets only).
type SoupConfig struct {
	Core      bool             `yaml:"core"`
	Constants []ConstantConfig `yaml:"constants"`
	Inputs    []InputConfig    `yaml:"inputs"`
	Ercs      []string         `yaml:"ercs"`
}

// ConstantConfig declares one typed constant. Exactly one field is
// expected per entry.
type ConstantConfig struct {
	Int    *int64   `yaml:"int"`
	Float  *float64 `yaml:"float"`
	String *string  `yaml:"string"`
	Bool   *bool    `yaml:"bool"`
}

// InputConfig declares one named input.
type InputConfig struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`
}

func LoadSoupConfig(path string) (*SoupConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading soup config: %w", err)
	}
	cfg := &SoupConfig{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing soup config %s: %w", path, err)
	}
	return cfg, nil
}

// Build assembles the configured bag.
func (c *SoupConfig) Build() (*soup.Soup, error) {
	bag := soup.New()
	if c.Core {
		bag = soup.CoreSoup()
	}
	for i, cc := range c.Constants {
		switch {
		case cc.Int != nil:
			bag.RegisterConstant(object.NewInt(*cc.Int))
		case cc.Float != nil:
			bag.RegisterConstant(object.NewFloat(*cc.Float))
		case cc.String != nil:
			bag.RegisterConstant(object.NewString(*cc.String))
		case cc.Bool != nil:
			bag.RegisterConstant(object.NewBool(*cc.Bool))
		default:
			return nil, fmt.Errorf("constant %d: one of int, float, string, bool required", i)
		}
	}
	for _, in := range c.Inputs {
		typ, err := ParseType(in.Type)
		if err != nil {
			return nil, fmt.Errorf("input %s: %w", in.Name, err)
		}
		bag.RegisterInput(in.Name, typ)
	}
	for _, erc := range c.Ercs {
		switch erc {
		case "int":
			bag.RegisterErcGenerator(soup.RandInt())
		case "float":
			bag.RegisterErcGenerator(soup.RandFloat())
		default:
			return nil, fmt.Errorf("unknown erc generator: %s", erc)
		}
	}
	return bag, nil
}
