package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// fileDefaults is the YAML shape of a defaults file. Timeout is expressed
// in whole seconds.
type fileDefaults struct {
	Zone       string `yaml:"zone"`
	File       string `yaml:"file"`
	Server     string `yaml:"server"`
	Port       int    `yaml:"port"`
	Timeout    int    `yaml:"timeout"`
	TCP        bool   `yaml:"tcp"`
	Verbose    bool   `yaml:"verbose"`
	CompareSOA bool   `yaml:"compare_soa"`
	CompareNS  bool   `yaml:"compare_ns"`
	Strict     bool   `yaml:"strict"`
}

// LoadDefaults reads a YAML defaults file and returns a Config with its
// values layered over Default(). Flags given on the command line still win;
// the caller applies those afterwards. The result is not yet validated,
// since flags may fill in what the file leaves out.
func LoadDefaults(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening config file: %w", err)
	}
	defer file.Close()

	var d fileDefaults

	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)
	if err := decoder.Decode(&d); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	cfg := Default()
	if d.Zone != "" {
		cfg.Zone = d.Zone
	}
	if d.File != "" {
		cfg.ZoneFile = d.File
	}
	if d.Server != "" {
		cfg.Nameserver = d.Server
	}
	if d.Port != 0 {
		cfg.Port = d.Port
	}
	if d.Timeout != 0 {
		cfg.Timeout = time.Duration(d.Timeout) * time.Second
	}
	cfg.TCP = d.TCP
	cfg.Verbose = d.Verbose
	cfg.CompareSOA = d.CompareSOA
	cfg.CompareNS = d.CompareNS
	cfg.Strict = d.Strict

	return cfg, nil
}
