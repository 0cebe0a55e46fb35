package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/goliatone/go-config/cfgx"
	opts "github.com/goliatone/go-options"
	"gopkg.in/yaml.v3"
)

// ReadFile reads a YAML document, expanding ${VAR} references against the
// environment before parsing.
func ReadFile(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, wrapConfig(err, fmt.Sprintf("config: read %s", path))
	}
	return Parse(data)
}

// Parse decodes a YAML document into a raw layer.
func Parse(data []byte) (map[string]any, error) {
	expanded := os.ExpandEnv(string(data))
	raw := map[string]any{}
	if err := yaml.Unmarshal([]byte(expanded), &raw); err != nil {
		return nil, wrapConfig(err, "config: invalid yaml")
	}
	return raw, nil
}

// Build decodes a raw layer on top of DefaultConfig and validates it.
func Build(raw map[string]any) (Config, error) {
	cfg, err := cfgx.Build[Config](raw,
		cfgx.WithDefaults(DefaultConfig()),
		cfgx.WithValidator[Config]((*Config).Validate),
	)
	if err != nil {
		return Config{}, wrapConfig(err, "config: build failed")
	}
	return cfg, nil
}

// Resolve merges defaults, the file layer and runtime overrides, highest
// priority last, and validates the result. Either layer may be nil.
func Resolve(file map[string]any, runtime Config) (Config, error) {
	defaults := DefaultConfig()

	stack, err := opts.NewStack(
		opts.NewLayer(
			opts.NewScope("defaults", 0),
			toLayer(defaults, true),
			opts.WithSnapshotID[map[string]any]("defaults"),
		),
		opts.NewLayer(
			opts.NewScope("file", 10),
			cloneLayer(file),
			opts.WithSnapshotID[map[string]any]("file"),
		),
		opts.NewLayer(
			opts.NewScope("runtime", 20),
			toLayer(runtime, false),
			opts.WithSnapshotID[map[string]any]("runtime"),
		),
	)
	if err != nil {
		return Config{}, wrapConfig(err, "config: options stack build failed")
	}
	merged, err := stack.Merge()
	if err != nil {
		return Config{}, wrapConfig(err, "config: options merge failed")
	}
	return Build(merged.Value)
}

// LoadFile is ReadFile followed by Resolve. An empty path skips the file
// layer.
func LoadFile(path string, runtime Config) (Config, error) {
	var file map[string]any
	if strings.TrimSpace(path) != "" {
		raw, err := ReadFile(path)
		if err != nil {
			return Config{}, err
		}
		file = raw
	}
	return Resolve(file, runtime)
}

func cloneLayer(in map[string]any) map[string]any {
	out := make(map[string]any, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func toLayer(cfg Config, includeZero bool) map[string]any {
	layer := map[string]any{}
	set := func(key, value string) {
		if includeZero || strings.TrimSpace(value) != "" {
			layer[key] = value
		}
	}
	set("host_name", cfg.HostName)
	set("path", cfg.Path)
	set("protocol", cfg.Protocol)
	set("service", cfg.Service)

	if includeZero || len(cfg.Headers) > 0 {
		headers := make(map[string]any, len(cfg.Headers))
		for k, v := range cfg.Headers {
			headers[k] = v
		}
		layer["headers"] = headers
	}

	creds := map[string]any{}
	setCred := func(key, value string) {
		if includeZero || strings.TrimSpace(value) != "" {
			creds[key] = value
		}
	}
	setCred("region", cfg.Credentials.Region)
	setCred("access_key_id", cfg.Credentials.AccessKeyID)
	setCred("secret_access_key", cfg.Credentials.SecretAccessKey)
	setCred("session_token", cfg.Credentials.SessionToken)
	setCred("profile", cfg.Credentials.Profile)
	if len(creds) > 0 {
		layer["credentials"] = creds
	}
	return layer
}
