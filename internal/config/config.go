// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/apex/log"
	gap "github.com/muesli/go-app-paths"
	"gopkg.in/yaml.v3"

	"github.com/staranto/cachedgo/cached"
)

// FileName is the name of the config file searched for in the standard
// locations.
const FileName = "cached.yaml"

type Type struct {
	Source    string
	Namespace string
	Data      map[string]interface{}
}

var Config Type

func init() {
	_, _ = Load()
}

// Load reads the config file into Config. See getConfigPath for the search
// order. On failure Config is left empty, keeping only its Namespace.
func Load() (Type, error) {
	path, err := getConfigPath()
	if err != nil {
		return reset(), err
	}

	bytes, err := os.ReadFile(path)
	if err != nil {
		return reset(), err
	}

	var data map[string]interface{}
	if err := yaml.Unmarshal(bytes, &data); err != nil {
		return reset(), fmt.Errorf("failed to parse %s: %w", path, err)
	}

	Config = Type{
		Source:    path,
		Namespace: Config.Namespace,
		Data:      data}

	return Config, nil
}

func reset() Type {
	Config = Type{Namespace: Config.Namespace}
	return Type{}
}

// get traverses the map using a dotted key path. A namespaced key
// (<namespace>.<kspec>) wins over the bare key.
func (cfg *Type) get(kspec string) (any, error) {
	if len(cfg.Data) == 0 {
		_, _ = Load()
	}

	candidateKeys := []string{kspec}
	if cfg.Namespace != "" {
		candidateKeys = []string{cfg.Namespace + "." + kspec, kspec}
	}

	for _, key := range candidateKeys {
		keys := strings.Split(key, ".")
		var current interface{} = Config.Data

		success := true
		for _, key := range keys {
			m, ok := current.(map[string]interface{})
			if !ok {
				success = false
				break
			}
			current, ok = m[key]
			if !ok {
				success = false
				break
			}
		}

		if success {
			return current, nil
		}
	}

	return nil, fmt.Errorf("no valid path found among: %v", candidateKeys)
}

func GetString(key string, defaultValue ...string) (string, error) {
	val, err := Config.get(key)
	if err != nil {
		if len(defaultValue) == 1 {
			return defaultValue[0], nil
		}
		return "", err
	}

	s, ok := val.(string)
	if !ok {
		return "", errors.New("value is not a string")
	}

	return s, nil
}

func GetInt(key string, defaultValue ...int) (int, error) {
	val, err := Config.get(key)
	if err != nil {
		if len(defaultValue) == 1 {
			return defaultValue[0], nil
		}
		return 0, err
	}

	// YAML numbers may be unmarshaled as int/float64 depending on content.
	switch v := val.(type) {
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case float64:
		return int(v), nil
	default:
		return 0, errors.New("value is not an int")
	}
}

func GetBool(key string, defaultValue ...bool) (bool, error) {
	val, err := Config.get(key)
	if err != nil {
		if len(defaultValue) == 1 {
			return defaultValue[0], nil
		}
		return false, err
	}

	b, ok := val.(bool)
	if !ok {
		return false, errors.New("value is not a bool")
	}

	return b, nil
}

// GetStringSlice reads a YAML list of strings.
func GetStringSlice(key string, defaultValue ...[]string) ([]string, error) {
	val, err := Config.get(key)
	if err != nil {
		if len(defaultValue) == 1 {
			return defaultValue[0], nil
		}
		return nil, err
	}

	items, ok := val.([]interface{})
	if !ok {
		return nil, errors.New("value is not a list")
	}

	result := make([]string, 0, len(items))
	for _, item := range items {
		s, ok := item.(string)
		if !ok {
			return nil, fmt.Errorf("list item is not a string: %v", item)
		}
		result = append(result, s)
	}
	return result, nil
}

// GetTTL reads a TTL spec such as "30m" or "infinite". A bare YAML number is
// taken as seconds.
func GetTTL(key string, defaultValue ...cached.TTL) (cached.TTL, error) {
	val, err := Config.get(key)
	if err != nil {
		if len(defaultValue) == 1 {
			return defaultValue[0], nil
		}
		return cached.TTL{}, err
	}

	switch v := val.(type) {
	case string:
		return cached.ParseTTL(v)
	case int:
		return cached.Seconds(v), nil
	default:
		return cached.TTL{}, fmt.Errorf("value is not a ttl: %v", v)
	}
}

// getConfigPath finds the config file. CACHED_CFG wins and must name a file.
// Otherwise the user config dirs and then XDG_CONFIG_HOME, APPDATA and HOME
// are searched for cached.yaml.
func getConfigPath() (string, error) {
	if c, ok := os.LookupEnv("CACHED_CFG"); ok && c != "" {
		fileInfo, err := os.Stat(c)
		if err != nil {
			return "", fmt.Errorf("config file not found: %s", c)
		}
		if fileInfo.IsDir() {
			return "", fmt.Errorf("CACHED_CFG points to a directory: %s", c)
		}
		return c, nil
	}

	var candidates []string
	if dirs, err := gap.NewScope(gap.User, "cached").ConfigDirs(); err == nil {
		candidates = append(candidates, dirs...)
	}
	candidates = append(candidates,
		os.Getenv("XDG_CONFIG_HOME"),
		os.Getenv("APPDATA"),
		os.Getenv("HOME"),
	)

	for _, c := range candidates {
		if c == "" {
			continue
		}
		file := filepath.Join(c, FileName)
		if fileInfo, err := os.Stat(file); err == nil {
			if !fileInfo.IsDir() {
				log.Debugf("using config file: %s", file)
				return file, nil
			}
		}
	}
	return "", fmt.Errorf("no config file found in standard locations")
}
