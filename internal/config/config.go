// Package config loads the CLI's environment credentials and per-plugin
// configuration files.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

const configDirName = ".bitbucket-server-cli"

var validate = validator.New()

// APIConfig holds the connection settings for the Bitbucket server.
type APIConfig struct {
	BaseURL  string `validate:"required,url"`
	Username string `validate:"required"`
	Password string `validate:"required"`
}

// LoadAPIConfig reads connection settings from the environment, loading a
// .env file first when one is present.
func LoadAPIConfig() (APIConfig, error) {
	_ = godotenv.Load()

	cfg := APIConfig{
		BaseURL:  os.Getenv("BITBUCKET_BASE_URL"),
		Username: os.Getenv("BITBUCKET_USERNAME"),
		Password: os.Getenv("BITBUCKET_PASSWORD"),
	}
	if err := validate.Struct(cfg); err != nil {
		return APIConfig{}, fmt.Errorf("BITBUCKET_BASE_URL, BITBUCKET_USERNAME and BITBUCKET_PASSWORD must be set: %w", err)
	}
	return cfg, nil
}

// PermissionRules maps entity names to their required permission level.
type PermissionRules struct {
	Users  map[string]string `json:"users"`
	Groups map[string]string `json:"groups"`
}

// ProjectPermissionConfig is one project's expected ACL configuration.
type ProjectPermissionConfig struct {
	Project            string          `json:"project" validate:"required"`
	ProjectPermissions PermissionRules `json:"projectPermissions"`
	RepoPermissions    PermissionRules `json:"repoPermissions"`
}

// LoadPermissionsConfig reads the expected-permissions file. An empty path
// falls back to ~/.bitbucket-server-cli/permissionsConfig.json.
func LoadPermissionsConfig(path string) ([]ProjectPermissionConfig, error) {
	path, err := resolvePath(path, "permissionsConfig.json")
	if err != nil {
		return nil, err
	}

	var entries []ProjectPermissionConfig
	if err := readJSONFile(path, &entries); err != nil {
		return nil, err
	}
	for i, entry := range entries {
		if err := validate.Struct(entry); err != nil {
			return nil, fmt.Errorf("permissions config entry %d: %w", i, err)
		}
	}
	return entries, nil
}

// StaleProjectConfig selects one project for the stale audit, optionally
// overriding the global staleness threshold and excluding repos.
type StaleProjectConfig struct {
	Project           string   `json:"project" validate:"required"`
	DefinitionOfStale string   `json:"definitionOfStale,omitempty"`
	ExcludedRepos     []string `json:"excludedRepos,omitempty"`
}

// StaleConfig is the stale-prs plugin configuration file.
type StaleConfig struct {
	DefinitionOfStale string               `json:"definitionOfStale" validate:"required"`
	Projects          []StaleProjectConfig `json:"projects" validate:"required,dive"`
}

// LoadStaleConfig reads the stale-prs configuration file. An empty path
// falls back to ~/.bitbucket-server-cli/stalePrsConfig.json.
func LoadStaleConfig(path string) (StaleConfig, error) {
	path, err := resolvePath(path, "stalePrsConfig.json")
	if err != nil {
		return StaleConfig{}, err
	}

	var cfg StaleConfig
	if err := readJSONFile(path, &cfg); err != nil {
		return StaleConfig{}, err
	}
	if err := validate.Struct(cfg); err != nil {
		return StaleConfig{}, fmt.Errorf("stale-prs config: %w", err)
	}
	return cfg, nil
}

// StatsProjectConfig selects one project for the stats harvest.
type StatsProjectConfig struct {
	Project       string   `json:"project" validate:"required"`
	ExcludedRepos []string `json:"excludedRepos,omitempty"`
}

// StatsProjects builds the harvest selection from the comma separated
// --projects flag, layering in excluded repos from an optional config file.
func StatsProjects(projectsCSV, configPath string) ([]StatsProjectConfig, error) {
	var keys []string
	for _, key := range strings.Split(projectsCSV, ",") {
		if key = strings.TrimSpace(key); key != "" {
			keys = append(keys, key)
		}
	}
	if len(keys) == 0 {
		return nil, errors.New("a comma separated list of projects is required")
	}

	excluded := make(map[string][]string)
	if configPath != "" {
		var entries []StatsProjectConfig
		if err := readJSONFile(configPath, &entries); err != nil {
			return nil, err
		}
		for _, entry := range entries {
			excluded[entry.Project] = entry.ExcludedRepos
		}
	}

	projects := make([]StatsProjectConfig, 0, len(keys))
	for _, key := range keys {
		projects = append(projects, StatsProjectConfig{Project: key, ExcludedRepos: excluded[key]})
	}
	return projects, nil
}

func resolvePath(path, defaultName string) (string, error) {
	if path != "" {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}
	return filepath.Join(home, configDirName, defaultName), nil
}

func readJSONFile(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("missing config file %s: %w", path, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("unparseable config file %s: %w", path, err)
	}
	return nil
}
