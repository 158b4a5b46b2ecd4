package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"runtime"

	flag "github.com/spf13/pflag"

	"github.com/alnah/go-md2slides/internal/auth"
	"github.com/alnah/go-md2slides/internal/config"
	"github.com/alnah/go-md2slides/internal/gslides"
)

// Doctor status values.
const (
	statusReady    = "ready"
	statusWarnings = "warnings"
	statusErrors   = "errors"
)

// doctorResult holds all diagnostic information.
type doctorResult struct {
	Status      string          `json:"status"` // "ready", "warnings", "errors"
	Config      configInfo      `json:"config"`
	Credentials credentialsInfo `json:"credentials"`
	Env         envInfo         `json:"environment"`
	Warnings    []string        `json:"warnings,omitempty"`
	Errors      []string        `json:"errors,omitempty"`
}

// configInfo holds config file detection results.
type configInfo struct {
	Name   string `json:"name,omitempty"`
	Loaded bool   `json:"loaded"`
}

// credentialsInfo holds OAuth file detection results.
type credentialsInfo struct {
	ClientSecret      string `json:"client_secret"`
	ClientSecretValid bool   `json:"client_secret_valid"`
	TokenFile         string `json:"token_file"`
	TokenCached       bool   `json:"token_cached"`
	Refreshable       bool   `json:"refreshable"`
}

// envInfo holds environment detection results.
type envInfo struct {
	OS       string `json:"os"`
	Arch     string `json:"arch"`
	Headless bool   `json:"headless"`
	CI       bool   `json:"ci"`
}

// runDoctorCmd executes the doctor command and returns an exit code.
// Exit codes: 0 = OK (including warnings), 1 = errors found, 2 = bad flags.
func runDoctorCmd(args []string, env *Environment) int {
	var jsonOutput bool
	var configName string

	set := flag.NewFlagSet(cmdDoctor, flag.ContinueOnError)
	set.SetOutput(env.Stderr)
	set.BoolVar(&jsonOutput, "json", false, "print results as JSON")
	set.StringVarP(&configName, "config", "c", "", "config file name or path")
	set.Usage = func() { printDoctorUsage(env.Stderr) }
	if err := set.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return ExitSuccess
		}
		return ExitUsage
	}

	result := runDoctor(configName, env)

	if jsonOutput {
		enc := json.NewEncoder(env.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(result)
	} else {
		printDoctorResult(env.Stdout, result)
	}

	if result.Status == statusErrors {
		return ExitGeneral
	}
	return ExitSuccess
}

// runDoctor performs all diagnostic checks.
func runDoctor(configName string, env *Environment) *doctorResult {
	result := &doctorResult{
		Status: statusReady,
		Env: envInfo{
			OS:   runtime.GOOS,
			Arch: runtime.GOARCH,
		},
	}

	envCfg := loadEnvConfig(env.Getenv)
	cfg := checkConfig(result, configName, envCfg)
	applyEnvConfig(envCfg, cfg)
	checkCredentials(result, cfg)
	checkEnvironment(result, env.Getenv)

	if len(result.Errors) > 0 {
		result.Status = statusErrors
	} else if len(result.Warnings) > 0 {
		result.Status = statusWarnings
	}

	return result
}

// checkConfig loads the selected config, falling back to defaults on error
// so the remaining checks still run.
func checkConfig(result *doctorResult, name string, envCfg *envConfig) *config.Config {
	if name == "" {
		name = envCfg.ConfigPath
	}
	result.Config.Name = name
	if name == "" {
		return config.DefaultConfig()
	}

	cfg, err := config.LoadConfig(name)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Config: %v", err))
		return config.DefaultConfig()
	}
	result.Config.Loaded = true
	return cfg
}

// checkCredentials verifies the OAuth client secret and the token cache.
func checkCredentials(result *doctorResult, cfg *config.Config) {
	secret, token, err := credentialPaths(cfg)
	if err != nil {
		result.Errors = append(result.Errors, err.Error())
		return
	}
	result.Credentials.ClientSecret = secret
	result.Credentials.TokenFile = token

	if _, err := auth.LoadClientConfig(secret, gslides.Scope); err != nil {
		result.Errors = append(result.Errors, err.Error())
	} else {
		result.Credentials.ClientSecretValid = true
	}

	tok, err := auth.TokenStore{Path: token}.Load()
	switch {
	case errors.Is(err, fs.ErrNotExist):
		result.Warnings = append(result.Warnings,
			"No cached token. The first conversion opens a browser for consent")
	case err != nil:
		result.Errors = append(result.Errors, err.Error())
	default:
		result.Credentials.TokenCached = true
		result.Credentials.Refreshable = tok.RefreshToken != ""
		if !result.Credentials.Refreshable && !tok.Valid() {
			result.Warnings = append(result.Warnings,
				"Cached token expired and cannot be refreshed. The next conversion asks for consent again")
		}
	}
}

// checkEnvironment detects headless sessions and CI, where the consent
// page cannot be opened.
func checkEnvironment(result *doctorResult, getenv func(string) string) {
	result.Env.Headless = getenv("SSH_CONNECTION") != "" ||
		(runtime.GOOS == "linux" && getenv("DISPLAY") == "" && getenv("WAYLAND_DISPLAY") == "")

	ciVars := []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL", "CIRCLECI"}
	for _, v := range ciVars {
		if getenv(v) != "" {
			result.Env.CI = true
			break
		}
	}

	if (result.Env.Headless || result.Env.CI) && !result.Credentials.TokenCached {
		result.Warnings = append(result.Warnings,
			"No browser available for consent. Authorize on another machine and copy the token file")
	}
}

// printDoctorResult outputs human-readable diagnostic results.
func printDoctorResult(w io.Writer, r *doctorResult) {
	fmt.Fprintln(w, "md2slides doctor")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Config")
	switch {
	case r.Config.Name == "":
		fmt.Fprintln(w, "  [OK] Using defaults")
	case r.Config.Loaded:
		fmt.Fprintf(w, "  [OK] Loaded %s\n", r.Config.Name)
	default:
		fmt.Fprintf(w, "  [ERROR] Could not load %s\n", r.Config.Name)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Credentials")
	if r.Credentials.ClientSecretValid {
		fmt.Fprintf(w, "  [OK] Client secret: %s\n", r.Credentials.ClientSecret)
	} else {
		fmt.Fprintf(w, "  [ERROR] Client secret: %s\n", r.Credentials.ClientSecret)
	}
	if r.Credentials.TokenCached {
		fmt.Fprintf(w, "  [OK] Token: %s\n", r.Credentials.TokenFile)
		if r.Credentials.Refreshable {
			fmt.Fprintln(w, "  [OK] Refresh token: present")
		}
	} else {
		fmt.Fprintf(w, "  [WARN] Token: not cached (%s)\n", r.Credentials.TokenFile)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Environment")
	fmt.Fprintf(w, "  [OK] Platform: %s/%s\n", r.Env.OS, r.Env.Arch)
	if r.Env.Headless {
		fmt.Fprintln(w, "  [OK] Headless: detected")
	}
	if r.Env.CI {
		fmt.Fprintln(w, "  [OK] CI: detected")
	}
	fmt.Fprintln(w)

	if len(r.Warnings) > 0 {
		fmt.Fprintln(w, "Warnings:")
		for _, warn := range r.Warnings {
			fmt.Fprintf(w, "  [WARN] %s\n", warn)
		}
		fmt.Fprintln(w)
	}

	if len(r.Errors) > 0 {
		fmt.Fprintln(w, "Errors:")
		for _, err := range r.Errors {
			fmt.Fprintf(w, "  [ERROR] %s\n", err)
		}
		fmt.Fprintln(w)
	}

	switch r.Status {
	case statusReady:
		fmt.Fprintln(w, "Status: Ready to convert")
	case statusWarnings:
		fmt.Fprintln(w, "Status: Ready with warnings")
	case statusErrors:
		fmt.Fprintln(w, "Status: Not ready (see errors above)")
	}
}
