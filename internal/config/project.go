package config

import (
	"os"
	"path/filepath"
)

// DataPaths holds the resolved locations of the two record snapshots.
type DataPaths struct {
	Payments string
	Pledges  string
}

// ResolveDataPaths determines where the payment and pledge files live.
// Relative paths are resolved against the project dir (the working directory
// by default). If the payments file is missing there, the parent directory is
// tried, which covers running from a subdirectory of the project.
// FUNDBURN_PAYMENTS and FUNDBURN_PLEDGES take precedence over the config.
func ResolveDataPaths(cfg Config) DataPaths {
	root := cfg.Data.ProjectDir
	if root == "" {
		root, _ = os.Getwd()
	}

	payments := cfg.Data.PaymentsPath
	if env := os.Getenv("FUNDBURN_PAYMENTS"); env != "" {
		payments = env
	}
	pledges := cfg.Data.PledgesPath
	if env := os.Getenv("FUNDBURN_PLEDGES"); env != "" {
		pledges = env
	}

	paths := DataPaths{
		Payments: resolveAgainst(root, payments),
		Pledges:  resolveAgainst(root, pledges),
	}
	if _, err := os.Stat(paths.Payments); err == nil || filepath.IsAbs(payments) {
		return paths
	}

	parent := filepath.Dir(root)
	alt := DataPaths{
		Payments: resolveAgainst(parent, payments),
		Pledges:  resolveAgainst(parent, pledges),
	}
	if _, err := os.Stat(alt.Payments); err == nil {
		return alt
	}
	return paths
}

func resolveAgainst(root, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(root, p)
}
