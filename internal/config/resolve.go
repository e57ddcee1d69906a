// SPDX-License-Identifier: MPL-2.0

package config

import (
	"fmt"
	"path/filepath"
)

// cacheDirName is the default cache root under the install root.
const cacheDirName = ".buildboot"

// Resolved returns a copy of c with every path made absolute. InstallRoot
// is resolved against base; the other paths against InstallRoot. An empty
// CacheDir becomes <install_root>/.buildboot.
func (c *Config) Resolved(base string) (*Config, error) {
	root := c.InstallRoot
	if root == "" {
		root = "."
	}
	if !filepath.IsAbs(root) {
		root = filepath.Join(base, root)
	}
	root, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve install root: %w", err)
	}

	abs := func(p string) string {
		if p == "" || filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(root, p)
	}
	absAll := func(ps []string) []string {
		out := make([]string, len(ps))
		for i, p := range ps {
			out[i] = abs(p)
		}
		return out
	}

	r := *c
	r.InstallRoot = root
	r.CacheDir = abs(c.CacheDir)
	if r.CacheDir == "" {
		r.CacheDir = filepath.Join(root, cacheDirName)
	}
	r.EntryPoint = abs(c.EntryPoint)
	r.PexPath = abs(c.PexPath)
	r.SourcePaths = absAll(c.SourcePaths)
	r.RequirementFiles = absAll(c.RequirementFiles)
	r.Native.SourceDirs = absAll(c.Native.SourceDirs)
	r.Native.WorkDir = abs(c.Native.WorkDir)
	if r.Native.WorkDir == "" {
		r.Native.WorkDir = root
	}
	return &r, nil
}
