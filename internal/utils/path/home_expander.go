// Package pathutils resolves user-supplied file system paths.
package pathutils

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
)

const (
	tildeSymbolConstant = "~"
)

// HomeDirectoryProvider resolves the current user's home directory path.
type HomeDirectoryProvider func() (string, error)

// HomeExpander converts a leading "~" into the user's home directory. The home
// directory is looked up once, on first use.
type HomeExpander struct {
	homeDirectoryProvider HomeDirectoryProvider
	lookupOnce            sync.Once
	homeDirectory         string
}

// NewHomeExpander constructs a HomeExpander using the operating system lookup.
func NewHomeExpander() *HomeExpander {
	return NewHomeExpanderWithProvider(os.UserHomeDir)
}

// NewHomeExpanderWithProvider constructs a HomeExpander with a custom provider.
func NewHomeExpanderWithProvider(provider HomeDirectoryProvider) *HomeExpander {
	if provider == nil {
		provider = os.UserHomeDir
	}
	return &HomeExpander{homeDirectoryProvider: provider}
}

// Expand resolves "~" and "~/..." to paths under the home directory. Other inputs,
// including "~user" forms, are returned unchanged.
func (expander *HomeExpander) Expand(candidatePath string) string {
	if expander == nil || !strings.HasPrefix(candidatePath, tildeSymbolConstant) {
		return candidatePath
	}

	remainder := strings.TrimPrefix(candidatePath, tildeSymbolConstant)
	if len(remainder) > 0 && remainder[0] != '/' && remainder[0] != os.PathSeparator {
		return candidatePath
	}

	homeDirectory := expander.resolveHomeDirectory()
	if len(homeDirectory) == 0 {
		return candidatePath
	}
	return filepath.Join(homeDirectory, remainder)
}

// Resolve expands the home directory and anchors relative results at baseDirectory.
// An empty baseDirectory leaves relative paths relative to the process working directory.
func (expander *HomeExpander) Resolve(baseDirectory string, candidatePath string) string {
	trimmedPath := strings.TrimSpace(candidatePath)
	if len(trimmedPath) == 0 {
		return ""
	}
	expandedPath := expander.Expand(trimmedPath)
	if filepath.IsAbs(expandedPath) || len(baseDirectory) == 0 {
		return expandedPath
	}
	return filepath.Join(expander.Expand(baseDirectory), expandedPath)
}

func (expander *HomeExpander) resolveHomeDirectory() string {
	expander.lookupOnce.Do(func() {
		homeDirectory, lookupError := expander.homeDirectoryProvider()
		if lookupError == nil {
			expander.homeDirectory = homeDirectory
		}
	})
	return expander.homeDirectory
}
