// Package workspace manages the throwaway build directory used by a single
// execution: a unique temp dir holding the source file and, after a
// successful compile, the binary.
package workspace

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	// SourceFile is the fixed on-disk name of the submitted program.
	// Compiler diagnostics reference this name, so it must stay stable.
	SourceFile = "main.c"

	// BinaryFile is the name the compile step links the program to.
	BinaryFile = "main"
)

// Workspace is one invocation's private directory. It is never shared:
// concurrent executions each get their own.
type Workspace struct {
	dir string
}

// New creates a fresh workspace under the system temp root and writes the
// source code into it. The caller owns the directory and must Remove it.
func New(sourceCode string) (*Workspace, error) {
	dir, err := os.MkdirTemp("", "c-playground-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create workspace: %w", err)
	}

	if err := os.WriteFile(filepath.Join(dir, SourceFile), []byte(sourceCode), 0o600); err != nil {
		os.RemoveAll(dir)
		return nil, fmt.Errorf("failed to write source file: %w", err)
	}

	return &Workspace{dir: dir}, nil
}

// Dir returns the workspace directory path.
func (w *Workspace) Dir() string { return w.dir }

// SourcePath returns the absolute path of the source file.
func (w *Workspace) SourcePath() string { return filepath.Join(w.dir, SourceFile) }

// BinaryPath returns the absolute path the compiled program lands at.
func (w *Workspace) BinaryPath() string { return filepath.Join(w.dir, BinaryFile) }

// Remove deletes the workspace and everything in it.
func (w *Workspace) Remove() error {
	return os.RemoveAll(w.dir)
}
