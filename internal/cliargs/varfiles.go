package cliargs

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sync"
)

// VarFiles tracks the temporary tfvars files created for map-valued var
// options during a single invocation. Files are created in the system temp
// directory with a .tfvars.json suffix and are never reused; CleanUp must
// run on every exit path of the invocation that created them.
//
// A VarFiles instance is not safe for concurrent invocations; callers
// serialize invocations per instance (or use one instance per invocation).
type VarFiles struct {
	mu    sync.Mutex
	files []string
}

// NewVarFiles returns an empty manager.
func NewVarFiles() *VarFiles { return &VarFiles{} }

// Create writes variables as a single JSON document to a fresh temporary
// file and returns its path. The caller references the path via a
// -var-file token.
func (vf *VarFiles) Create(variables map[string]any) (string, error) {
	f, err := os.CreateTemp("", "*.tfvars.json")
	if err != nil {
		return "", fmt.Errorf("create var file: %w", err)
	}

	vf.mu.Lock()
	vf.files = append(vf.files, f.Name())
	vf.mu.Unlock()

	enc := json.NewEncoder(f)
	if err := enc.Encode(variables); err != nil {
		_ = f.Close()
		return "", fmt.Errorf("write var file %s: %w", f.Name(), err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close var file %s: %w", f.Name(), err)
	}

	slog.Debug("Created temporary var file", "path", f.Name(), "variables", len(variables))
	return f.Name(), nil
}

// CleanUp removes every tracked file. Removal failures are logged and
// otherwise ignored so cleanup never masks the primary command result.
func (vf *VarFiles) CleanUp() {
	vf.mu.Lock()
	files := vf.files
	vf.files = nil
	vf.mu.Unlock()

	for _, path := range files {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			slog.Warn("Failed to remove temporary var file", "path", path, "error", err)
		}
	}
}
