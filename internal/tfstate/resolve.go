package tfstate

import (
	"os"
	"path/filepath"
)

// DefaultFileName is the conventional state file name in a working
// directory using local state.
const DefaultFileName = "terraform.tfstate"

// backendStateDir is where terraform keeps backend-managed state metadata.
const backendStateDir = ".terraform"

// ResolvePath picks the state file path for a working directory.
// Resolution order: explicit argument, else the configured default, else
// the backend path <workdir>/.terraform/terraform.tfstate when that file
// exists, else the conventional terraform.tfstate. Relative paths resolve
// against workdir.
func ResolvePath(workdir, explicit, configured string) string {
	path := explicit
	if path == "" {
		path = configured
	}
	if path == "" {
		backendPath := filepath.Join(backendStateDir, DefaultFileName)
		if _, err := os.Stat(filepath.Join(workdir, backendPath)); err == nil {
			path = backendPath
		} else {
			path = DefaultFileName
		}
	}
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(workdir, path)
}
