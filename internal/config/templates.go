package config

import (
	"fmt"
	"os"
)

// Template returns the default parsecgen config file contents.
func Template() string {
	return generatorTemplate
}

func WriteTemplate(path string, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config already exists: %s", path)
		}
	}
	return os.WriteFile(path, []byte(Template()), 0o600)
}

const generatorTemplate = `output_dir = "interface/operations/test/data"
# restrict the run to these suites; empty means all
only = []
verify = false
log_level = "info"
`
