package timeline

import (
	"os"

	"gopkg.in/yaml.v3"
)

// WritePlan dumps the computed plan to a YAML file for inspection. The dump
// never influences rendering.
func WritePlan(p Plan, path string) error {
	data, err := yaml.Marshal(p)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
