package queryengine

import "github.com/wagiedev/query-engine-go/internal/config"

// ConfigFile is the YAML configuration consumed by WithConfigFile.
type ConfigFile = config.File

// LoadConfig reads the YAML file at path, if it exists, and applies
// QUERY_ENGINE__* environment overrides on top, e.g. QUERY_ENGINE__RETRY=2
// or QUERY_ENGINE__ENV__DATABASE_URL=file:dev.db.
func LoadConfig(path string) (*ConfigFile, error) {
	return config.Load(path)
}
