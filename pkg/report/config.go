package report

// Config is the base configuration for all reports.
// This is typically loaded from YAML configuration files.
type Config struct {
	ID         string                 `yaml:"id" json:"id"`
	Name       string                 `yaml:"name" json:"name"`
	Type       string                 `yaml:"type" json:"type"` // e.g., "retention_by_cohort"
	Enabled    bool                   `yaml:"enabled" json:"enabled"`
	GroupBy    string                 `yaml:"group_by" json:"groupBy"` // e.g., "cohort", "platform", "source"
	Exports    []string               `yaml:"exports,omitempty" json:"exports,omitempty"`
	Parameters map[string]interface{} `yaml:"parameters" json:"parameters"` // Report-specific parameters
}

// GetInt retrieves an integer value from parameters with a default.
func (c *Config) GetInt(key string, defaultValue int) int {
	if val, ok := c.Parameters[key]; ok {
		if intVal, ok := val.(int); ok {
			return intVal
		}
	}
	return defaultValue
}

// GetFloat retrieves a float value from parameters with a default.
// YAML decodes whole numbers as int, so both forms are accepted.
func (c *Config) GetFloat(key string, defaultValue float64) float64 {
	if val, ok := c.Parameters[key]; ok {
		switch v := val.(type) {
		case float64:
			return v
		case int:
			return float64(v)
		}
	}
	return defaultValue
}

// GetString retrieves a string value from parameters with a default.
func (c *Config) GetString(key string, defaultValue string) string {
	if val, ok := c.Parameters[key]; ok {
		if strVal, ok := val.(string); ok {
			return strVal
		}
	}
	return defaultValue
}

// GetBool retrieves a boolean value from parameters with a default.
func (c *Config) GetBool(key string, defaultValue bool) bool {
	if val, ok := c.Parameters[key]; ok {
		if boolVal, ok := val.(bool); ok {
			return boolVal
		}
	}
	return defaultValue
}
