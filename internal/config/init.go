package config

import (
	"fmt"
	"os"
)

const defaultConfigTemplate = `# leetbot configuration
telegram:
  # Bot token, usually injected from the environment or a .env file.
  token: ${LEETBOT_TOKEN}

window:
  hour: 13
  minute: 37
  timezone: Europe/Berlin

# Exact text a valid post must consist of.
token: "1337"

snapshot:
  path: leetbot-state.json
  # Cron expression for periodic state dumps.
  schedule: "*/5 * * * *"
  on_shutdown: true

language:
  default: de
  supported: [de, en]

metrics:
  # Uncomment to expose Prometheus metrics.
  # listen: ":9137"
`

// Init writes a commented default configuration file. Refuses to overwrite
// an existing file unless force is set.
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("configuration file already exists: %s (use --force to overwrite)", configPath)
	}
	if err := os.WriteFile(configPath, []byte(defaultConfigTemplate), 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
