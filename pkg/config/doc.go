// Package config loads tensorix configuration.
//
// Configuration is read from YAML, completed with defaults, overridden by
// TENSORIX_* environment variables and validated:
//
//	notation:
//	  max_length: 256
//	tensor:
//	  dimension: 3
//	  basis: e
//	journal:
//	  enabled: true
//	  driver: sqlite3        # sqlite3 | sqlite | memory
//	  path: data/journal.db
//	  retention_days: 30
//	  prune_schedule: "0 3 * * *"
//	watch:
//	  debounce_interval: 100ms
//	  extensions: [.yaml, .yml]
//	telemetry:
//	  logging:
//	    level: info
//	    format: text
//	  metrics:
//	    enabled: false
//	    listen_address: 127.0.0.1:9464
//
// Commands call Initialize once and read the result with GetConfig; library
// code receives a *Config explicitly.
package config
