// Package config loads RepoLens configuration.
//
// Configuration merges three layers, later layers winning:
//
//  1. Built-in defaults (DefaultConfig)
//  2. A repolens.yaml config file
//  3. REPOLENS_* environment variables
//
// Command-line flags bind on top of the loaded config in cmd/repolens.
//
// # Config File
//
// Load searches the working directory and ~/.repolens for repolens.yaml
// unless an explicit path is given:
//
//	database:
//	  path: ~/.repolens
//	analyzer:
//	  maxFileSize: 1048576
//	  retainUnder: 5000
//	  ignorePatterns:
//	    - "*.generated.py"
//	qa:
//	  contentCap: 3000
//	  historyLimit: 10
//	  cacheSize: 100
//	  cacheTtlSeconds: 600
//	summarizer:
//	  workers: 4
//	llm:
//	  provider: openrouter
//	  model: anthropic/claude-3.5-sonnet
//	logging:
//	  level: info
//	  format: text
//
// Every key is optional; a missing file is not an error unless the path
// was explicit.
//
// # Environment Variables
//
//	REPOLENS_DB_PATH      database directory
//	REPOLENS_LOG_LEVEL    debug, info, warn, error
//	REPOLENS_LOG_FORMAT   text or json
//
// LLM provider selection additionally honors REPOLENS_LLM_PROVIDER,
// OPENROUTER_API_KEY, OLLAMA_MODEL, and OLLAMA_API_URL through the llm
// package's auto-detection when the llm config fields are empty.
package config
