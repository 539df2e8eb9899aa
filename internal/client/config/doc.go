// Package config loads runtime configuration for the CloudVault CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. CLOUDVAULT_SERVER_URL and CLOUDVAULT_REQUEST_TIMEOUT, optionally
//     from a dotenv file given with -env.
//  3. Optional JSON file selected via -c or -config.
//  4. Command-line flags, which override earlier values.
//
// Supported flags
//
//	-a string   base URL of the server
//	-t int      request timeout (seconds)
//
// # JSON schema
//
//	{
//	  "server_url": "http://127.0.0.1:3001",
//	  "request_timeout": "30s"
//	}
package config
