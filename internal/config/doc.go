// Package config loads the pipeline's static configuration via viper.
//
// The config file names the invoice sender, search window, Drive folder and
// OAuth client; RACUNI_* environment variables override individual keys.
// Secrets (the token file) live outside the config file and are only
// referenced by path.
package config
