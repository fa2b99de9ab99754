// Package config loads the desk's settings from an optional .env file and the environment,
// and builds the Postgres connections for the journal backends.
package config
