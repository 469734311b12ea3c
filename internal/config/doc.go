// Package config loads the runtime configuration of the business education
// agent from a YAML file (JSON is accepted as well) and fills in defaults so
// that the demo driver can start with nothing but an API key in the
// environment.
package config
