// Package llm contains the provider-neutral request/response types used by the
// agent to talk to large language models. Provider adapters live in
// subpackages.
package llm
