// Package agent defines the capability contract of the business education
// agent and ships a reference provider built on an LLM client, the knowledge
// repository and a learning event publisher.
package agent
