// Package knowledge stores what the business education agent has learned:
// concept and case-study items plus the user actions that produced them. It
// ships an in-process repository backed by a JSON Lines file and a MySQL
// repository with embedded schema migrations.
package knowledge
