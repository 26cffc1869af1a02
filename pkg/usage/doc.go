// Package usage tracks claim occurrences for frequency-limit rules.
//
// A Store records each validated claim and answers "how many times has
// this scope value claimed under this clause within the current period"
// queries. The in-memory store serves tests and ephemeral deployments;
// the SQLite store persists counts across restarts. A cron-driven
// scheduler prunes occurrences past the retention horizon.
package usage
