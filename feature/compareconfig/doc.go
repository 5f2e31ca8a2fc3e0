// Package compareconfig provides the database-backed comparison config
// provider used by the reconciliation engine.
//
// Configs are stored per app in replay_compare_configs. A record without an
// operation name applies to the whole app; a record naming an operation
// overrides the fields it sets for that operation only. Resolved configs are
// cached per app and operation for a configurable TTL, and concurrent misses
// for the same key share one database query.
package compareconfig
