// Package integrity reports whether the scheduler's dependencies are ready.
//
// # Checks
//
//   - Schema: every table and column of the scheduler models exists.
//     Missing ones can be migrated with ?fix=true.
//   - Storage: the bucket holding traces and archived reports exists.
//
// # Routes
//
//	GET /integrity          all checks
//	GET /integrity/schema   schema check, optional fix
//	GET /integrity/storage  storage check
package integrity
