// Package archive keeps point-in-time snapshots of grade-books in SQLite.
//
// A snapshot stores every student, course and grade of a gradebook.Store
// together with the positions that define store order, course insertion
// order and grade append order, so Restore rebuilds an identical book.
//
// # Database Configuration
//
//   - WAL mode
//   - synchronous=NORMAL
//   - busy_timeout=5000
//   - foreign_keys=ON (snapshot rows cascade on Delete)
//
// Snapshot IDs are UUIDv7, so they sort by creation time; List still orders
// by the seq column.
package archive
