// Package repository defines the persistence contract for the
// scoring pipeline and its GORM-backed implementation.
package repository

// Option applies a configuration option to the GormStore.
type Option func(*GormStore)

// WithAutoMigrate runs schema migration for the pipeline tables on
// construction.
func WithAutoMigrate() Option {
	return func(s *GormStore) {
		s.autoMigrate = true
	}
}
