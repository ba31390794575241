package experiments

// BumpSchemaVersionForTest rewrites the stored schema version.
func (s *Store) BumpSchemaVersionForTest(version int) error {
	_, err := s.db.Exec("UPDATE schema_version SET version = ?", version)
	return err
}
