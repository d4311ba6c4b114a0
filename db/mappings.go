package db

import (
	"context"
	"fmt"

	"github.com/corvomail/forwardd/rewrite"
)

// Database implements rewrite.Store on the rewrite_mappings table. Adds and
// removes of a single mapping are single statements, so the per-entry
// atomicity the rewrite layer relies on comes directly from PostgreSQL.

func (db *Database) Mappings(ctx context.Context, address string) ([]rewrite.Mapping, error) {
	rows, err := db.timedQuery(ctx, "mappings_by_address", `
		SELECT kind, value
		FROM rewrite_mappings
		WHERE address = $1
	`, address)
	if err != nil {
		return nil, fmt.Errorf("failed to query mappings: %w", err)
	}
	defer rows.Close()

	var mappings []rewrite.Mapping
	for rows.Next() {
		var kind, value string
		if err := rows.Scan(&kind, &value); err != nil {
			return nil, fmt.Errorf("failed to scan mapping: %w", err)
		}
		mappings = append(mappings, rewrite.Mapping{Kind: rewrite.MappingKind(kind), Value: value})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read mappings: %w", err)
	}

	return mappings, nil
}

func (db *Database) AllMappings(ctx context.Context) (map[string][]rewrite.Mapping, error) {
	rows, err := db.timedQuery(ctx, "all_mappings", `
		SELECT address, kind, value
		FROM rewrite_mappings
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query mappings: %w", err)
	}
	defer rows.Close()

	all := make(map[string][]rewrite.Mapping)
	for rows.Next() {
		var address, kind, value string
		if err := rows.Scan(&address, &kind, &value); err != nil {
			return nil, fmt.Errorf("failed to scan mapping: %w", err)
		}
		all[address] = append(all[address], rewrite.Mapping{Kind: rewrite.MappingKind(kind), Value: value})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read mappings: %w", err)
	}

	return all, nil
}

func (db *Database) AddMapping(ctx context.Context, address string, mapping rewrite.Mapping) error {
	// ON CONFLICT DO NOTHING makes re-adding an existing mapping a no-op
	// success.
	_, err := db.timedExec(ctx, "add_mapping", `
		INSERT INTO rewrite_mappings (address, kind, value)
		VALUES ($1, $2, $3)
		ON CONFLICT (address, kind, value) DO NOTHING
	`, address, string(mapping.Kind), mapping.Value)
	if err != nil {
		return fmt.Errorf("failed to add mapping: %w", err)
	}
	return nil
}

func (db *Database) RemoveMapping(ctx context.Context, address string, mapping rewrite.Mapping) error {
	// Removing an absent mapping deletes zero rows, which is a no-op success.
	_, err := db.timedExec(ctx, "remove_mapping", `
		DELETE FROM rewrite_mappings
		WHERE address = $1 AND kind = $2 AND value = $3
	`, address, string(mapping.Kind), mapping.Value)
	if err != nil {
		return fmt.Errorf("failed to remove mapping: %w", err)
	}
	return nil
}
