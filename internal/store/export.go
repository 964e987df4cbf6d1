// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/pollharvest/internal/extract"
)

// Export is one run with its records in published form.
type Export struct {
	Run       Run               `json:"run"`
	Summaries []json.RawMessage `json:"summaries"`
	Tables    []json.RawMessage `json:"tables"`
	Failures  []extract.Failure `json:"failures,omitempty"`
}

// Load reads run id and its records in their original order.
func (s *Store) Load(ctx context.Context, id int64) (*Export, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT r.id, r.source, r.mode, r.extracted_at,
			(SELECT count(*) FROM chart_summaries c WHERE c.run_id = r.id),
			(SELECT count(*) FROM survey_tables t WHERE t.run_id = r.id),
			(SELECT count(*) FROM failures f WHERE f.run_id = r.id)
		FROM runs r WHERE r.id = ?`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("run %d not found", id)
	}
	if err != nil {
		return nil, err
	}

	exp := &Export{Run: run}
	if exp.Summaries, err = s.documents(ctx, `SELECT document FROM chart_summaries WHERE run_id = ? ORDER BY position`, id); err != nil {
		return nil, err
	}
	if exp.Tables, err = s.documents(ctx, `SELECT document FROM survey_tables WHERE run_id = ? ORDER BY position`, id); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT kind, position, message FROM failures WHERE run_id = ? ORDER BY kind, position`, id)
	if err != nil {
		return nil, fmt.Errorf("querying failures: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var f extract.Failure
		if err := rows.Scan(&f.Kind, &f.Index, &f.Error); err != nil {
			return nil, fmt.Errorf("scanning failure: %w", err)
		}
		exp.Failures = append(exp.Failures, f)
	}
	return exp, rows.Err()
}

func (s *Store) documents(ctx context.Context, query string, id int64) ([]json.RawMessage, error) {
	rows, err := s.db.QueryContext(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("querying documents: %w", err)
	}
	defer rows.Close()

	docs := []json.RawMessage{}
	for rows.Next() {
		var doc string
		if err := rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("scanning document: %w", err)
		}
		docs = append(docs, json.RawMessage(doc))
	}
	return docs, rows.Err()
}

// ExportJSON writes run id to w as indented JSON.
func (s *Store) ExportJSON(ctx context.Context, id int64, w io.Writer) error {
	exp, err := s.Load(ctx, id)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(exp)
}

// ExportYAML writes run id to w as YAML with the same key order as the
// JSON export.
func (s *Store) ExportYAML(ctx context.Context, id int64, w io.Writer) error {
	exp, err := s.Load(ctx, id)
	if err != nil {
		return err
	}
	data, err := json.Marshal(exp)
	if err != nil {
		return fmt.Errorf("marshaling export: %w", err)
	}

	// JSON is valid YAML; decoding into a node keeps key order.
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return fmt.Errorf("converting export to YAML: %w", err)
	}
	blockStyle(&node)

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(&node); err != nil {
		return fmt.Errorf("marshaling YAML: %w", err)
	}
	return enc.Close()
}

// blockStyle clears the flow and quoting styles the JSON input left on n.
func blockStyle(n *yaml.Node) {
	n.Style = 0
	for _, c := range n.Content {
		blockStyle(c)
	}
}
