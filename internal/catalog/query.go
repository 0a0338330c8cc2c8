// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/pdiddy/paperclean/pkg/types"
)

// Selection is the set of values chosen so far while narrowing the
// catalog. An empty list leaves its column unconstrained.
type Selection struct {
	Subject       string   `json:"subject" yaml:"subject"`
	Topics        []string `json:"topics,omitempty" yaml:"topics,omitempty"`
	Subtopics     []string `json:"subtopics,omitempty" yaml:"subtopics,omitempty"`
	Years         []string `json:"years,omitempty" yaml:"years,omitempty"`
	Variants      []string `json:"variants,omitempty" yaml:"variants,omitempty"`
	PaperNumbers  []string `json:"paper_numbers,omitempty" yaml:"paper_numbers,omitempty"`
	PaperVariants []string `json:"paper_variants,omitempty" yaml:"paper_variants,omitempty"`
	Difficulties  []string `json:"difficulties,omitempty" yaml:"difficulties,omitempty"`
}

// level is one step of the cascade: the column offered at that step and
// the selection feeding later steps.
type level struct {
	column string
	values func(Selection) []string
}

// cascade lists the filter steps in the order they are offered. Each
// step's choices are narrowed by the selections of every earlier step.
var cascade = []level{
	{"topic", func(s Selection) []string { return s.Topics }},
	{"sub_topic", func(s Selection) []string { return s.Subtopics }},
	{"year", func(s Selection) []string { return s.Years }},
	{"variant", func(s Selection) []string { return s.Variants }},
	{"paper_number", func(s Selection) []string { return s.PaperNumbers }},
	{"paper_variant", func(s Selection) []string { return s.PaperVariants }},
	{"difficulty", func(s Selection) []string { return s.Difficulties }},
}

// where builds the conditions for the subject plus the first n cascade
// levels of sel.
func where(sel Selection, n int) (string, []any) {
	var (
		conds []string
		args  []any
	)
	if sel.Subject != "" {
		conds = append(conds, "subject_name = ?")
		args = append(args, sel.Subject)
	}
	for _, l := range cascade[:n] {
		if vs := l.values(sel); len(vs) > 0 {
			conds = append(conds, l.column+" IN (?)")
			args = append(args, vs)
		}
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// distinct returns the sorted non-empty values of column among the rows
// matching query.
func (s *Store) distinct(ctx context.Context, column, cond string, args []any) ([]string, error) {
	q := "SELECT DISTINCT " + column + " FROM past_papers" + cond
	if cond == "" {
		q += " WHERE "
	} else {
		q += " AND "
	}
	q += column + " <> '' ORDER BY " + column

	if len(args) > 0 {
		var err error
		if q, args, err = sqlx.In(q, args...); err != nil {
			return nil, fmt.Errorf("expanding %s query: %w", column, err)
		}
	}
	out := []string{}
	if err := s.db.SelectContext(ctx, &out, s.db.Rebind(q), args...); err != nil {
		return nil, fmt.Errorf("listing %s: %w", column, err)
	}
	return out, nil
}

// Subjects lists every subject name.
func (s *Store) Subjects(ctx context.Context) ([]string, error) {
	return s.distinct(ctx, "subject_name", "", nil)
}

func (s *Store) choices(ctx context.Context, step int, sel Selection) ([]string, error) {
	cond, args := where(sel, step)
	return s.distinct(ctx, cascade[step].column, cond, args)
}

// Topics lists the topics of sel.Subject.
func (s *Store) Topics(ctx context.Context, sel Selection) ([]string, error) {
	return s.choices(ctx, 0, sel)
}

// Subtopics lists the sub-topics under the selected topics.
func (s *Store) Subtopics(ctx context.Context, sel Selection) ([]string, error) {
	return s.choices(ctx, 1, sel)
}

// Years lists the years left by the topic and sub-topic selections.
func (s *Store) Years(ctx context.Context, sel Selection) ([]string, error) {
	return s.choices(ctx, 2, sel)
}

// Variants lists the variants left after the year selection.
func (s *Store) Variants(ctx context.Context, sel Selection) ([]string, error) {
	return s.choices(ctx, 3, sel)
}

// PaperNumbers lists the paper numbers left after the variant selection.
func (s *Store) PaperNumbers(ctx context.Context, sel Selection) ([]string, error) {
	return s.choices(ctx, 4, sel)
}

// PaperVariants lists the paper variants left after the paper selection.
func (s *Store) PaperVariants(ctx context.Context, sel Selection) ([]string, error) {
	return s.choices(ctx, 5, sel)
}

// Difficulties lists the difficulties left after every other selection.
func (s *Store) Difficulties(ctx context.Context, sel Selection) ([]string, error) {
	return s.choices(ctx, 6, sel)
}

// Filter returns the rows matching every non-empty part of sel, in
// insertion order.
func (s *Store) Filter(ctx context.Context, sel Selection) ([]types.PaperRecord, error) {
	cond, args := where(sel, len(cascade))
	q := "SELECT * FROM past_papers" + cond + " ORDER BY id"
	if len(args) > 0 {
		var err error
		if q, args, err = sqlx.In(q, args...); err != nil {
			return nil, fmt.Errorf("expanding filter query: %w", err)
		}
	}
	records := []types.PaperRecord{}
	if err := s.db.SelectContext(ctx, &records, s.db.Rebind(q), args...); err != nil {
		return nil, fmt.Errorf("filtering catalog: %w", err)
	}
	return records, nil
}
