// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the paperclean toolkit:
// page geometry, parsed exam-paper file names, catalog rows, and the
// per-stage configuration records loaded from paperclean.yaml.
package types

import "fmt"

// Session identifies the examination sitting encoded by a single letter in a
// paper's file name.
type Session string

const (
	SessionMayJune  Session = "s"
	SessionFebMarch Session = "m"
	SessionOctNov   Session = "w"
)

// PaperName holds the metadata encoded in an exam-paper file name such as
// 9706_s24_qp_12.pdf.
type PaperName struct {
	// File is the base name the record was parsed from.
	File string `json:"file" yaml:"file"`

	// SubjectCode is the syllabus code (e.g. "9706").
	SubjectCode string `json:"subject_code" yaml:"subject_code"`

	// Session is the sitting letter (s, m or w).
	Session Session `json:"session" yaml:"session"`

	// YearSuffix is the two-digit year as written in the name (e.g. "24").
	YearSuffix string `json:"year_suffix" yaml:"year_suffix"`

	// PaperNumber is the paper/variant number as written (e.g. "12").
	PaperNumber string `json:"paper_number" yaml:"paper_number"`

	// Cleaned reports whether the name carries the _cleaned suffix.
	Cleaned bool `json:"cleaned" yaml:"cleaned"`
}

// Year returns the four-digit examination year.
func (p PaperName) Year() string {
	if len(p.YearSuffix) == 4 {
		return p.YearSuffix
	}
	return "20" + p.YearSuffix
}

// Stem returns the canonical name without the _cleaned suffix or extension.
func (p PaperName) Stem() string {
	return fmt.Sprintf("%s_%s%s_qp_%s", p.SubjectCode, p.Session, p.YearSuffix, p.PaperNumber)
}

// PaperRecord is one row of the past-papers catalog: a single question of a
// paper together with its syllabus classification.
type PaperRecord struct {
	ID             int64  `db:"id" json:"id" yaml:"id"`
	SubjectName    string `db:"subject_name" json:"subject_name" yaml:"subject_name"`
	SubjectCode    string `db:"subject_code" json:"subject_code" yaml:"subject_code"`
	Topic          string `db:"topic" json:"topic" yaml:"topic"`
	SubTopic       string `db:"sub_topic" json:"sub_topic" yaml:"sub_topic"`
	PaperNumber    string `db:"paper_number" json:"paper_number" yaml:"paper_number"`
	PaperVariant   string `db:"paper_variant" json:"paper_variant" yaml:"paper_variant"`
	Variant        string `db:"variant" json:"variant" yaml:"variant"`
	Difficulty     string `db:"difficulty" json:"difficulty" yaml:"difficulty"`
	Year           string `db:"year" json:"year" yaml:"year"`
	Marks          int    `db:"marks" json:"marks" yaml:"marks"`
	QuestionNumber string `db:"question_number" json:"question_number" yaml:"question_number"`
}
