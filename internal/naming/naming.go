// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package naming parses exam-paper file names of the form
// {subject}_{s|m|w}{yy}_qp_{paper}[_cleaned].pdf and derives the values that
// other stages key on: output directories and the per-paper strings printed
// in running headers and footers.
package naming

import (
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/pdiddy/paperclean/pkg/types"
)

// ErrMalformed is returned when a file name does not follow the paper naming
// contract. Batch stages skip such files with a warning.
var ErrMalformed = errors.New("malformed paper file name")

var namePattern = regexp.MustCompile(`^(\d+)_([a-z])(\d{2}|\d{4})_qp_(\d{1,2})(_cleaned)?\.pdf$`)

// SessionInfo holds the human-readable forms of a session letter.
type SessionInfo struct {
	// Long is used in directory names (e.g. "May_June").
	Long string
	// Short is printed on the papers themselves (e.g. "M/J").
	Short string
}

// SessionTable maps session letters to their readable forms. It is a value
// handed to Parse; callers needing different labels build their own.
type SessionTable map[types.Session]SessionInfo

// DefaultSessions returns a fresh copy of the standard session table.
func DefaultSessions() SessionTable {
	return SessionTable{
		types.SessionMayJune:  {Long: "May_June", Short: "M/J"},
		types.SessionFebMarch: {Long: "Feb_March", Short: "F/M"},
		types.SessionOctNov:   {Long: "Oct_Nov", Short: "O/N"},
	}
}

// Long returns the directory label for s, or "Unknown_Session".
func (t SessionTable) Long(s types.Session) string {
	if info, ok := t[s]; ok {
		return info.Long
	}
	return "Unknown_Session"
}

// Short returns the printed label for s, or "".
func (t SessionTable) Short(s types.Session) string {
	return t[s].Short
}

// Parse extracts paper metadata from the base name of path. Names that do not
// match the contract, or whose session letter is absent from sessions, yield
// an error wrapping ErrMalformed.
func Parse(path string, sessions SessionTable) (types.PaperName, error) {
	base := filepath.Base(path)
	m := namePattern.FindStringSubmatch(strings.ToLower(base))
	if m == nil {
		return types.PaperName{}, fmt.Errorf("%w: %s", ErrMalformed, base)
	}

	session := types.Session(m[2])
	if _, ok := sessions[session]; !ok {
		return types.PaperName{}, fmt.Errorf("%w: %s (unknown session %q)", ErrMalformed, base, m[2])
	}

	return types.PaperName{
		File:        base,
		SubjectCode: m[1],
		Session:     session,
		YearSuffix:  m[3],
		PaperNumber: m[4],
		Cleaned:     m[5] != "",
	}, nil
}

// OutputDir returns base/subject/year/session/paper for name.
func OutputDir(base string, name types.PaperName, sessions SessionTable) string {
	return filepath.Join(base, name.SubjectCode, name.Year(), sessions.Long(name.Session), name.PaperNumber)
}

// CleanedName returns the output file name of a cleaned paper.
func CleanedName(file string) string {
	ext := filepath.Ext(file)
	stem := strings.TrimSuffix(filepath.Base(file), ext)
	if strings.HasSuffix(stem, "_cleaned") {
		return stem + ext
	}
	return stem + "_cleaned" + ext
}

// Literals returns the paper-specific strings printed in running headers and
// footers: the paper reference in its several typeset forms and the
// copyright line. The paper number and year are zero-padded to two digits.
func Literals(name types.PaperName, sessions SessionTable) []string {
	short := sessions.Short(name.Session)
	paper := name.PaperNumber
	if len(paper) < 2 {
		paper = strings.Repeat("0", 2-len(paper)) + paper
	}
	yy := name.YearSuffix
	if len(yy) == 4 {
		yy = yy[2:]
	}

	return []string{
		"© UCLES 20" + yy,
		fmt.Sprintf("%s/%s/%s/%s", name.SubjectCode, paper, short, yy),
		fmt.Sprintf("%s/%s/ %s/%s", name.SubjectCode, paper, short, yy),
		fmt.Sprintf("%s_%s_%s%s", name.SubjectCode, paper, short, yy),
		fmt.Sprintf("%s/%s/%s%s", name.SubjectCode, paper, short, yy),
	}
}
