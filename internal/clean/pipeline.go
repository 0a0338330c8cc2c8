// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package clean

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pdiddy/paperclean/internal/pdfdoc"
	"github.com/pdiddy/paperclean/pkg/types"
)

// State is the furthest step a Clean run reached.
type State int

const (
	StateOpened State = iota
	StateHeaderRedacted
	StateClassified
	StatePruned
	StateTextRedacted
	StateFooterRedacted
	StateSaved
)

var stateNames = [...]string{
	StateOpened:         "opened",
	StateHeaderRedacted: "header-redacted",
	StateClassified:     "classified",
	StatePruned:         "pruned",
	StateTextRedacted:   "text-redacted",
	StateFooterRedacted: "footer-redacted",
	StateSaved:          "saved",
}

func (s State) String() string {
	if s >= 0 && int(s) < len(stateNames) {
		return stateNames[s]
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Deletion records one page removed by the classifier. Page is the index
// after the leading pages were dropped.
type Deletion struct {
	Page   int
	Reason Reason
	Marker string
}

// Report summarizes one Clean run.
type Report struct {
	Input  string
	Output string
	State  State

	PagesIn  int
	Dropped  int
	Deleted  []Deletion
	PagesOut int

	// Redactions counts the regions applied across all pages.
	Redactions int
}

// ErrSameFile is returned when the output path would overwrite the input.
var ErrSameFile = errors.New("output would overwrite input")

// CleanFile opens input, cleans it into output and closes it.
func CleanFile(open OpenFunc, input, output string, rules types.RuleSet) (Report, error) {
	in, errIn := filepath.Abs(input)
	out, errOut := filepath.Abs(output)
	if errIn == nil && errOut == nil && in == out {
		return Report{Input: input, Output: output}, fmt.Errorf("%s: %w", input, ErrSameFile)
	}

	doc, err := open(input)
	if err != nil {
		return Report{Input: input, Output: output}, err
	}
	defer doc.Close()

	rep, err := Clean(doc, output, rules)
	rep.Input = input
	return rep, err
}

// Clean runs the pipeline on doc and saves the result to output:
//
//  1. drop LeadingPagesToDrop cover pages when the document is longer;
//  2. per page, redact header blocks, case-sensitive keywords and
//     literals, and classify the page text (before or after the
//     redaction according to rules.Order);
//  3. delete the pages marked for deletion;
//  4. optionally repeat the literal redaction on the surviving pages;
//  5. redact the footer of the last page;
//  6. save.
func Clean(doc Document, output string, rules types.RuleSet) (Report, error) {
	rep := Report{Output: output, State: StateOpened, PagesIn: doc.PageCount()}
	red := NewRedactor(rules)

	if n := rules.LeadingPagesToDrop; n > 0 && doc.PageCount() > n {
		lead := make([]int, n)
		for i := range lead {
			lead[i] = i
		}
		if _, err := Prune(doc, lead); err != nil {
			return rep, fmt.Errorf("dropping leading pages: %w", err)
		}
		rep.Dropped = n
	}

	verdicts := make([]Verdict, doc.PageCount())
	classify := func() error {
		for i := range verdicts {
			p, err := doc.Page(i)
			if err != nil {
				return fmt.Errorf("page %d: %w", i, err)
			}
			verdicts[i] = Classify(p.Text(), rules)
		}
		return nil
	}

	if rules.Order == types.ClassifyFirst {
		if err := classify(); err != nil {
			return rep, err
		}
	}
	for i := range verdicts {
		p, err := doc.Page(i)
		if err != nil {
			return rep, fmt.Errorf("page %d: %w", i, err)
		}
		regions := red.HeaderRegions(p)
		regions = append(regions, red.KeywordRegions(p)...)
		regions = append(regions, red.LiteralRegions(p)...)
		n, err := Commit(p, regions)
		if err != nil {
			return rep, fmt.Errorf("page %d: redacting: %w", i, err)
		}
		rep.Redactions += n
	}
	rep.State = StateHeaderRedacted

	if rules.Order != types.ClassifyFirst {
		if err := classify(); err != nil {
			return rep, err
		}
	}
	var marked []int
	for i, v := range verdicts {
		if v.Delete {
			marked = append(marked, i)
			rep.Deleted = append(rep.Deleted, Deletion{Page: i, Reason: v.Reason, Marker: v.Marker})
		}
	}
	rep.State = StateClassified

	if _, err := Prune(doc, marked); err != nil {
		return rep, fmt.Errorf("pruning: %w", err)
	}
	rep.State = StatePruned
	if doc.PageCount() == 0 {
		return rep, fmt.Errorf("every page was removed: %w", pdfdoc.ErrNoPages)
	}

	if rules.SecondTextPass {
		for i := 0; i < doc.PageCount(); i++ {
			p, err := doc.Page(i)
			if err != nil {
				return rep, fmt.Errorf("page %d: %w", i, err)
			}
			n, err := Commit(p, red.LiteralRegions(p))
			if err != nil {
				return rep, fmt.Errorf("page %d: redacting literals: %w", i, err)
			}
			rep.Redactions += n
		}
	}
	rep.State = StateTextRedacted

	last, err := doc.Page(doc.PageCount() - 1)
	if err != nil {
		return rep, fmt.Errorf("last page: %w", err)
	}
	n, err := Commit(last, red.FooterRegions(last))
	if err != nil {
		return rep, fmt.Errorf("last page: redacting footer: %w", err)
	}
	rep.Redactions += n
	rep.State = StateFooterRedacted

	if err := os.MkdirAll(filepath.Dir(output), 0o755); err != nil {
		return rep, fmt.Errorf("creating output directory: %w", err)
	}
	if err := doc.Save(output); err != nil {
		return rep, fmt.Errorf("saving %s: %w", output, err)
	}
	rep.State = StateSaved
	rep.PagesOut = doc.PageCount()
	return rep, nil
}
