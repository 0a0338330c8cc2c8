// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HeaderMode selects how a text block is matched against the header band.
type HeaderMode string

const (
	// HeaderIntersects queues any block that intersects the full-width band
	// [0, HeaderHeight].
	HeaderIntersects HeaderMode = "intersects"

	// HeaderAbove queues blocks lying entirely above HeaderHeight.
	HeaderAbove HeaderMode = "above"

	// HeaderCentered queues blocks that start inside the band and whose
	// horizontal centre is within CenterTolerance of the page centre.
	HeaderCentered HeaderMode = "centered"
)

// RedactionOrder selects whether boilerplate classification reads the page
// text before or after the header and keyword redactions are committed.
type RedactionOrder string

const (
	RedactFirst   RedactionOrder = "redact-first"
	ClassifyFirst RedactionOrder = "classify-first"
)

// RuleSet captures every point of variation of the cleaning pipeline.
type RuleSet struct {
	// HeaderHeight is the height of the header band from the page top.
	HeaderHeight float64 `json:"header_height" yaml:"header_height" mapstructure:"header_height" validate:"gte=0"`

	// HeaderMode selects the header band test.
	HeaderMode HeaderMode `json:"header_mode" yaml:"header_mode" mapstructure:"header_mode" validate:"oneof=intersects above centered"`

	// CenterTolerance is the allowed distance between a block centre and the
	// page centre in HeaderCentered mode.
	CenterTolerance float64 `json:"center_tolerance" yaml:"center_tolerance" mapstructure:"center_tolerance" validate:"gte=0"`

	// FooterCutoffOffset is the distance from the page bottom above which the
	// last page is kept; everything below is redacted.
	FooterCutoffOffset float64 `json:"footer_cutoff_offset" yaml:"footer_cutoff_offset" mapstructure:"footer_cutoff_offset" validate:"gte=0"`

	// FooterRuleBand is the bottom band of the last page searched for
	// horizontal rules.
	FooterRuleBand float64 `json:"footer_rule_band" yaml:"footer_rule_band" mapstructure:"footer_rule_band" validate:"gte=0"`

	// RuleMaxHeight is the maximum height of an element treated as a rule line.
	RuleMaxHeight float64 `json:"rule_max_height" yaml:"rule_max_height" mapstructure:"rule_max_height" validate:"gte=0"`

	// FooterText anchors the last-page cut at the first occurrence of this
	// text instead of the fixed offset. Empty disables the anchor.
	FooterText string `json:"footer_text,omitempty" yaml:"footer_text,omitempty" mapstructure:"footer_text"`

	// FooterTextMargin extends an anchored cut upward to cover the rule
	// drawn above the footer text.
	FooterTextMargin float64 `json:"footer_text_margin" yaml:"footer_text_margin" mapstructure:"footer_text_margin" validate:"gte=0"`

	// BlankPageMarker is the primary marker of a padding page.
	BlankPageMarker string `json:"blank_page_marker" yaml:"blank_page_marker" mapstructure:"blank_page_marker"`

	// BoilerplateMarkers are additional phrases that mark a page for deletion.
	BoilerplateMarkers []string `json:"boilerplate_markers" yaml:"boilerplate_markers" mapstructure:"boilerplate_markers"`

	// Literals are redacted wherever they occur, ignoring case.
	Literals []string `json:"literals" yaml:"literals" mapstructure:"literals"`

	// CaseSensitive are redacted only where the matched text has exactly
	// this spelling and case.
	CaseSensitive []string `json:"case_sensitive" yaml:"case_sensitive" mapstructure:"case_sensitive"`

	// LeadingPagesToDrop cover pages are removed unconditionally.
	LeadingPagesToDrop int `json:"leading_pages_to_drop" yaml:"leading_pages_to_drop" mapstructure:"leading_pages_to_drop" validate:"gte=0"`

	// Order selects redact-first or classify-first.
	Order RedactionOrder `json:"order" yaml:"order" mapstructure:"order" validate:"oneof=redact-first classify-first"`

	// SecondTextPass re-runs literal redaction after pruning.
	SecondTextPass bool `json:"second_text_pass" yaml:"second_text_pass" mapstructure:"second_text_pass"`

	// Fill is the colour painted over applied redactions: white or black.
	Fill string `json:"fill" yaml:"fill" mapstructure:"fill" validate:"oneof=white black"`
}

// DefaultBoilerplateMarkers lists the phrases that identify padding and
// continuation pages in the exam papers this tool was built for.
var DefaultBoilerplateMarkers = []string{
	"ADDITIONAL PAGE",
	"BEGINS ON PAGE",
	"IS ON THE NEXT PAGE.",
	"PLEASE TURN OVER",
}

// DefaultLiterals lists the strings redacted from every paper.
var DefaultLiterals = []string{
	"www.dynamicpapers.com",
	"[Turn over",
	"DO NOT WRITE IN THIS MARGIN",
	"[Total: 30]",
	"[Total: 15]",
	"Answer all the questions in the spaces provided.",
}

// DefaultCaseSensitive lists the exam-room words removed only in exact case.
var DefaultCaseSensitive = []string{"For", "Examiner's", "Use"}

// DefaultRuleSet returns the rule set used when no configuration overrides
// it: intersecting header band of 38 units, one cover page, redact before
// classify, and a second literal pass after pruning.
func DefaultRuleSet() RuleSet {
	return RuleSet{
		HeaderHeight:       38,
		HeaderMode:         HeaderIntersects,
		CenterTolerance:    20,
		FooterCutoffOffset: 160,
		FooterRuleBand:     60,
		RuleMaxHeight:      5,
		FooterTextMargin:   15,
		BlankPageMarker:    "BLANK PAGE",
		BoilerplateMarkers: append([]string(nil), DefaultBoilerplateMarkers...),
		Literals:           append([]string(nil), DefaultLiterals...),
		CaseSensitive:      append([]string(nil), DefaultCaseSensitive...),
		LeadingPagesToDrop: 1,
		Order:              RedactFirst,
		SecondTextPass:     true,
		Fill:               "white",
	}
}

// CleanConfig holds settings for the cleaning stage.
type CleanConfig struct {
	Rules RuleSet `json:"rules" yaml:"rules" mapstructure:"rules"`

	// InputDir is the directory scanned in batch mode.
	InputDir string `json:"input_dir" yaml:"input_dir" mapstructure:"input_dir"`

	// OutputDir receives <name>_cleaned.pdf files.
	OutputDir string `json:"output_dir" yaml:"output_dir" mapstructure:"output_dir"`

	// Suffix filters batch inputs by file-name suffix (default ".pdf").
	Suffix string `json:"suffix" yaml:"suffix" mapstructure:"suffix"`
}

// SplitConfig holds settings for the question splitting stage.
type SplitConfig struct {
	// InputDir holds cleaned papers named <code>_<s><yy>_qp_<n>_cleaned.pdf.
	InputDir string `json:"input_dir" yaml:"input_dir" mapstructure:"input_dir"`

	// OutputDir is the base of the subject/year/session/paper tree.
	OutputDir string `json:"output_dir" yaml:"output_dir" mapstructure:"output_dir"`

	// Duplicates, when set, switches to per-page duplication: page i is
	// written Duplicates[i] times.
	Duplicates []int `json:"duplicates,omitempty" yaml:"duplicates,omitempty" mapstructure:"duplicates" validate:"dive,gte=0"`
}

// ConversionDirection selects the format conversion.
type ConversionDirection string

const (
	PDFToDOCX ConversionDirection = "pdf-to-docx"
	DOCXToPDF ConversionDirection = "docx-to-pdf"
)

// ConversionConfig holds settings for the format conversion stage.
type ConversionConfig struct {
	Direction ConversionDirection `json:"direction" yaml:"direction" mapstructure:"direction" validate:"oneof=pdf-to-docx docx-to-pdf"`

	// Image overrides the container image used for the direction.
	Image string `json:"image,omitempty" yaml:"image,omitempty" mapstructure:"image"`

	// Timeout bounds a single container run (0 means no limit).
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout" validate:"gte=0"`

	InputDir  string `json:"input_dir" yaml:"input_dir" mapstructure:"input_dir"`
	OutputDir string `json:"output_dir" yaml:"output_dir" mapstructure:"output_dir"`
}

// CatalogConfig holds settings for the past-papers catalog.
type CatalogConfig struct {
	// DBPath is the SQLite database file (default past_papers.db).
	DBPath string `json:"db_path" yaml:"db_path" mapstructure:"db_path"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level  string `json:"level" yaml:"level" mapstructure:"level" validate:"oneof=debug info warn error"`
	Format string `json:"format" yaml:"format" mapstructure:"format" validate:"oneof=console json"`
}

// PipelineConfig groups all stage configurations.
type PipelineConfig struct {
	Log     LogConfig        `json:"log" yaml:"log" mapstructure:"log"`
	Clean   CleanConfig      `json:"clean" yaml:"clean" mapstructure:"clean"`
	Split   SplitConfig      `json:"split" yaml:"split" mapstructure:"split"`
	Convert ConversionConfig `json:"convert" yaml:"convert" mapstructure:"convert"`
	Catalog CatalogConfig    `json:"catalog" yaml:"catalog" mapstructure:"catalog"`
}
