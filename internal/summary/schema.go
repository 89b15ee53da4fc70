package summary

import (
	"regexp"
)

// Field is one output field of a normalized record. Paragraph fields have
// their newlines flattened; the rest are only trimmed.
type Field struct {
	Name      string
	Paragraph bool
}

// Schema parameterizes Parse for one output contract.
type Schema struct {
	Primary       string
	Fields        []Field
	SectionLabels []string
	PrefixLimit   int

	patterns map[string]*regexp.Regexp
}

func NewSchema(primary string, fields []Field, sectionLabels []string, prefixLimit int) Schema {
	s := Schema{
		Primary:       primary,
		Fields:        fields,
		SectionLabels: sectionLabels,
		PrefixLimit:   prefixLimit,
		patterns:      make(map[string]*regexp.Regexp, len(fields)),
	}
	for _, f := range fields {
		s.patterns[f.Name] = regexp.MustCompile(`(?s)"` + regexp.QuoteMeta(f.Name) + `"\s*:\s*"((?:\\.|[^"\\])*)"`)
	}
	return s
}

const (
	FieldArticle        = "article"
	FieldMoodKeywords   = "moodKeywords"
	FieldActionKeywords = "actionKeywords"
	FieldArticleTitle   = "articleTitle"
	FieldModel          = "model"
	FieldTokenUsageJSON = "tokenUsageJson"
)

// SummarySchema is the daily-summary output contract.
var SummarySchema = NewSchema(
	FieldArticle,
	[]Field{
		{Name: FieldArticle, Paragraph: true},
		{Name: FieldMoodKeywords},
		{Name: FieldActionKeywords},
		{Name: FieldArticleTitle},
		{Name: FieldModel},
		{Name: FieldTokenUsageJSON},
	},
	[]string{"article", "正文", "文章", "日记", "总结", "摘要", "summary", "内容"},
	800,
)
