// Package schema defines the literature-review coding schema: the ordered
// output columns, the question table that binds ordinals to columns and
// free-text synonyms, and the Record type produced for each paper.
//
// The question table is the single source of truth shared by the response
// parser and the prompt template; keep the two synchronized through it.
package schema

// Sentinel values for unresolved fields.
const (
	NotSpecified     = "Not specified"
	ProcessingFailed = "Processing failed"
)

// Identity columns.
const (
	ColTitle           = "Title"
	ColIncludeInReview = "Include in Review (Y/N)"
	ColExclusionReason = "Exclusion Reason"
)

// SourceSuffix is appended to a question column to name its citation column.
const SourceSuffix = " - Source"

// Question binds one coding question to its output column and the free-text
// synonyms the parser accepts in place of the numeric ordinal.
type Question struct {
	Ordinal  int
	Column   string
	Synonyms []string
}

// Questions lists the 12 coding questions in ordinal order.
var Questions = []Question{
	{1, "1.1 Primary Stakeholders", []string{"primary stakeholders", "stakeholders"}},
	{2, "1.2 Context", []string{"context"}},
	{3, "1.3 Tech/AI type", []string{"tech/ai type", "technology"}},
	{4, "1.4 Tool/Platform", []string{"tool/platform", "platform"}},
	{5, "1.5 Education level", []string{"education level"}},
	{6, "2.1 Feedback term", []string{"feedback term"}},
	{7, "2.2 Description of context", []string{"description of context"}},
	{8, "2.3 Our evaluation", []string{"our evaluation", "evaluation"}},
	{9, "3.1 Agency type", []string{"agency type", "agency"}},
	{10, "3.2 Feedback timing control", []string{"feedback timing control", "timing control", "timing"}},
	{11, "4.1 Metrics for evaluation", []string{"metrics for evaluation", "metrics"}},
	{12, "4.2 Measurement of agency", []string{"measurement of agency", "measurement"}},
}

// Columns is the ordered header: Title, inclusion decision, exclusion reason,
// then each question column immediately followed by its source column.
var Columns = buildColumns()

func buildColumns() []string {
	cols := []string{ColTitle, ColIncludeInReview, ColExclusionReason}
	for _, q := range Questions {
		cols = append(cols, q.Column, q.Column+SourceSuffix)
	}
	return cols
}

// QuestionByOrdinal maps 1..12 to its question. Returns false for anything else.
func QuestionByOrdinal(n int) (Question, bool) {
	if n < 1 || n > len(Questions) {
		return Question{}, false
	}
	return Questions[n-1], true
}

// Record maps every schema column to a string value. A record always holds
// exactly the schema's column set; unresolved fields carry a sentinel.
type Record map[string]string

// NewRecord returns a record with every column at NotSpecified and Title set.
func NewRecord(title string) Record {
	r := make(Record, len(Columns))
	for _, col := range Columns {
		r[col] = NotSpecified
	}
	r[ColTitle] = title
	return r
}

// EmptyRow returns the record used when extraction or the LLM call failed
// entirely. A failed paper is conservatively excluded, never silently included.
func EmptyRow(title string) Record {
	r := make(Record, len(Columns))
	for _, col := range Columns {
		r[col] = ProcessingFailed
	}
	r[ColTitle] = title
	r[ColIncludeInReview] = "N"
	r[ColExclusionReason] = ProcessingFailed
	return r
}

// Row returns the record's values in schema column order.
func (r Record) Row() []string {
	row := make([]string, len(Columns))
	for i, col := range Columns {
		row[i] = r[col]
	}
	return row
}

// FailedFieldCount reports how many fields hold the ProcessingFailed sentinel.
func (r Record) FailedFieldCount() int {
	n := 0
	for _, v := range r {
		if v == ProcessingFailed {
			n++
		}
	}
	return n
}
