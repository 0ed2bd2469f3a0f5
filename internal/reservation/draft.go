package reservation

import "github.com/samber/lo"

// Line is one requested item of a job order.
type Line struct {
	ItemID   string `json:"itemId"`
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

// Draft is the ephemeral job order built from the staged quantities.
type Draft struct {
	Lines []Line `json:"lines"`
}

// Empty reports whether the draft has no lines.
func (d Draft) Empty() bool {
	return len(d.Lines) == 0
}

// TotalUnits sums the quantities of every line.
func (d Draft) TotalUnits() int {
	return lo.SumBy(d.Lines, func(l Line) int { return l.Quantity })
}

// Receipt describes a committed job order.
type Receipt struct {
	Reference  string `json:"reference"`
	Sequence   int    `json:"sequence"`
	LineCount  int    `json:"lineCount"`
	TotalUnits int    `json:"totalUnits"`
	Lines      []Line `json:"lines"`
}
