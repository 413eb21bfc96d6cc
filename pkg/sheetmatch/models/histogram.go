package models

// Bin is one candidate expression and the number of votes it received.
type Bin struct {
	Expression string `json:"expression" yaml:"expression"`
	Votes      int    `json:"votes" yaml:"votes"`
}

// Histogram is the candidate table of a single tree path.
type Histogram struct {
	// Path is the normalized tree path.
	Path string `json:"path" yaml:"path"`
	// Bins holds the candidates in the order they were first proposed.
	Bins []Bin `json:"bins" yaml:"bins"`
	// Ambiguous is set when two or more bins share the highest vote count.
	Ambiguous bool `json:"ambiguous,omitempty" yaml:"ambiguous,omitempty"`
}

// Mapping links a learned tree path to its winning spreadsheet expression.
type Mapping struct {
	Tree string `json:"tree" yaml:"tree"`
	Sink string `json:"sink" yaml:"sink"`
}
