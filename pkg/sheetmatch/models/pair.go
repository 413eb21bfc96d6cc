package models

// ValueNamePair is one piece of training evidence: a data value and the
// identifier of the record it was taken from.
type ValueNamePair struct {
	// Value is the data value as found in the tree.
	Value string `json:"value" yaml:"value"`
	// Name is the identifier of the owning record.
	Name string `json:"name" yaml:"name"`
}
