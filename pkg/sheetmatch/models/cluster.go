package models

// PathCluster groups the learned tree paths of one record type.
type PathCluster struct {
	// Root is the record-type path, e.g. "team/worker".
	Root string `json:"root" yaml:"root"`
	// NamePath is the path of the identifying field, e.g. "team/worker/uri".
	NamePath string `json:"name_path" yaml:"name_path"`
	// Members lists the tree paths in generation order.
	Members []string `json:"members" yaml:"members"`
}
