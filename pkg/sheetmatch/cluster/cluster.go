// Package cluster groups learned tree paths by record type and orders them
// for generation.
package cluster

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ukaji3/sheetmatch-go/pkg/sheetmatch/models"
	"github.com/ukaji3/sheetmatch-go/pkg/sheetmatch/treepath"
)

// ErrUnassignablePath indicates a path outside every known record type.
var ErrUnassignablePath = errors.New("unassignable path")

// Build creates one cluster per name path and inserts every path into the
// cluster whose record-type root it lives under. Clusters keep the order of
// namePaths; members are ordered by Insert.
func Build(namePaths []string, paths []string) ([]models.PathCluster, error) {
	clusters := make([]models.PathCluster, 0, len(namePaths))
	for _, np := range namePaths {
		clusters = append(clusters, models.PathCluster{Root: treepath.BasePath(np), NamePath: np})
	}

	for _, p := range paths {
		i := owner(clusters, p)
		if i < 0 {
			return nil, fmt.Errorf("%w: %s", ErrUnassignablePath, p)
		}
		clusters[i].Members = Insert(clusters[i].Members, p)
	}
	return clusters, nil
}

func owner(clusters []models.PathCluster, path string) int {
	for i, c := range clusters {
		if strings.HasPrefix(path, c.Root+treepath.Separator) {
			return i
		}
	}
	return -1
}

// Insert places path into members so that attributes directly follow their
// node and paths of one repetition scope stay together.
func Insert(members []string, path string) []string {
	at := insertionIndex(members, path)
	out := make([]string, 0, len(members)+1)
	out = append(out, members[:at]...)
	out = append(out, path)
	return append(out, members[at:]...)
}

func insertionIndex(members []string, path string) int {
	if len(members) == 0 {
		return 0
	}

	if treepath.IsAttribute(path) {
		node := treepath.NodePath(path)
		for i, m := range members {
			if m == node || treepath.IsAttributeOf(m, node) {
				return nextNonAttributeOf(members, i+1, node)
			}
		}
	} else {
		for i, m := range members {
			if treepath.IsAttributeOf(m, path) {
				return i
			}
		}
	}

	last := -1
	for i, m := range members {
		if treepath.ShareSameScope(m, path) {
			last = i
		}
	}
	if last >= 0 {
		return nextNonAttributeOf(members, last+1, treepath.NodePath(members[last]))
	}
	return len(members)
}

// nextNonAttributeOf skips the attributes of node starting at from.
func nextNonAttributeOf(members []string, from int, node string) int {
	i := from
	for i < len(members) && treepath.IsAttributeOf(members[i], node) {
		i++
	}
	return i
}
