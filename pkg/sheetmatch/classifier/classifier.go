// Package classifier accumulates votes for spreadsheet expressions per tree
// path and resolves the best match of each path.
package classifier

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/ukaji3/sheetmatch-go/pkg/sheetmatch/models"
	"github.com/ukaji3/sheetmatch-go/pkg/sheetmatch/treepath"
)

// ErrEmptyKey indicates an empty path or expression.
var ErrEmptyKey = errors.New("empty key")

type entry struct {
	path string
	bins []models.Bin
}

// Classifier is the vote table of one training session. It is not safe for
// concurrent use.
type Classifier struct {
	logger  *slog.Logger
	entries []*entry
	index   map[string]*entry
	active  string
}

// New creates an empty classifier. A nil logger falls back to slog.Default().
func New(logger *slog.Logger) *Classifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &Classifier{logger: logger, index: make(map[string]*entry)}
}

// Register creates or reuses the entry for path and makes it the active one.
func (c *Classifier) Register(path string) error {
	if path == "" {
		return fmt.Errorf("%w: path", ErrEmptyKey)
	}
	c.lookup(path)
	c.active = path
	return nil
}

// Active returns the most recently registered path.
func (c *Classifier) Active() string {
	return c.active
}

// Vote adds one vote for expression under the active path.
func (c *Classifier) Vote(expression string) error {
	return c.VoteFor(c.active, expression)
}

// VoteFor adds one vote for expression under path.
func (c *Classifier) VoteFor(path, expression string) error {
	if path == "" {
		return fmt.Errorf("%w: path", ErrEmptyKey)
	}
	if expression == "" {
		return fmt.Errorf("%w: expression for %s", ErrEmptyKey, path)
	}

	e := c.lookup(path)
	for i := range e.bins {
		if e.bins[i].Expression == expression {
			e.bins[i].Votes++
			return nil
		}
	}
	e.bins = append(e.bins, models.Bin{Expression: expression, Votes: 1})
	return nil
}

// Len returns the number of registered paths.
func (c *Classifier) Len() int {
	return len(c.entries)
}

func (c *Classifier) lookup(path string) *entry {
	e, ok := c.index[path]
	if !ok {
		e = &entry{path: path}
		c.index[path] = e
		c.entries = append(c.entries, e)
	}
	return e
}

// Resolution is the outcome of Resolve.
type Resolution struct {
	// Mappings holds the winner of every matched path in registration order.
	Mappings []models.Mapping
	// Ambiguous lists paths whose highest vote count is shared.
	Ambiguous []string
	// Unmatched lists paths that received no votes.
	Unmatched []string
}

// Winner returns the winning expression of path.
func (r Resolution) Winner(path string) (string, bool) {
	for _, m := range r.Mappings {
		if m.Tree == path {
			return m.Sink, true
		}
	}
	return "", false
}

// Resolve selects the candidate with the strictly highest vote count of every
// path. Ties are logged and the first candidate reaching the maximum is kept.
// Calling Resolve again without new votes yields the same result.
func (c *Classifier) Resolve() Resolution {
	var res Resolution
	for _, e := range c.entries {
		winner, ambiguous, ok := best(e.bins)
		if !ok {
			c.logger.Error("could not match path to any path in the sink file", "path", e.path)
			res.Unmatched = append(res.Unmatched, e.path)
			continue
		}
		if ambiguous {
			c.logger.Warn("ambiguous match", "path", e.path, "candidates", len(e.bins), "votes", winner.Votes)
			res.Ambiguous = append(res.Ambiguous, e.path)
		}
		res.Mappings = append(res.Mappings, models.Mapping{Tree: e.path, Sink: winner.Expression})
	}
	return res
}

func best(bins []models.Bin) (winner models.Bin, ambiguous, ok bool) {
	if len(bins) == 0 {
		return models.Bin{}, false, false
	}
	winner = bins[0]
	for _, b := range bins[1:] {
		switch {
		case b.Votes > winner.Votes:
			winner = b
			ambiguous = false
		case b.Votes == winner.Votes:
			ambiguous = true
		}
	}
	return winner, ambiguous, true
}

// Invert resolves the table and maps every winning expression back to its
// tree path. Winning paths the generator cannot expand are rejected.
func (c *Classifier) Invert() (map[string]string, error) {
	return c.InvertResolution(c.Resolve())
}

// InvertResolution is Invert over an already computed resolution.
func (c *Classifier) InvertResolution(res Resolution) (map[string]string, error) {
	inverted := make(map[string]string)
	for _, m := range res.Mappings {
		if err := treepath.CheckExpandable(m.Tree); err != nil {
			return nil, err
		}
		if other, ok := inverted[m.Sink]; ok {
			c.logger.Warn("expression already mapped", "expression", m.Sink, "kept", other, "dropped", m.Tree)
			continue
		}
		inverted[m.Sink] = m.Tree
	}
	return inverted, nil
}

// Dump returns the candidate table of every path in registration order.
func (c *Classifier) Dump() []models.Histogram {
	out := make([]models.Histogram, 0, len(c.entries))
	for _, e := range c.entries {
		_, ambiguous, _ := best(e.bins)
		bins := make([]models.Bin, len(e.bins))
		copy(bins, e.bins)
		out = append(out, models.Histogram{Path: e.path, Bins: bins, Ambiguous: ambiguous})
	}
	return out
}
