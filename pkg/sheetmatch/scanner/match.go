package scanner

import (
	"strings"

	"github.com/ukaji3/sheetmatch-go/pkg/sheetmatch/models"
)

// matchState is the progress of matching one line against the pair pool.
type matchState interface{ matchState() }

type awaitingAny struct{}

// nameSeen holds the values still expected after a name was found.
type nameSeen struct{ values []string }

// valueSeen holds the names still expected after a value was found.
type valueSeen struct{ names []string }

type allSeen struct{}

func (awaitingAny) matchState() {}
func (nameSeen) matchState()    {}
func (valueSeen) matchState()   {}
func (allSeen) matchState()     {}

// matchOutcome tells which half of a pair a cell matched.
type matchOutcome int

const (
	noMatch matchOutcome = iota
	matchedName
	matchedValue
)

// matcher compares the cells of one line with the pair pool. The first hit
// fixes the half that was seen; only its complement can match afterwards.
type matcher struct {
	pool  []models.ValueNamePair
	state matchState
}

func newMatcher(pool []models.ValueNamePair) *matcher {
	return &matcher{pool: pool, state: awaitingAny{}}
}

func (m *matcher) test(content string) matchOutcome {
	if content == "" {
		return noMatch
	}

	switch st := m.state.(type) {
	case awaitingAny:
		for _, p := range m.pool {
			if p.Value == p.Name {
				continue
			}
			if p.Value != "" && strings.Contains(content, p.Value) {
				m.state = valueSeen{names: m.namesFor(p.Value)}
				return matchedValue
			}
			if p.Name != "" && strings.Contains(content, p.Name) {
				m.state = nameSeen{values: m.valuesFor(p.Name)}
				return matchedName
			}
		}
	case nameSeen:
		if containsAny(content, st.values) {
			m.state = allSeen{}
			return matchedValue
		}
	case valueSeen:
		if containsAny(content, st.names) {
			m.state = allSeen{}
			return matchedName
		}
	case allSeen:
	}
	return noMatch
}

// missingValues returns the values expected after a name was seen.
func (m *matcher) missingValues() ([]string, bool) {
	st, ok := m.state.(nameSeen)
	return st.values, ok
}

func (m *matcher) namesFor(value string) []string {
	var names []string
	for _, p := range m.pool {
		if p.Value == value && p.Name != value {
			names = append(names, p.Name)
		}
	}
	return names
}

func (m *matcher) valuesFor(name string) []string {
	var values []string
	for _, p := range m.pool {
		if p.Name == name && p.Value != name {
			values = append(values, p.Value)
		}
	}
	return values
}

func containsAny(content string, candidates []string) bool {
	for _, c := range candidates {
		if c != "" && strings.Contains(content, c) {
			return true
		}
	}
	return false
}
