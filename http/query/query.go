package query

import (
	"github.com/belyalov/tinyweb/kv"
)

// Query is a lazy view over the raw query string. Its laziness is defined by the fact
// that parameters won't be split and decoded until requested, which most handlers
// never do.
type Query struct {
	parsed bool
	params *kv.Storage
	raw    string
}

func New() *Query {
	return &Query{
		params: kv.New(),
	}
}

// Update sets a new raw query string, dropping whatever was parsed from the previous
// one.
func (q *Query) Update(raw string) {
	q.raw = raw

	if q.parsed {
		q.parsed = false
		q.params.Clear()
	}
}

// Get returns a parameter by its decoded name, parsing the raw string on first use.
func (q *Query) Get(key string) (value string, found bool) {
	return q.Cook().Get(key)
}

// Cook parses the raw string, if not parsed yet, and returns all the parameters.
func (q *Query) Cook() *kv.Storage {
	if !q.parsed {
		q.parsed = true
		Parse(q.raw, q.params)
	}

	return q.params
}

// Raw just returns the raw query string as it arrived.
func (q *Query) Raw() string {
	return q.raw
}
