package template

const (
	// RandomTemplate asks the resolver for a uniformly random catalog member.
	RandomTemplate = "random"

	// DefaultTemplate is used when a request matches nothing.
	// It is always part of FallbackTemplates.
	DefaultTemplate = "drake"
)

// fallbackTemplates is served when the live catalog has never been fetched.
var fallbackTemplates = []string{
	"drake",
	"distracted-boyfriend",
	"two-buttons",
	"doge",
	"success-kid",
	"gru-plan",
	"change-my-mind",
	"leonardo-dicaprio",
	"buzz",
}

// FallbackTemplates returns a copy of the built-in known-good template ids.
func FallbackTemplates() []string {
	return append([]string(nil), fallbackTemplates...)
}

// Catalog is an ordered, non-empty set of canonical template ids.
type Catalog struct {
	ids []string
	set map[string]struct{}
}

// NewCatalog builds a Catalog from ids, keeping first occurrences in order and
// dropping empty ids. An empty result falls back to FallbackTemplates.
func NewCatalog(ids []string) Catalog {
	c := Catalog{set: make(map[string]struct{}, len(ids))}
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, dup := c.set[id]; dup {
			continue
		}
		c.set[id] = struct{}{}
		c.ids = append(c.ids, id)
	}

	if len(c.ids) == 0 {
		return NewCatalog(fallbackTemplates)
	}
	return c
}

// Contains reports whether id is a catalog member.
func (c Catalog) Contains(id string) bool {
	_, ok := c.set[id]
	return ok
}

// Len returns the number of template ids.
func (c Catalog) Len() int {
	return len(c.ids)
}

// IDs returns a copy of the ids in catalog order.
func (c Catalog) IDs() []string {
	return append([]string(nil), c.ids...)
}

// At returns the i-th id in catalog order.
func (c Catalog) At(i int) string {
	return c.ids[i]
}
