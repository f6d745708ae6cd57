package catalog

// FieldType enumerates the search strategies a field mapping can declare.
// A single path may carry several types at once (e.g. autocomplete + string
// on "name"), each contributing an independent scored clause.
type FieldType string

const (
	// FieldAutocomplete maps to an nGram-tokenized autocomplete index.
	FieldAutocomplete FieldType = "autocomplete"
	// FieldString maps to a standard analyzed text index.
	FieldString FieldType = "string"
	// FieldKeyword maps to a keyword-analyzed text index (whole-value terms).
	FieldKeyword FieldType = "keyword"
	// FieldToken maps to a token index for exact-value matching.
	FieldToken FieldType = "token"
	// FieldObjectID maps to an objectId index; filter-only, never scored.
	FieldObjectID FieldType = "objectId"
	// FieldDocument declares a nested document mapping with sub-fields.
	FieldDocument FieldType = "document"
)

// Valid reports whether t is a recognized field type.
func (t FieldType) Valid() bool {
	switch t {
	case FieldAutocomplete, FieldString, FieldKeyword, FieldToken, FieldObjectID, FieldDocument:
		return true
	}
	return false
}

// Searchable reports whether t can back a scored search clause.
// objectId and document mappings only shape the index, they are not
// addressable as free-text strategies.
func (t FieldType) Searchable() bool {
	switch t {
	case FieldAutocomplete, FieldString, FieldKeyword, FieldToken:
		return true
	}
	return false
}

// Fuzzy holds opt-in approximate matching parameters for one field strategy.
type Fuzzy struct {
	MaxEdits      int
	PrefixLength  int
	MaxExpansions int
}

// Field is one search strategy over one dotted field path.
type Field struct {
	Path string
	Type FieldType
	// Boost multiplies the clause's score contribution. 0 means the engine
	// default weight of 1.0.
	Boost float64
	// Fuzzy enables approximate matching for this clause. Nil means exact.
	Fuzzy *Fuzzy
}
