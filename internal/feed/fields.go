package feed

// FieldStrategy extracts one candidate value from an entry, "" when absent.
type FieldStrategy func(RawEntry) string

// Key reads a string field.
func Key(name string) FieldStrategy {
	return func(e RawEntry) string {
		return e.String(name)
	}
}

// FieldChain is an ordered list of strategies; the first non-empty result wins.
type FieldChain []FieldStrategy

func Keys(names ...string) FieldChain {
	chain := make(FieldChain, 0, len(names))
	for _, name := range names {
		chain = append(chain, Key(name))
	}
	return chain
}

func (c FieldChain) Resolve(e RawEntry) string {
	for _, strategy := range c {
		if v := strategy(e); v != "" {
			return v
		}
	}
	return ""
}
