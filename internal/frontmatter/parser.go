package frontmatter

// Metadata is the parsed content of a metadata block.
type Metadata struct {
	scalars map[string]string
	lists   map[string][]string
	keys    []string
}

func newMetadata() *Metadata {
	return &Metadata{
		scalars: make(map[string]string),
		lists:   make(map[string][]string),
	}
}

// Get returns the scalar value for key.
func (m *Metadata) Get(key string) (string, bool) {
	v, ok := m.scalars[key]
	return v, ok
}

// String returns the scalar value for key, or "" when unset.
func (m *Metadata) String(key string) string {
	return m.scalars[key]
}

// List returns a copy of the item sequence for key. Never nil.
func (m *Metadata) List(key string) []string {
	return append([]string{}, m.lists[key]...)
}

// Has reports whether key appeared in the block, as a scalar or a list.
func (m *Metadata) Has(key string) bool {
	if _, ok := m.scalars[key]; ok {
		return true
	}
	_, ok := m.lists[key]
	return ok
}

// Keys returns keys in order of first appearance.
func (m *Metadata) Keys() []string {
	return append([]string(nil), m.keys...)
}

// Len returns the number of distinct keys.
func (m *Metadata) Len() int {
	return len(m.keys)
}

func (m *Metadata) remember(key string) {
	if !m.Has(key) {
		m.keys = append(m.keys, key)
	}
}

func (m *Metadata) setScalar(key, value string) {
	m.remember(key)
	delete(m.lists, key)
	m.scalars[key] = value
}

func (m *Metadata) startList(key string) {
	m.remember(key)
	delete(m.scalars, key)
	m.lists[key] = []string{}
}

func (m *Metadata) appendItem(key, item string) {
	m.lists[key] = append(m.lists[key], item)
}

type parseState int

const (
	readingScalars parseState = iota
	readingList
)

// Parser splits documents into metadata and body.
type Parser struct {
	listKeys map[string]struct{}
}

// NewParser returns a parser that treats listKeys as item sequences.
// With no keys given, DefaultListKeys is used.
func NewParser(listKeys ...string) *Parser {
	if len(listKeys) == 0 {
		listKeys = DefaultListKeys
	}
	p := &Parser{listKeys: make(map[string]struct{}, len(listKeys))}
	for _, k := range listKeys {
		p.listKeys[k] = struct{}{}
	}
	return p
}

var defaultParser = NewParser()

// Parse splits text with the default parser.
func Parse(text string) (*Metadata, string) {
	return defaultParser.Parse(text)
}

// Parse splits text into its metadata and body. Without a metadata block the
// metadata is empty and the whole text is the body.
func (p *Parser) Parse(text string) (*Metadata, string) {
	md := newMetadata()
	block, ok := Locate(text)
	if !ok {
		return md, text
	}

	state := readingScalars
	listKey := ""
	for _, l := range splitLines(block.region) {
		kind, key, value := classify(l.text)
		switch kind {
		case lineListItem:
			if state == readingList {
				md.appendItem(listKey, value)
			}
		case lineKeyValue:
			if _, isList := p.listKeys[key]; isList {
				md.startList(key)
				state, listKey = readingList, key
				continue
			}
			md.setScalar(key, value)
			state, listKey = readingScalars, ""
		}
	}
	return md, text[block.BodyStart:]
}
