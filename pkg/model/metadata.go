package model

// NameMap implements a bidirectional mapping between a name and an index
type NameMap struct {
	NameToIndex map[string]int
	IndexToName map[int]string
}

func NewNameMap() *NameMap {
	return &NameMap{
		NameToIndex: map[string]int{},
		IndexToName: map[int]string{},
	}
}

func (m *NameMap) Set(name string, index int) {
	m.NameToIndex[name] = index
	m.IndexToName[index] = name
}

func (m *NameMap) Size() int {
	return len(m.IndexToName)
}

// ValueFor returns the index assigned to name, assigning the next free index
// when the name has not been seen before.
func (m *NameMap) ValueFor(name string) int {
	index, ok := m.NameToIndex[name]
	if !ok {
		index = m.Size()
		m.Set(name, index)
	}
	return index
}

func (m *NameMap) IndexFor(name string) (int, bool) {
	index, ok := m.NameToIndex[name]
	return index, ok
}

// Metadata holds the mappings built while parsing a dataset.
type Metadata struct {
	// Speakers maps a speaker name to its position in the one-hot speaker
	// input vector. Its size determines the speaker input dimension.
	Speakers *NameMap

	// Labels maps a target label to its class index.
	Labels *NameMap
}

func NewMetadata() *Metadata {
	return &Metadata{
		Speakers: NewNameMap(),
		Labels:   NewNameMap(),
	}
}
