// Package graph defines the canonical, framework-agnostic representation of a
// neural network model. Every format normalizer produces a *Model; everything
// downstream (statistics, advisory rules, report assembly) reads only this
// representation and never touches framework-native objects.
package graph

// Model is the canonical model graph produced by a format normalizer. A Model
// is built once per analysis run and treated as immutable afterwards.
type Model struct {
	// Name is the model identifier from the source file; may be empty.
	Name string

	// Inputs and Outputs hold the model-level I/O shapes, when the source
	// format carries explicit I/O metadata.
	Inputs  []*Shape
	Outputs []*Shape

	// Layers preserves the framework's declaration/topological order.
	Layers []Layer

	// RawKeys lists the tensor names of a state-dictionary source that has no
	// architecture metadata. Non-empty only when Layers is empty.
	RawKeys []string
}

// Layer is one node of a model graph.
type Layer struct {
	// Name is unique within well-formed graphs; duplicates are tolerated.
	Name string

	// Type is a class-name-like category tag. The advisory rules match it
	// case-insensitively by substring, so it is kept verbatim from the source.
	Type string

	// InputShape and OutputShape are nil when the source carries no shape
	// metadata for this layer.
	InputShape  *Shape
	OutputShape *Shape

	// Params counts trainable plus non-trainable parameters owned by this
	// layer; 0 when the source does not expose parameter counts.
	Params int64

	// Connections names the upstream nodes feeding this layer. The list is
	// opaque to the analysis and only counted or displayed.
	Connections []string
}

// TotalParams sums the parameter counts of all layers.
func (m *Model) TotalParams() int64 {
	var total int64
	for _, l := range m.Layers {
		total += l.Params
	}
	return total
}
