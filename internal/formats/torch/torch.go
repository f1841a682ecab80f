// Package torch normalizes PyTorch checkpoints (.pt/.pth) into the canonical
// graph. Checkpoints are pickle archives; gopickle handles both the legacy and
// the zip-based serialization. Almost all checkpoints in the wild are state
// dictionaries without architecture metadata, so the usual outcome is a graph
// with zero layers plus the raw tensor key listing.
package torch

import (
	"fmt"
	"sort"

	"github.com/nlpodyssey/gopickle/pytorch"
	"github.com/nlpodyssey/gopickle/types"

	"github.com/modelaudit/modelaudit/pkg/graph"
)

// Normalizer converts .pt and .pth checkpoints.
type Normalizer struct{}

// Format returns the human-readable format name.
func (Normalizer) Format() string { return "PyTorch" }

// Normalize loads a checkpoint and produces a canonical model graph.
func (Normalizer) Normalize(path string) (*graph.Model, error) {
	obj, err := pytorch.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load checkpoint: %w", err)
	}
	return FromObject(obj)
}

// FromObject maps an unpickled checkpoint object onto the canonical graph.
// Dict-like objects degrade to a key listing per the state-dictionary
// contract; anything else has no structure the analysis can use.
func FromObject(obj any) (*graph.Model, error) {
	switch t := obj.(type) {
	case *types.OrderedDict:
		// Pickled map iteration order is not reproducible from Go, so the
		// listing is sorted to keep repeated reads identical.
		keys := make([]string, 0, len(t.Map))
		for k := range t.Map {
			keys = append(keys, stringifyKey(k))
		}
		sort.Strings(keys)
		return &graph.Model{RawKeys: keys}, nil
	case *types.Dict:
		keys := make([]string, 0, len(*t))
		for _, entry := range *t {
			keys = append(keys, stringifyKey(entry.Key))
		}
		sort.Strings(keys)
		return &graph.Model{RawKeys: keys}, nil
	default:
		return nil, fmt.Errorf("checkpoint does not contain a state dictionary (got %T)", obj)
	}
}

func stringifyKey(k any) string {
	if s, ok := k.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", k)
}
