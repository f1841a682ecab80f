// Package onnx normalizes ONNX protobuf model files into the canonical graph.
//
// The ModelProto wire format is decoded directly with protowire instead of
// generated bindings: the analysis only needs the graph topology, tensor
// shapes and initializer dims, a small stable subset of onnx.proto.
package onnx

import (
	"fmt"
	"os"

	"github.com/modelaudit/modelaudit/pkg/graph"
)

// Normalizer converts .onnx files.
type Normalizer struct{}

// Format returns the human-readable format name.
func (Normalizer) Format() string { return "ONNX" }

// Normalize reads an ONNX model file and produces a canonical model graph.
func (Normalizer) Normalize(path string) (*graph.Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read ONNX file: %w", err)
	}
	model, err := parseModel(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode ONNX protobuf: %w", err)
	}
	return buildGraph(&model.graph), nil
}

// buildGraph maps the decoded GraphProto onto the canonical representation.
// Initializer-backed graph inputs are weights, not real model inputs, so they
// are indexed separately and excluded from the input list.
func buildGraph(g *graphProto) *graph.Model {
	initElems := make(map[string]int64, len(g.initializers))
	for _, t := range g.initializers {
		initElems[t.name] = elemCount(t.dims)
	}

	shapes := make(map[string]*graph.Shape)
	for _, infos := range [][]valueInfo{g.inputs, g.outputs, g.valueInfos} {
		for _, vi := range infos {
			if vi.shape != nil {
				shapes[vi.name] = vi.shape
			}
		}
	}

	m := &graph.Model{Name: g.name}

	for _, vi := range g.inputs {
		if _, isInit := initElems[vi.name]; isInit {
			continue
		}
		m.Inputs = append(m.Inputs, vi.shape)
	}
	for _, vi := range g.outputs {
		m.Outputs = append(m.Outputs, vi.shape)
	}

	for i, node := range g.nodes {
		layer := graph.Layer{
			Name:        nodeName(node, i),
			Type:        node.opType,
			Connections: node.inputs,
		}
		for _, in := range node.inputs {
			if n, ok := initElems[in]; ok {
				layer.Params += n
				continue
			}
			if layer.InputShape == nil {
				layer.InputShape = shapes[in]
			}
		}
		if len(node.outputs) > 0 {
			layer.OutputShape = shapes[node.outputs[0]]
		}
		m.Layers = append(m.Layers, layer)
	}
	return m
}

func nodeName(n nodeProto, idx int) string {
	if n.name != "" {
		return n.name
	}
	if len(n.outputs) > 0 && n.outputs[0] != "" {
		return n.outputs[0]
	}
	return fmt.Sprintf("%s_%d", n.opType, idx)
}

// elemCount is the element count of a concrete tensor shape; a zero-rank
// initializer is a scalar with one element.
func elemCount(dims []int64) int64 {
	n := int64(1)
	for _, d := range dims {
		if d < 0 {
			return 0
		}
		n *= d
	}
	return n
}
