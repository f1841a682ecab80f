// Package tflite normalizes TensorFlow Lite flatbuffer files into the
// canonical graph. The flatbuffer is read in place through hand-written table
// accessors; no schema-generated code is involved.
package tflite

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/modelaudit/modelaudit/pkg/graph"
)

// Normalizer converts .tflite files.
type Normalizer struct{}

// Format returns the human-readable format name.
func (Normalizer) Format() string { return "TFLite" }

// Normalize reads a TFLite flatbuffer and produces a canonical model graph.
// Layers are the operators of every subgraph in declaration order; a constant
// operator input (one backed by a non-empty buffer) contributes its element
// count to the operator's parameter total.
func (Normalizer) Normalize(path string) (*graph.Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read TFLite file: %w", err)
	}
	if len(data) < 8 {
		return nil, fmt.Errorf("file too small to be a TFLite flatbuffer (%d bytes)", len(data))
	}
	if ident := string(data[4:8]); ident != fileIdentifier {
		return nil, fmt.Errorf("not a TFLite flatbuffer: identifier %q", ident)
	}

	model := rootModel(data)

	// Operator type names are resolved through the opcode table.
	opNames := make([]string, model.operatorCodesLength())
	var code operatorCodeTable
	for i := range opNames {
		if model.operatorCode(&code, i) {
			opNames[i] = opcodeName(code.resolvedBuiltinCode(), code.customCode())
		}
	}

	m := &graph.Model{Name: model.description()}
	if m.Name == "" {
		m.Name = filepath.Base(path)
	}

	var sg subGraphTable
	for i := 0; i < model.subgraphsLength(); i++ {
		if !model.subgraph(&sg, i) {
			continue
		}
		appendSubgraph(m, model, &sg, opNames, i == 0)
	}
	return m, nil
}

func appendSubgraph(m *graph.Model, model *modelTable, sg *subGraphTable, opNames []string, primary bool) {
	nTensors := sg.tensorsLength()
	tensorName := make([]string, nTensors)
	tensorShape := make([]*graph.Shape, nTensors)
	tensorParams := make([]int64, nTensors)

	var t tensorTable
	for j := 0; j < nTensors; j++ {
		if !sg.tensor(&t, j) {
			continue
		}
		tensorName[j] = t.name()
		tensorShape[j] = graph.Resolve(t.shape())
		if buf := t.buffer(); buf > 0 && int(buf) < model.buffersLength() && model.bufferSize(int(buf)) > 0 {
			tensorParams[j] = tensorShape[j].NumElements()
		}
	}

	// Model-level I/O comes from the primary subgraph only.
	if primary {
		for j := 0; j < sg.inputsLength(); j++ {
			if idx := sg.input(j); idx >= 0 && int(idx) < nTensors {
				m.Inputs = append(m.Inputs, tensorShape[idx])
			}
		}
		for j := 0; j < sg.outputsLength(); j++ {
			if idx := sg.output(j); idx >= 0 && int(idx) < nTensors {
				m.Outputs = append(m.Outputs, tensorShape[idx])
			}
		}
	}

	var op operatorTable
	for j := 0; j < sg.operatorsLength(); j++ {
		if !sg.operator(&op, j) {
			continue
		}
		layer := graph.Layer{Type: "UNKNOWN"}
		if idx := int(op.opcodeIndex()); idx < len(opNames) && opNames[idx] != "" {
			layer.Type = opNames[idx]
		}

		for k := 0; k < op.inputsLength(); k++ {
			// -1 marks an omitted optional input.
			idx := op.input(k)
			if idx < 0 || int(idx) >= nTensors {
				continue
			}
			layer.Params += tensorParams[idx]
			if tensorParams[idx] == 0 && layer.InputShape == nil {
				layer.InputShape = tensorShape[idx]
			}
			if name := tensorName[idx]; name != "" {
				layer.Connections = append(layer.Connections, name)
			}
		}
		if op.outputsLength() > 0 {
			if idx := op.output(0); idx >= 0 && int(idx) < nTensors {
				layer.Name = tensorName[idx]
				layer.OutputShape = tensorShape[idx]
			}
		}
		if layer.Name == "" {
			layer.Name = fmt.Sprintf("%s_%d", layer.Type, j)
		}
		m.Layers = append(m.Layers, layer)
	}
}
