package onnx

import (
	"google.golang.org/protobuf/encoding/protowire"

	"github.com/modelaudit/modelaudit/pkg/graph"
)

// Field numbers from onnx.proto. Only the fields the analysis reads are
// decoded; everything else is skipped with ConsumeFieldValue.
const (
	fieldModelGraph = 7

	fieldGraphNode        = 1
	fieldGraphName        = 2
	fieldGraphInitializer = 5
	fieldGraphInput       = 11
	fieldGraphOutput      = 12
	fieldGraphValueInfo   = 13

	fieldNodeInput  = 1
	fieldNodeOutput = 2
	fieldNodeName   = 3
	fieldNodeOpType = 4

	fieldTensorDims = 1
	fieldTensorName = 8

	fieldValueInfoName = 1
	fieldValueInfoType = 2

	fieldTypeTensorType = 1

	fieldTensorTypeShape = 2

	fieldShapeDim = 1

	fieldDimValue = 1
	fieldDimParam = 2
)

type modelProto struct {
	graph graphProto
}

type graphProto struct {
	name         string
	nodes        []nodeProto
	initializers []tensorProto
	inputs       []valueInfo
	outputs      []valueInfo
	valueInfos   []valueInfo
}

type nodeProto struct {
	name    string
	opType  string
	inputs  []string
	outputs []string
}

type tensorProto struct {
	name string
	dims []int64
}

type valueInfo struct {
	name  string
	shape *graph.Shape
}

func parseModel(b []byte) (*modelProto, error) {
	m := &modelProto{}
	err := eachField(b, func(num protowire.Number, typ protowire.Type, v []byte) error {
		if num == fieldModelGraph && typ == protowire.BytesType {
			return parseGraphProto(v, &m.graph)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return m, nil
}

func parseGraphProto(b []byte, g *graphProto) error {
	return eachField(b, func(num protowire.Number, typ protowire.Type, v []byte) error {
		if typ != protowire.BytesType {
			return nil
		}
		switch num {
		case fieldGraphName:
			g.name = string(v)
		case fieldGraphNode:
			node, err := parseNode(v)
			if err != nil {
				return err
			}
			g.nodes = append(g.nodes, node)
		case fieldGraphInitializer:
			t, err := parseTensor(v)
			if err != nil {
				return err
			}
			g.initializers = append(g.initializers, t)
		case fieldGraphInput:
			vi, err := parseValueInfo(v)
			if err != nil {
				return err
			}
			g.inputs = append(g.inputs, vi)
		case fieldGraphOutput:
			vi, err := parseValueInfo(v)
			if err != nil {
				return err
			}
			g.outputs = append(g.outputs, vi)
		case fieldGraphValueInfo:
			vi, err := parseValueInfo(v)
			if err != nil {
				return err
			}
			g.valueInfos = append(g.valueInfos, vi)
		}
		return nil
	})
}

func parseNode(b []byte) (nodeProto, error) {
	var n nodeProto
	err := eachField(b, func(num protowire.Number, typ protowire.Type, v []byte) error {
		if typ != protowire.BytesType {
			return nil
		}
		switch num {
		case fieldNodeInput:
			n.inputs = append(n.inputs, string(v))
		case fieldNodeOutput:
			n.outputs = append(n.outputs, string(v))
		case fieldNodeName:
			n.name = string(v)
		case fieldNodeOpType:
			n.opType = string(v)
		}
		return nil
	})
	return n, err
}

// parseTensor reads an initializer's name and dims. dims is a repeated int64,
// which appears packed or unpacked depending on the producer.
func parseTensor(b []byte) (tensorProto, error) {
	var t tensorProto
	err := eachFieldRaw(b, func(num protowire.Number, typ protowire.Type, rest []byte) (int, error) {
		switch {
		case num == fieldTensorDims && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(rest)
			if n < 0 {
				return n, nil
			}
			t.dims = append(t.dims, int64(v))
			return n, nil
		case num == fieldTensorDims && typ == protowire.BytesType:
			v, n := protowire.ConsumeBytes(rest)
			if n < 0 {
				return n, nil
			}
			for len(v) > 0 {
				d, dn := protowire.ConsumeVarint(v)
				if dn < 0 {
					return dn, nil
				}
				t.dims = append(t.dims, int64(d))
				v = v[dn:]
			}
			return n, nil
		case num == fieldTensorName && typ == protowire.BytesType:
			v, n := protowire.ConsumeBytes(rest)
			if n < 0 {
				return n, nil
			}
			t.name = string(v)
			return n, nil
		}
		return protowire.ConsumeFieldValue(num, typ, rest), nil
	})
	return t, err
}

func parseValueInfo(b []byte) (valueInfo, error) {
	var vi valueInfo
	err := eachField(b, func(num protowire.Number, typ protowire.Type, v []byte) error {
		if typ != protowire.BytesType {
			return nil
		}
		switch num {
		case fieldValueInfoName:
			vi.name = string(v)
		case fieldValueInfoType:
			shape, err := parseTypeProto(v)
			if err != nil {
				return err
			}
			vi.shape = shape
		}
		return nil
	})
	return vi, err
}

func parseTypeProto(b []byte) (*graph.Shape, error) {
	var shape *graph.Shape
	err := eachField(b, func(num protowire.Number, typ protowire.Type, v []byte) error {
		if num == fieldTypeTensorType && typ == protowire.BytesType {
			return eachField(v, func(num protowire.Number, typ protowire.Type, v []byte) error {
				if num == fieldTensorTypeShape && typ == protowire.BytesType {
					s, err := parseShapeProto(v)
					if err != nil {
						return err
					}
					shape = s
				}
				return nil
			})
		}
		return nil
	})
	return shape, err
}

func parseShapeProto(b []byte) (*graph.Shape, error) {
	dims := []int64{}
	err := eachField(b, func(num protowire.Number, typ protowire.Type, v []byte) error {
		if num == fieldShapeDim && typ == protowire.BytesType {
			d, err := parseDimension(v)
			if err != nil {
				return err
			}
			dims = append(dims, d)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &graph.Shape{Dims: dims}, nil
}

// parseDimension resolves one TensorShapeProto.Dimension: a concrete dim_value
// when present, otherwise UnknownDim (symbolic dim_param or absent value).
func parseDimension(b []byte) (int64, error) {
	dim := graph.UnknownDim
	err := eachFieldRaw(b, func(num protowire.Number, typ protowire.Type, rest []byte) (int, error) {
		if num == fieldDimValue && typ == protowire.VarintType {
			v, n := protowire.ConsumeVarint(rest)
			if n < 0 {
				return n, nil
			}
			dim = int64(v)
			return n, nil
		}
		return protowire.ConsumeFieldValue(num, typ, rest), nil
	})
	return dim, err
}

// eachField walks a message and hands length-delimited field payloads to fn;
// scalar fields are skipped. fn receives the payload for BytesType fields and
// nil otherwise.
func eachField(b []byte, fn func(num protowire.Number, typ protowire.Type, v []byte) error) error {
	return eachFieldRaw(b, func(num protowire.Number, typ protowire.Type, rest []byte) (int, error) {
		if typ == protowire.BytesType {
			v, n := protowire.ConsumeBytes(rest)
			if n < 0 {
				return n, nil
			}
			if err := fn(num, typ, v); err != nil {
				return 0, err
			}
			return n, nil
		}
		if err := fn(num, typ, nil); err != nil {
			return 0, err
		}
		return protowire.ConsumeFieldValue(num, typ, rest), nil
	})
}

// eachFieldRaw is the low-level walker: fn consumes the field value itself and
// returns the number of bytes it consumed, or a negative protowire error count.
func eachFieldRaw(b []byte, fn func(num protowire.Number, typ protowire.Type, rest []byte) (int, error)) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return protowire.ParseError(n)
		}
		b = b[n:]
		consumed, err := fn(num, typ, b)
		if err != nil {
			return err
		}
		if consumed < 0 {
			return protowire.ParseError(consumed)
		}
		b = b[consumed:]
	}
	return nil
}
