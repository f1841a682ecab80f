package tflite

import (
	flatbuffers "github.com/google/flatbuffers/go"
)

// Hand-written accessors for the subset of the TFLite flatbuffer schema the
// analysis reads. Vtable offsets follow schema.fbs field order (4 + 2*index).

const fileIdentifier = "TFL3"

type modelTable struct {
	tab flatbuffers.Table
}

func rootModel(buf []byte) *modelTable {
	m := &modelTable{}
	m.tab.Bytes = buf
	m.tab.Pos = flatbuffers.GetUOffsetT(buf)
	return m
}

func (m *modelTable) description() string {
	if o := flatbuffers.UOffsetT(m.tab.Offset(10)); o != 0 {
		return string(m.tab.ByteVector(o + m.tab.Pos))
	}
	return ""
}

func (m *modelTable) operatorCodesLength() int {
	if o := flatbuffers.UOffsetT(m.tab.Offset(6)); o != 0 {
		return m.tab.VectorLen(o)
	}
	return 0
}

func (m *modelTable) operatorCode(obj *operatorCodeTable, j int) bool {
	if o := flatbuffers.UOffsetT(m.tab.Offset(6)); o != 0 {
		x := m.tab.Vector(o)
		x += flatbuffers.UOffsetT(j) * 4
		x = m.tab.Indirect(x)
		obj.tab.Bytes = m.tab.Bytes
		obj.tab.Pos = x
		return true
	}
	return false
}

func (m *modelTable) subgraphsLength() int {
	if o := flatbuffers.UOffsetT(m.tab.Offset(8)); o != 0 {
		return m.tab.VectorLen(o)
	}
	return 0
}

func (m *modelTable) subgraph(obj *subGraphTable, j int) bool {
	if o := flatbuffers.UOffsetT(m.tab.Offset(8)); o != 0 {
		x := m.tab.Vector(o)
		x += flatbuffers.UOffsetT(j) * 4
		x = m.tab.Indirect(x)
		obj.tab.Bytes = m.tab.Bytes
		obj.tab.Pos = x
		return true
	}
	return false
}

func (m *modelTable) buffersLength() int {
	if o := flatbuffers.UOffsetT(m.tab.Offset(12)); o != 0 {
		return m.tab.VectorLen(o)
	}
	return 0
}

// bufferSize returns the byte length of buffer j's data vector.
func (m *modelTable) bufferSize(j int) int {
	if o := flatbuffers.UOffsetT(m.tab.Offset(12)); o != 0 {
		x := m.tab.Vector(o)
		x += flatbuffers.UOffsetT(j) * 4
		x = m.tab.Indirect(x)
		var buf bufferTable
		buf.tab.Bytes = m.tab.Bytes
		buf.tab.Pos = x
		return buf.dataLength()
	}
	return 0
}

type bufferTable struct {
	tab flatbuffers.Table
}

func (b *bufferTable) dataLength() int {
	if o := flatbuffers.UOffsetT(b.tab.Offset(4)); o != 0 {
		return b.tab.VectorLen(o)
	}
	return 0
}

type operatorCodeTable struct {
	tab flatbuffers.Table
}

func (c *operatorCodeTable) deprecatedBuiltinCode() int8 {
	if o := flatbuffers.UOffsetT(c.tab.Offset(4)); o != 0 {
		return c.tab.GetInt8(o + c.tab.Pos)
	}
	return 0
}

func (c *operatorCodeTable) customCode() string {
	if o := flatbuffers.UOffsetT(c.tab.Offset(6)); o != 0 {
		return string(c.tab.ByteVector(o + c.tab.Pos))
	}
	return ""
}

func (c *operatorCodeTable) builtinCode() int32 {
	if o := flatbuffers.UOffsetT(c.tab.Offset(10)); o != 0 {
		return c.tab.GetInt32(o + c.tab.Pos)
	}
	return 0
}

// resolvedBuiltinCode merges the legacy int8 field with the extended int32
// field that superseded it; readers take the larger of the two.
func (c *operatorCodeTable) resolvedBuiltinCode() int32 {
	dep := int32(c.deprecatedBuiltinCode())
	if bc := c.builtinCode(); bc > dep {
		return bc
	}
	return dep
}

type subGraphTable struct {
	tab flatbuffers.Table
}

func (s *subGraphTable) name() string {
	if o := flatbuffers.UOffsetT(s.tab.Offset(12)); o != 0 {
		return string(s.tab.ByteVector(o + s.tab.Pos))
	}
	return ""
}

func (s *subGraphTable) tensorsLength() int {
	if o := flatbuffers.UOffsetT(s.tab.Offset(4)); o != 0 {
		return s.tab.VectorLen(o)
	}
	return 0
}

func (s *subGraphTable) tensor(obj *tensorTable, j int) bool {
	if o := flatbuffers.UOffsetT(s.tab.Offset(4)); o != 0 {
		x := s.tab.Vector(o)
		x += flatbuffers.UOffsetT(j) * 4
		x = s.tab.Indirect(x)
		obj.tab.Bytes = s.tab.Bytes
		obj.tab.Pos = x
		return true
	}
	return false
}

func (s *subGraphTable) inputsLength() int {
	if o := flatbuffers.UOffsetT(s.tab.Offset(6)); o != 0 {
		return s.tab.VectorLen(o)
	}
	return 0
}

func (s *subGraphTable) input(j int) int32 {
	if o := flatbuffers.UOffsetT(s.tab.Offset(6)); o != 0 {
		return s.tab.GetInt32(s.tab.Vector(o) + flatbuffers.UOffsetT(j*4))
	}
	return 0
}

func (s *subGraphTable) outputsLength() int {
	if o := flatbuffers.UOffsetT(s.tab.Offset(8)); o != 0 {
		return s.tab.VectorLen(o)
	}
	return 0
}

func (s *subGraphTable) output(j int) int32 {
	if o := flatbuffers.UOffsetT(s.tab.Offset(8)); o != 0 {
		return s.tab.GetInt32(s.tab.Vector(o) + flatbuffers.UOffsetT(j*4))
	}
	return 0
}

func (s *subGraphTable) operatorsLength() int {
	if o := flatbuffers.UOffsetT(s.tab.Offset(10)); o != 0 {
		return s.tab.VectorLen(o)
	}
	return 0
}

func (s *subGraphTable) operator(obj *operatorTable, j int) bool {
	if o := flatbuffers.UOffsetT(s.tab.Offset(10)); o != 0 {
		x := s.tab.Vector(o)
		x += flatbuffers.UOffsetT(j) * 4
		x = s.tab.Indirect(x)
		obj.tab.Bytes = s.tab.Bytes
		obj.tab.Pos = x
		return true
	}
	return false
}

type tensorTable struct {
	tab flatbuffers.Table
}

func (t *tensorTable) shape() []int32 {
	o := flatbuffers.UOffsetT(t.tab.Offset(4))
	if o == 0 {
		return nil
	}
	n := t.tab.VectorLen(o)
	dims := make([]int32, n)
	base := t.tab.Vector(o)
	for j := 0; j < n; j++ {
		dims[j] = t.tab.GetInt32(base + flatbuffers.UOffsetT(j*4))
	}
	return dims
}

func (t *tensorTable) buffer() uint32 {
	if o := flatbuffers.UOffsetT(t.tab.Offset(8)); o != 0 {
		return t.tab.GetUint32(o + t.tab.Pos)
	}
	return 0
}

func (t *tensorTable) name() string {
	if o := flatbuffers.UOffsetT(t.tab.Offset(10)); o != 0 {
		return string(t.tab.ByteVector(o + t.tab.Pos))
	}
	return ""
}

type operatorTable struct {
	tab flatbuffers.Table
}

func (op *operatorTable) opcodeIndex() uint32 {
	if o := flatbuffers.UOffsetT(op.tab.Offset(4)); o != 0 {
		return op.tab.GetUint32(o + op.tab.Pos)
	}
	return 0
}

func (op *operatorTable) inputsLength() int {
	if o := flatbuffers.UOffsetT(op.tab.Offset(6)); o != 0 {
		return op.tab.VectorLen(o)
	}
	return 0
}

func (op *operatorTable) input(j int) int32 {
	if o := flatbuffers.UOffsetT(op.tab.Offset(6)); o != 0 {
		return op.tab.GetInt32(op.tab.Vector(o) + flatbuffers.UOffsetT(j*4))
	}
	return 0
}

func (op *operatorTable) outputsLength() int {
	if o := flatbuffers.UOffsetT(op.tab.Offset(8)); o != 0 {
		return op.tab.VectorLen(o)
	}
	return 0
}

func (op *operatorTable) output(j int) int32 {
	if o := flatbuffers.UOffsetT(op.tab.Offset(8)); o != 0 {
		return op.tab.GetInt32(op.tab.Vector(o) + flatbuffers.UOffsetT(j*4))
	}
	return 0
}
