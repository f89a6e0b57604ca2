package transport

import (
	"fmt"

	"jupiter/pkg/ot"
)

// RecordDTO is the JSON wire shape for ot.Record, following the logical
// shape spec.md §6.1 describes (from_site_id, local_count, remote_count,
// operation_tree) without committing to its suggested binary varint
// encoding — JSON over a text WebSocket frame is the teacher's transport,
// so the operation tree is encoded as nested JSON instead of tag bytes.
type RecordDTO struct {
	FromSite uint32  `json:"fromSite"`
	Local    uint64  `json:"local"`
	Remote   uint64  `json:"remote"`
	Op       *OpNode `json:"op"`
}

// OpNode mirrors ot.Operation's tagged-variant shape over the wire.
type OpNode struct {
	Kind   string  `json:"kind"`
	Pos    int     `json:"pos,omitempty"`
	Text   string  `json:"text,omitempty"`
	First  *OpNode `json:"first,omitempty"`
	Second *OpNode `json:"second,omitempty"`
}

var kindNames = map[ot.Kind]string{
	ot.KindNoOp:   "noop",
	ot.KindInsert: "insert",
	ot.KindDelete: "delete",
	ot.KindSplit:  "split",
}

var kindValues = map[string]ot.Kind{
	"noop":   ot.KindNoOp,
	"insert": ot.KindInsert,
	"delete": ot.KindDelete,
	"split":  ot.KindSplit,
}

// EncodeRecord converts an ot.Record into its wire form.
func EncodeRecord(rec ot.Record) RecordDTO {
	return RecordDTO{
		FromSite: rec.FromSite,
		Local:    rec.Time.Local,
		Remote:   rec.Time.Remote,
		Op:       encodeOp(rec.Op),
	}
}

func encodeOp(op ot.Operation) *OpNode {
	node := &OpNode{Kind: kindNames[op.Kind], Pos: op.Pos, Text: op.Text}
	if op.Kind == ot.KindSplit {
		node.First = encodeOp(*op.First)
		node.Second = encodeOp(*op.Second)
	}
	return node
}

// DecodeRecord converts a wire RecordDTO back into an ot.Record.
func DecodeRecord(dto RecordDTO) (ot.Record, error) {
	op, err := decodeOp(dto.Op)
	if err != nil {
		return ot.Record{}, err
	}
	return ot.Record{
		FromSite: dto.FromSite,
		Time:     ot.VectorTime{Local: dto.Local, Remote: dto.Remote},
		Op:       op,
	}, nil
}

func decodeOp(node *OpNode) (ot.Operation, error) {
	if node == nil {
		return ot.Operation{}, fmt.Errorf("transport: nil operation node")
	}
	kind, ok := kindValues[node.Kind]
	if !ok {
		return ot.Operation{}, fmt.Errorf("transport: unknown operation kind %q", node.Kind)
	}

	switch kind {
	case ot.KindNoOp:
		return ot.NewNoOp(), nil
	case ot.KindInsert:
		return ot.NewInsert(node.Pos, node.Text), nil
	case ot.KindDelete:
		return ot.NewDelete(node.Pos, node.Text), nil
	case ot.KindSplit:
		first, err := decodeOp(node.First)
		if err != nil {
			return ot.Operation{}, err
		}
		second, err := decodeOp(node.Second)
		if err != nil {
			return ot.Operation{}, err
		}
		return ot.NewSplitForDecode(first, second), nil
	default:
		return ot.Operation{}, fmt.Errorf("transport: unhandled operation kind %q", node.Kind)
	}
}
