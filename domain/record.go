package domain

import (
	"errors"
	"fmt"
	"time"

	"google.golang.org/protobuf/encoding/protowire"
)

// Field numbers of the persisted record. Health is not stored; it is recomputed on load.
const (
	fieldID            protowire.Number = 1
	fieldClass         protowire.Number = 2
	fieldPrivateIP     protowire.Number = 3
	fieldPublicIP      protowire.Number = 4
	fieldHTTPPort      protowire.Number = 5
	fieldHTTPSPort     protowire.Number = 6
	fieldDomain        protowire.Number = 7
	fieldRegisteredAt  protowire.Number = 8
	fieldLastHeartbeat protowire.Number = 9
)

var errTruncatedRecord = errors.New("truncated node record")

// MarshalEntry encodes e in protobuf wire format.
func MarshalEntry(e NodeEntry) []byte {
	b := make([]byte, 0, 64+len(e.ID)+len(e.Domain))
	b = appendString(b, fieldID, string(e.ID))
	b = appendString(b, fieldClass, string(e.Class))
	b = appendString(b, fieldPrivateIP, e.Address.PrivateIP)
	b = appendString(b, fieldPublicIP, e.Address.PublicIP)
	b = appendVarint(b, fieldHTTPPort, uint64(e.Address.HTTPPort))
	b = appendVarint(b, fieldHTTPSPort, uint64(e.Address.HTTPSPort))
	b = appendString(b, fieldDomain, e.Domain)
	b = appendVarint(b, fieldRegisteredAt, uint64(e.RegisteredAt.UnixNano()))
	b = appendVarint(b, fieldLastHeartbeat, uint64(e.LastHeartbeat.UnixNano()))
	return b
}

// UnmarshalEntry decodes a record written by MarshalEntry. Unknown fields are skipped.
func UnmarshalEntry(b []byte) (NodeEntry, error) {
	var e NodeEntry
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return NodeEntry{}, fmt.Errorf("node record tag: %w", protowire.ParseError(n))
		}
		b = b[n:]

		switch {
		case typ == protowire.BytesType && num <= fieldDomain:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return NodeEntry{}, fmt.Errorf("node record field %d: %w", num, protowire.ParseError(n))
			}
			b = b[n:]
			setStringField(&e, num, string(v))
		case typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return NodeEntry{}, fmt.Errorf("node record field %d: %w", num, protowire.ParseError(n))
			}
			b = b[n:]
			setVarintField(&e, num, v)
		default:
			n := protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return NodeEntry{}, fmt.Errorf("node record field %d: %w", num, protowire.ParseError(n))
			}
			b = b[n:]
		}
	}
	if e.ID == "" || e.Class == "" {
		return NodeEntry{}, errTruncatedRecord
	}
	return e, nil
}

func setStringField(e *NodeEntry, num protowire.Number, v string) {
	switch num {
	case fieldID:
		e.ID = NodeID(v)
	case fieldClass:
		e.Class = NodeClass(v)
	case fieldPrivateIP:
		e.Address.PrivateIP = v
	case fieldPublicIP:
		e.Address.PublicIP = v
	case fieldDomain:
		e.Domain = v
	}
}

func setVarintField(e *NodeEntry, num protowire.Number, v uint64) {
	switch num {
	case fieldHTTPPort:
		e.Address.HTTPPort = uint16(v)
	case fieldHTTPSPort:
		e.Address.HTTPSPort = uint16(v)
	case fieldRegisteredAt:
		e.RegisteredAt = time.Unix(0, int64(v)).UTC()
	case fieldLastHeartbeat:
		e.LastHeartbeat = time.Unix(0, int64(v)).UTC()
	}
}

func appendString(b []byte, num protowire.Number, v string) []byte {
	if v == "" {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendString(b, v)
}

func appendVarint(b []byte, num protowire.Number, v uint64) []byte {
	if v == 0 {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, v)
}
