package domain

import (
	"bytes"
	"fmt"
)

const (
	keyNamespace   = "node/"
	topicNamespace = "topic/"
)

// ClassPrefix returns the key prefix shared by every record of class.
func ClassPrefix(class NodeClass) []byte {
	return []byte(keyNamespace + string(class) + "/")
}

// ClassRange returns the half-open key range [start, end) covering every record of class.
func ClassRange(class NodeClass) (start, end []byte) {
	start = ClassPrefix(class)
	end = bytes.Clone(start)
	end[len(end)-1]++
	return start, end
}

// NodeKey returns the composite storage key node/<class>/<id>. Byte order of keys gives (class, id) order.
func NodeKey(class NodeClass, id NodeID) []byte {
	return append(ClassPrefix(class), id...)
}

// ParseNodeKey splits a key produced by NodeKey.
func ParseNodeKey(key []byte) (NodeClass, NodeID, error) {
	rest, ok := bytes.CutPrefix(key, []byte(keyNamespace))
	if !ok {
		return "", "", fmt.Errorf("key %q is outside the node namespace", key)
	}
	classPart, idPart, ok := bytes.Cut(rest, []byte("/"))
	if !ok || len(idPart) == 0 {
		return "", "", fmt.Errorf("malformed node key %q", key)
	}
	class, err := ParseNodeClass(string(classPart))
	if err != nil {
		return "", "", err
	}
	return class, NodeID(idPart), nil
}

// TopicKey returns the storage key topic/<topic> of a topic assignment. Topic keys never fall inside
// a ClassRange.
func TopicKey(topic string) []byte {
	return []byte(topicNamespace + topic)
}

// KeyValue is one record yielded by a store scan. Key and Value are owned by the caller.
type KeyValue struct {
	Key   []byte
	Value []byte
}
