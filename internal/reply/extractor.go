// Package reply turns a conversational runtime's trace list into the single
// reply string shown to the user.
package reply

import (
	"bytes"
	"encoding/json"
	"strings"
)

// TraceEvent is one item of the runtime's response. Only "text" events carry
// reply content; the payload shape depends on the event type.
type TraceEvent struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// textPayload fields are decoded independently so a malformed one does not
// hide the other.
type textPayload struct {
	Message json.RawMessage `json:"message"`
	Slate   json.RawMessage `json:"slate"`
}

// Block is one paragraph of a rich-text document.
type Block []Node

// UnmarshalJSON accepts a block written as an array of nodes or as an object
// holding them under "children". Other shapes decode to an empty block.
func (b *Block) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil
	}

	var nodes []Node
	if data[0] == '[' {
		if err := json.Unmarshal(data, &nodes); err == nil {
			*b = nodes
		}
		return nil
	}

	var elem Node
	if err := json.Unmarshal(data, &elem); err == nil {
		*b = Block{elem}
	}
	return nil
}

// Node is an inline rich-text node. Leaves carry Text, elements carry Children.
type Node struct {
	Text     string
	Children []Node
}

// UnmarshalJSON tolerates non-object nodes and non-string text.
func (n *Node) UnmarshalJSON(data []byte) error {
	var raw struct {
		Text     json.RawMessage `json:"text"`
		Children json.RawMessage `json:"children"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil
	}
	json.Unmarshal(raw.Text, &n.Text)
	json.Unmarshal(raw.Children, &n.Children)
	return nil
}

// Extract decodes data as a JSON array of trace events and returns the reply
// text. Anything that is not an array yields "". Substituting a fallback for
// an empty reply is left to the caller.
func Extract(data []byte) string {
	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return ""
	}

	events := make([]TraceEvent, 0, len(items))
	for _, item := range items {
		var ev TraceEvent
		if err := json.Unmarshal(item, &ev); err != nil {
			continue
		}
		events = append(events, ev)
	}
	return FromEvents(events)
}

// FromEvents joins the text of every "text" event with newlines.
func FromEvents(events []TraceEvent) string {
	messages := make([]string, 0, len(events))
	for _, ev := range events {
		if ev.Type != "text" {
			continue
		}
		if msg := eventText(ev.Payload); msg != "" {
			messages = append(messages, msg)
		}
	}
	return strings.TrimSpace(strings.Join(messages, "\n"))
}

func eventText(payload json.RawMessage) string {
	var p textPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return ""
	}

	var message string
	if err := json.Unmarshal(p.Message, &message); err == nil {
		if message = strings.TrimSpace(message); message != "" {
			return message
		}
	}

	if len(p.Slate) == 0 {
		return ""
	}
	return slateText(p.Slate)
}

// slateText reads a document given either as {"content": [...]} or as the
// bare block list.
func slateText(data json.RawMessage) string {
	var blocks []Block
	if err := json.Unmarshal(data, &blocks); err != nil {
		var doc struct {
			Content []Block `json:"content"`
		}
		if err := json.Unmarshal(data, &doc); err != nil {
			return ""
		}
		blocks = doc.Content
	}

	lines := make([]string, 0, len(blocks))
	for _, block := range blocks {
		var texts []string
		for _, node := range block {
			texts = appendLeafText(texts, node)
		}
		if line := strings.Join(texts, " "); line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}

func appendLeafText(texts []string, n Node) []string {
	if t := strings.TrimSpace(n.Text); t != "" {
		texts = append(texts, t)
	}
	for _, child := range n.Children {
		texts = appendLeafText(texts, child)
	}
	return texts
}
