// Package schema implements the declarative codec-definition loader/exporter
// (spec.md §6 "Schema document"): a JSON or YAML document naming an ordered
// list of messages, each with a field list, unmarshaled into field.Spec/
// message.Options and built into field.Field/message.Message values via
// field.Build and message.New. The loader itself is an external
// collaborator, same as spec.md §6 describes — its only contract with the
// core packages is that it yields validated Message/Field values.
package schema

import "github.com/arloliu/cbc/field"

// MessageSpec is the schema-document shape of one message entry.
type MessageSpec struct {
	Name           string       `json:"name" yaml:"name"`
	Direction      string       `json:"direction" yaml:"direction"`
	MessageKey     int          `json:"messageKey" yaml:"messageKey"`
	Description    string       `json:"description,omitempty" yaml:"description,omitempty"`
	CoapCompatible *bool        `json:"coapCompatible,omitempty" yaml:"coapCompatible,omitempty"`
	VsatReserved   *bool        `json:"vsatReserved,omitempty" yaml:"vsatReserved,omitempty"`
	NimoCompatible *bool        `json:"nimoCompatible,omitempty" yaml:"nimoCompatible,omitempty"`
	Fields         []field.Spec `json:"fields" yaml:"fields"`
}

// Document is the top-level schema document shape: an ordered list of
// messages plus optional free-form application metadata.
type Document struct {
	Application string        `json:"application,omitempty" yaml:"application,omitempty"`
	Messages    []MessageSpec `json:"messages" yaml:"messages"`
}
