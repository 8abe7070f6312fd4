package schema

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/cbc/message"
)

const jsonDoc = `{
  "messages": [
    {
      "name": "ping",
      "direction": "UPLINK",
      "messageKey": 100,
      "coapCompatible": false,
      "fields": [
        {"name": "seq", "type": "uint", "size": 8},
        {"name": "label", "type": "string", "size": 16, "fixed": true}
      ]
    }
  ]
}`

const yamlDoc = `
messages:
  - name: ping
    direction: UPLINK
    messageKey: 100
    coapCompatible: false
    fields:
      - name: seq
        type: uint
        size: 8
      - name: label
        type: string
        size: 16
        fixed: true
`

func TestParse_JSON(t *testing.T) {
	doc, err := Parse([]byte(jsonDoc), FormatJSON)
	require.NoError(t, err)
	require.Len(t, doc.Messages, 1)
	require.Equal(t, "ping", doc.Messages[0].Name)
	require.Len(t, doc.Messages[0].Fields, 2)
}

func TestParse_YAML(t *testing.T) {
	doc, err := Parse([]byte(yamlDoc), FormatYAML)
	require.NoError(t, err)
	require.Len(t, doc.Messages, 1)
	require.Equal(t, 100, doc.Messages[0].MessageKey)
}

func TestBuildRegistry_JSON(t *testing.T) {
	doc, err := Parse([]byte(jsonDoc), FormatJSON)
	require.NoError(t, err)

	reg, err := BuildRegistry(doc)
	require.NoError(t, err)

	m, err := reg.ByName("ping")
	require.NoError(t, err)
	require.Equal(t, message.Uplink, m.Direction())

	buf, _, err := m.Encode(map[string]any{"seq": 5, "label": "hi"}, nil, 0)
	require.NoError(t, err)
	require.NotEmpty(t, buf)
}

func TestDetectFormat(t *testing.T) {
	f, err := DetectFormat("codec.yaml")
	require.NoError(t, err)
	require.Equal(t, FormatYAML, f)

	f, err = DetectFormat("codec.json")
	require.NoError(t, err)
	require.Equal(t, FormatJSON, f)

	_, err = DetectFormat("codec.txt")
	require.Error(t, err)
}

func TestBuildRegistry_RejectsDuplicateMessageName(t *testing.T) {
	doc := Document{Messages: []MessageSpec{
		{Name: "a", Direction: "UPLINK", MessageKey: 1, Fields: nil},
		{Name: "a", Direction: "UPLINK", MessageKey: 2, Fields: nil},
	}}
	for i := range doc.Messages {
		doc.Messages[i].CoapCompatible = boolPtr(false)
	}

	_, err := BuildRegistry(doc)
	require.Error(t, err)
}

func boolPtr(b bool) *bool { return &b }
