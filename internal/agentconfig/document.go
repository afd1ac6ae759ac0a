// Package agentconfig edits the engine's ai-agent.yaml in place. Edits go
// through yaml.Node so unrelated keys keep their order and comments.
package agentconfig

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/hkjarral/asterisk-ai-voice-agent/bootstrap/internal/fsutil"
)

// RTPWindow is the number of contiguous ports in external_media.port_range.
const RTPWindow = 20

// DefaultAppName is the Stasis app used when asterisk.app_name is unset.
const DefaultAppName = "asterisk-ai-voice-agent"

var (
	ErrNotFound      = errors.New("agent config not found")
	ErrMultiDocument = errors.New("multiple YAML documents are not supported")
)

// PortRangeFor returns the port_range value for an RTP base port.
func PortRangeFor(rtpPort int) string {
	return fmt.Sprintf("%d:%d", rtpPort, rtpPort+RTPWindow-1)
}

type Document struct {
	root *yaml.Node
}

func Parse(data []byte) (*Document, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	var root yaml.Node
	switch err := dec.Decode(&root); {
	case errors.Is(err, io.EOF):
	case err != nil:
		return nil, fmt.Errorf("agentconfig: parse: %w", err)
	default:
		// Saving writes back a single document, so anything after the
		// first would be lost.
		var next yaml.Node
		if err := dec.Decode(&next); err == nil {
			return nil, fmt.Errorf("agentconfig: parse: %w", ErrMultiDocument)
		} else if !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("agentconfig: parse: %w", err)
		}
	}

	if root.Kind == 0 {
		root = yaml.Node{Kind: yaml.DocumentNode, Content: []*yaml.Node{{Kind: yaml.MappingNode, Tag: "!!map"}}}
	}
	if root.Kind != yaml.DocumentNode || len(root.Content) != 1 {
		return nil, fmt.Errorf("agentconfig: parse: expected a single YAML document")
	}
	body := root.Content[0]
	if body.Kind == yaml.ScalarNode && body.Tag == "!!null" {
		*body = yaml.Node{Kind: yaml.MappingNode, Tag: "!!map", HeadComment: body.HeadComment}
	}
	if body.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("agentconfig: parse: top level must be a mapping")
	}
	return &Document{root: &root}, nil
}

func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("agentconfig: %s: %w", path, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("agentconfig: read %s: %w", path, err)
	}
	return Parse(data)
}

// Bytes renders the document in block style with a two-space indent.
func (d *Document) Bytes() ([]byte, error) {
	blockStyle(d.root)

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(d.root); err != nil {
		return nil, fmt.Errorf("agentconfig: encode: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("agentconfig: encode: %w", err)
	}
	return buf.Bytes(), nil
}

func (d *Document) Save(path string) error {
	data, err := d.Bytes()
	if err != nil {
		return err
	}
	perm := os.FileMode(0644)
	if info, err := os.Stat(path); err == nil {
		perm = info.Mode().Perm()
	}
	return fsutil.WriteFileAtomic(path, data, perm)
}

// Keys returns the top-level keys in document order.
func (d *Document) Keys() []string {
	m := d.mapping()
	keys := make([]string, 0, len(m.Content)/2)
	for i := 0; i+1 < len(m.Content); i += 2 {
		keys = append(keys, m.Content[i].Value)
	}
	return keys
}

// SetPorts writes audiosocket.port, external_media.rtp_port and the derived
// external_media.port_range. Missing sections are appended.
func (d *Document) SetPorts(audiosocketPort, rtpPort int) {
	as := ensureMapping(d.mapping(), "audiosocket")
	setScalar(as, "port", intScalar(audiosocketPort))

	em := ensureMapping(d.mapping(), "external_media")
	setScalar(em, "rtp_port", intScalar(rtpPort))
	setScalar(em, "port_range", &yaml.Node{
		Kind:  yaml.ScalarNode,
		Tag:   "!!str",
		Value: PortRangeFor(rtpPort),
		Style: yaml.DoubleQuotedStyle,
	})
}

func (d *Document) SetActivePipeline(name string) {
	setScalar(d.mapping(), "active_pipeline", &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: name})
}

type Summary struct {
	AppName         string
	AudioTransport  string
	ActivePipeline  string
	AudioSocketPort int
	RTPPort         int
	PortRange       string
}

// Summary decodes the handful of fields the bootstrap reports on.
func (d *Document) Summary() (*Summary, error) {
	var raw struct {
		Asterisk struct {
			AppName string `yaml:"app_name"`
		} `yaml:"asterisk"`
		AudioTransport string `yaml:"audio_transport"`
		ActivePipeline string `yaml:"active_pipeline"`
		AudioSocket    struct {
			Port int `yaml:"port"`
		} `yaml:"audiosocket"`
		ExternalMedia struct {
			RTPPort   int    `yaml:"rtp_port"`
			PortRange string `yaml:"port_range"`
		} `yaml:"external_media"`
	}
	if err := d.root.Decode(&raw); err != nil {
		return nil, fmt.Errorf("agentconfig: decode summary: %w", err)
	}

	s := &Summary{
		AppName:         raw.Asterisk.AppName,
		AudioTransport:  raw.AudioTransport,
		ActivePipeline:  raw.ActivePipeline,
		AudioSocketPort: raw.AudioSocket.Port,
		RTPPort:         raw.ExternalMedia.RTPPort,
		PortRange:       raw.ExternalMedia.PortRange,
	}
	if s.AppName == "" {
		s.AppName = DefaultAppName
	}
	return s, nil
}

func (d *Document) mapping() *yaml.Node {
	return d.root.Content[0]
}

func intScalar(v int) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.Itoa(v)}
}

func lookup(m *yaml.Node, key string) *yaml.Node {
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == key {
			return m.Content[i+1]
		}
	}
	return nil
}

// ensureMapping returns the mapping under key, creating it at the end of m
// if absent. An alias to a mapping is expanded into a copy so the anchor
// stays as it was. A null or scalar value is replaced by an empty mapping.
func ensureMapping(m *yaml.Node, key string) *yaml.Node {
	if v := lookup(m, key); v != nil {
		if v.Kind == yaml.AliasNode && v.Alias != nil && v.Alias.Kind == yaml.MappingNode {
			lineComment := v.LineComment
			*v = *cloneNode(v.Alias)
			v.LineComment = lineComment
			return v
		}
		if v.Kind != yaml.MappingNode {
			*v = yaml.Node{Kind: yaml.MappingNode, Tag: "!!map", LineComment: v.LineComment}
		}
		return v
	}
	v := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	m.Content = append(m.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key}, v)
	return v
}

// setScalar replaces the value under key in place, keeping its comments, or
// appends key if absent.
func setScalar(m *yaml.Node, key string, val *yaml.Node) {
	if v := lookup(m, key); v != nil {
		val.HeadComment = v.HeadComment
		val.LineComment = v.LineComment
		val.FootComment = v.FootComment
		*v = *val
		return
	}
	m.Content = append(m.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key}, val)
}

// cloneNode deep-copies n without its anchors. Aliases inside the copy still
// point at the original anchored nodes.
func cloneNode(n *yaml.Node) *yaml.Node {
	c := *n
	c.Anchor = ""
	c.Content = make([]*yaml.Node, len(n.Content))
	for i, child := range n.Content {
		c.Content[i] = cloneNode(child)
	}
	return &c
}

func blockStyle(n *yaml.Node) {
	n.Style &^= yaml.FlowStyle
	for _, c := range n.Content {
		blockStyle(c)
	}
}
