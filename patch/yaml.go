package patch

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

type commandDoc struct {
	Type       SysexCommand `yaml:"type"`
	Location   uint8        `yaml:"location,omitempty"`
	PackIndex  uint16       `yaml:"pack_index,omitempty"`
	PatchIndex uint8        `yaml:"patch_index,omitempty"`
	Reserved   uint8        `yaml:"reserved,omitempty"`
}

type plainPatch Patch

type patchDoc struct {
	Command    commandDoc `yaml:"command"`
	plainPatch `yaml:",inline"`
}

func (p Patch) MarshalYAML() (any, error) {
	doc := patchDoc{plainPatch: plainPatch(p)}

	switch c := p.Command.(type) {
	case ReplaceCurrentPatch:
		doc.Command = commandDoc{Type: CmdReplaceCurrentPatch, Location: c.Location, Reserved: c.Reserved}
	case ReplacePatch:
		doc.Command = commandDoc{Type: CmdReplacePatch, PackIndex: c.PackIndex, PatchIndex: c.PatchIndex, Reserved: c.Reserved}
	case nil:
		return nil, fmt.Errorf("patch has no command")
	default:
		return nil, fmt.Errorf("unsupported command %T", c)
	}

	return doc, nil
}

func (p *Patch) UnmarshalYAML(node *yaml.Node) error {
	var doc patchDoc
	if err := node.Decode(&doc); err != nil {
		return err
	}
	*p = Patch(doc.plainPatch)

	switch doc.Command.Type {
	case CmdReplaceCurrentPatch:
		p.Command = ReplaceCurrentPatch{Location: doc.Command.Location, Reserved: doc.Command.Reserved}
	case CmdReplacePatch:
		p.Command = ReplacePatch{PackIndex: doc.Command.PackIndex, PatchIndex: doc.Command.PatchIndex, Reserved: doc.Command.Reserved}
	default:
		return fmt.Errorf("line %d: unsupported command %s", node.Line, doc.Command.Type)
	}

	return nil
}
