package burstgen

import (
	"encoding/binary"
	"errors"
	"fmt"
	"github.com/songgao/packets/ethernet"
)

// MaxVlanID is the highest VLAN identifier usable in a tag. 4095 is reserved.
const MaxVlanID = 4094

var (
	ErrInvalidVlanID = errors.New("vlan id out of range")
	ErrTagCount      = errors.New("tag values do not match the tagging")
)

// VlanTagging is a type used to indicate whether/how a frame is tagged. The value
// is number of bytes taken by tagging.
type VlanTagging byte

// Const values for different VlanTagging
const (
	TaggingUntagged     VlanTagging = 0
	TaggingTagged       VlanTagging = 4
	TaggingDoubleTagged VlanTagging = 8
)

func (t VlanTagging) tagging() ethernet.Tagging {
	return ethernet.Tagging(t)
}

// TagData holds the tag control information carried by a frame, two bytes per
// tag. The outer (service) tag comes first on double tagged frames.
type TagData []byte

// withTagging packs one tag control value per tag, outer tag first.
func withTagging(tagging VlanTagging, tags ...uint16) (TagData, error) {
	n := int(tagging) / 4
	if len(tags) != n {
		return nil, fmt.Errorf("%w: %d values for %d tags", ErrTagCount, len(tags), n)
	}

	t := make(TagData, 0, 2*n)
	for _, tci := range tags {
		t = binary.BigEndian.AppendUint16(t, tci)
	}
	return t, nil
}

// VlanTags builds the tag data for a customer VLAN and an optional service
// VLAN. A zero vlanID means untagged; a service VLAN without a customer VLAN is
// rejected.
func VlanTags(vlanID, serviceVlanID uint16) (TagData, error) {
	if vlanID > MaxVlanID || serviceVlanID > MaxVlanID {
		return nil, ErrInvalidVlanID
	}

	switch {
	case vlanID == 0 && serviceVlanID == 0:
		return withTagging(TaggingUntagged)
	case vlanID == 0:
		return nil, errors.New("service vlan requires a customer vlan")
	case serviceVlanID == 0:
		return withTagging(TaggingTagged, vlanID)
	default:
		return withTagging(TaggingDoubleTagged, serviceVlanID, vlanID)
	}
}

// GetTagging derives the tagging from the number of tags held.
func (t TagData) GetTagging() VlanTagging {
	switch len(t) / 2 {
	case 0:
		return TaggingUntagged
	case 1:
		return TaggingTagged
	default:
		return TaggingDoubleTagged
	}
}

// fill writes the tag control information into the tag section of a frame
// whose TPID has already been set.
func (t TagData) fill(tags []byte) {
	switch t.GetTagging() {
	case TaggingTagged:
		copy(tags[2:4], t)
	case TaggingDoubleTagged:
		copy(tags[2:4], t[0:2])
		tags[4] = EtherTypeVLAN[0]
		tags[5] = EtherTypeVLAN[1]
		copy(tags[6:8], t[2:4])
	}
}
