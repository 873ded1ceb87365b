package xmpdom

import (
	"github.com/google/uuid"
	"github.com/signadot/xmpdom/dom"
	"github.com/signadot/xmpdom/nsmap"
)

// InstanceIDPrefix starts generated xmpMM:InstanceID values.
const InstanceIDPrefix = "xmp.iid:"

// NewDocument returns an empty document carrying a fresh
// xmpMM:InstanceID.
func NewDocument() (*dom.Metadata, error) {
	md := dom.NewMetadata()
	id, err := uuid.NewRandom()
	if err != nil {
		md.Release()
		return nil, err
	}
	n, err := dom.NewSimple(nsmap.NSXMPMM, "InstanceID", InstanceIDPrefix+id.String())
	if err != nil {
		md.Release()
		return nil, err
	}
	if err := md.Append(n); err != nil {
		n.Release()
		md.Release()
		return nil, err
	}
	return md, nil
}
