package catalog

import (
	"github.com/gogo/protobuf/proto"
)

// CatalogState is the db-resident header record for a run catalog, stored
// under gCatalogStateKey and marshaled as a protobuf message.
type CatalogState struct {
	MajorVers    int32   `protobuf:"varint,1,opt,name=major_vers,proto3" json:"major_vers,omitempty"`
	MinorVers    int32   `protobuf:"varint,2,opt,name=minor_vers,proto3" json:"minor_vers,omitempty"`
	Completed    int32   `protobuf:"varint,3,opt,name=completed,proto3" json:"completed,omitempty"`
	NumSolutions []int64 `protobuf:"varint,4,rep,packed,name=num_solutions,proto3" json:"num_solutions,omitempty"`
}

func (m *CatalogState) Reset()         { *m = CatalogState{} }
func (m *CatalogState) String() string { return proto.CompactTextString(m) }
func (*CatalogState) ProtoMessage()    {}
