package packet

import (
	"testing"

	"github.com/Suge42/skylink-drone/core/node"
)

func TestRoutingHeaderClone_Independent(t *testing.T) {
	h := RoutingHeader{HopIndex: 1, Hops: []node.NodeId{1, 2, 3}}
	clone := h.Clone()

	clone.Hops[0] = 99
	if h.Hops[0] == 99 {
		t.Fatal("Clone aliased the original Hops backing array")
	}
	if clone.HopIndex != h.HopIndex {
		t.Errorf("Clone().HopIndex = %d, want %d", clone.HopIndex, h.HopIndex)
	}
}

func TestPacketClone_FragmentDoesNotAliasHops(t *testing.T) {
	p := Packet{
		Kind:   Fragment{FragmentIndex: 3},
		Header: RoutingHeader{HopIndex: 0, Hops: []node.NodeId{1, 2}},
	}
	clone := p.Clone()
	clone.Header.Hops[0] = 7
	if p.Header.Hops[0] == 7 {
		t.Fatal("Clone aliased the original packet's Hops")
	}
}

func TestPacketClone_FloodRequestDoesNotAliasPathTrace(t *testing.T) {
	p := Packet{
		Kind: FloodRequest{
			FloodID:     1,
			InitiatorID: 1,
			PathTrace:   []PathEntry{{ID: 1, Kind: node.Client}},
		},
		Header: RoutingHeader{},
	}
	clone := p.Clone()

	cloneFR, ok := clone.Kind.(FloodRequest)
	if !ok {
		t.Fatalf("clone.Kind = %T, want FloodRequest", clone.Kind)
	}
	cloneFR.PathTrace[0].ID = 99

	origFR := p.Kind.(FloodRequest)
	if origFR.PathTrace[0].ID == 99 {
		t.Fatal("Clone aliased the original packet's PathTrace")
	}
}

func TestNackType_String(t *testing.T) {
	tests := []struct {
		typ  NackType
		want string
	}{
		{Dropped, "Dropped"},
		{DestinationIsDrone, "DestinationIsDrone"},
		{ErrorInRouting, "ErrorInRouting"},
		{UnexpectedRecipient, "UnexpectedRecipient"},
		{NackType(99), "Unknown"},
	}
	for _, tt := range tests {
		if got := tt.typ.String(); got != tt.want {
			t.Errorf("NackType(%d).String() = %q, want %q", tt.typ, got, tt.want)
		}
	}
}
