package log

import "testing"

func TestLayerString(t *testing.T) {
	tests := []struct {
		layer Layer
		want  string
	}{
		{LayerNative, "NATIVE"},
		{LayerManager, "MANAGER"},
		{LayerDiscovery, "DISCOVERY"},
		{Layer(99), "UNKNOWN"},
	}

	for _, tt := range tests {
		got := tt.layer.String()
		if got != tt.want {
			t.Errorf("Layer(%d).String() = %q, want %q", tt.layer, got, tt.want)
		}
	}
}

func TestCategoryString(t *testing.T) {
	tests := []struct {
		cat  Category
		want string
	}{
		{CategoryRole, "ROLE"},
		{CategoryConnectivity, "CONNECTIVITY"},
		{CategoryProvisioning, "PROVISIONING"},
		{CategoryService, "SERVICE"},
		{CategoryAttach, "ATTACH"},
		{CategoryError, "ERROR"},
		{Category(99), "UNKNOWN"},
	}

	for _, tt := range tests {
		got := tt.cat.String()
		if got != tt.want {
			t.Errorf("Category(%d).String() = %q, want %q", tt.cat, got, tt.want)
		}
	}
}

func TestServiceOpString(t *testing.T) {
	ops := map[ServiceOp]string{
		ServiceOpAdd:        "ADD",
		ServiceOpRemove:     "REMOVE",
		ServiceOpInvalidate: "INVALIDATE",
		ServiceOpPrune:      "PRUNE",
		ServiceOpPublish:    "PUBLISH",
		ServiceOpWithdraw:   "WITHDRAW",
		ServiceOp(42):       "UNKNOWN",
	}
	for op, want := range ops {
		if got := op.String(); got != want {
			t.Errorf("ServiceOp(%d).String() = %q, want %q", op, got, want)
		}
	}
}

func TestAttachPhaseString(t *testing.T) {
	if got := AttachPhaseSuperseded.String(); got != "SUPERSEDED" {
		t.Errorf("AttachPhaseSuperseded.String() = %q", got)
	}
	if got := AttachPhase(99).String(); got != "UNKNOWN" {
		t.Errorf("AttachPhase(99).String() = %q", got)
	}
	if got := ConnectivityLost.String(); got != "LOST" {
		t.Errorf("ConnectivityLost.String() = %q", got)
	}
}
