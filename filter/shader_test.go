package filter

import (
	"testing"
)

func TestDefaultShader(t *testing.T) {
	tests := []struct {
		name        string
		attributes0 ObjectAttributes
		attributes1 ObjectAttributes
		expected    Decision
		callback    bool
	}{
		{"static/static", AttributeStatic, AttributeStatic, Suppress, false},
		{"static/kinematic", AttributeStatic, AttributeKinematic, Track, true},
		{"kinematic/static", AttributeKinematic, AttributeStatic, Track, true},
		{"kinematic/kinematic", AttributeKinematic, AttributeKinematic, Track, true},
		{"dynamic/static", AttributeDynamic, AttributeStatic, Track, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var pairFlags PairFlags
			flags := DefaultShader(tt.attributes0, active, tt.attributes1, active, &pairFlags)

			if got := DecisionOf(flags); got != tt.expected {
				t.Errorf("DecisionOf(%v) = %v, want %v", flags, got, tt.expected)
			}
			if flags.Has(FilterCallback) != tt.callback {
				t.Errorf("callback requested = %v, want %v", flags.Has(FilterCallback), tt.callback)
			}
			if tt.callback && pairFlags != PairContactDefault {
				t.Errorf("pairFlags = %b, want %b", pairFlags, PairContactDefault)
			}
		})
	}
}

func TestCompatible(t *testing.T) {
	tests := []struct {
		name     string
		a, b     Data
		expected bool
	}{
		{"active/active", active, active, true},
		{"active/inactive", active, inactive, true},
		{"inactive/inactive", inactive, inactive, false},
		{"group outside mask", NewData(GroupDynamic, MaskAll), NewData(GroupStatic, MaskOf(GroupStatic)), false},
		{"empty mask", NewData(GroupStatic, MaskNone), NewData(GroupStatic, MaskAll), false},
		{"unknown group", Data{Word0: 0x3, Word1: 0}, NewData(GroupStatic, MaskNone), true},
		{"both unknown", Data{Word0: 0x3}, Data{Word0: 0x80}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Compatible(tt.a, tt.b); got != tt.expected {
				t.Errorf("Compatible(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.expected)
			}
			if got := Compatible(tt.b, tt.a); got != tt.expected {
				t.Errorf("Compatible(%v, %v) = %v, want %v", tt.b, tt.a, got, tt.expected)
			}
		})
	}
}

func TestPairState_Transitions(t *testing.T) {
	allowed := map[PairState][]PairState{
		PairCandidate:  {PairDiscarded, PairSuppressed, PairTracked},
		PairSuppressed: {PairCandidate},
		PairTracked:    {PairLost},
		PairDiscarded:  nil,
		PairLost:       nil,
	}
	states := []PairState{PairCandidate, PairDiscarded, PairSuppressed, PairTracked, PairLost}

	for from, targets := range allowed {
		for _, to := range states {
			want := false
			for _, target := range targets {
				if target == to {
					want = true
				}
			}
			if got := from.CanTransition(to); got != want {
				t.Errorf("%v -> %v = %v, want %v", from, to, got, want)
			}
		}
	}

	if StateOf(Discard) != PairDiscarded || StateOf(Suppress) != PairSuppressed || StateOf(Track) != PairTracked {
		t.Error("StateOf does not map decisions to their states")
	}
}
