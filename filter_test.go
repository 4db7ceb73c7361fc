package hypr

import "testing"

func TestFilterMatchesIsMembershipXorExclude(t *testing.T) {
	names := []string{EventActiveWindow, EventWorkspace, "fooevent"}
	for _, polarity := range []Polarity{ExcludeListed, IncludeListed} {
		for _, listed := range [][]string{nil, {EventWorkspace}, {EventWorkspace, EventActiveWindow}} {
			filter := NewEventFilter(listed...)
			filter.SetPolarity(polarity)
			for _, name := range names {
				inSet := false
				for _, candidate := range listed {
					inSet = inSet || candidate == name
				}
				want := inSet != (polarity == ExcludeListed)
				if got := filter.Matches(name); got != want {
					t.Fatalf("polarity=%s listed=%v name=%s: got %v want %v", polarity, listed, name, got, want)
				}
			}
		}
	}
}

func TestNewEventFilterExcludesListedNames(t *testing.T) {
	filter := NewEventFilter(EventActiveWindow, EventWorkspace)
	if filter.Matches(EventActiveWindow) || filter.Matches(EventWorkspace) {
		t.Fatal("expected listed names to be excluded")
	}
	if !filter.Matches(EventOpenWindow) {
		t.Fatal("expected unlisted names to be accepted")
	}
}

func TestOnlyEventsIncludesListedNames(t *testing.T) {
	filter := OnlyEvents(EventActiveWindow, EventWorkspace)
	if !filter.Matches(EventActiveWindow) || !filter.Matches(EventWorkspace) {
		t.Fatal("expected listed names to be accepted")
	}
	if filter.Matches(EventOpenWindow) {
		t.Fatal("expected unlisted names to be rejected")
	}
	if got := filter.Names(); len(got) != 2 || got[0] != EventActiveWindow || got[1] != EventWorkspace {
		t.Fatalf("unexpected names: %v", got)
	}
}

func TestFilterConvenienceStates(t *testing.T) {
	var zero EventFilter
	if !zero.Matches(EventWorkspace) || zero.IsUniversalReject() {
		t.Fatal("expected zero filter to accept everything")
	}
	if !AllEvents().Matches("anything") {
		t.Fatal("expected AllEvents to accept")
	}
	none := NoEvents()
	if none.Matches(EventWorkspace) || !none.IsUniversalReject() {
		t.Fatal("expected NoEvents to reject everything")
	}
	if OnlyEvents(EventWorkspace).IsUniversalReject() {
		t.Fatal("a non-empty include filter is not a universal reject")
	}
}

func TestFilterCloneIsIndependent(t *testing.T) {
	original := OnlyEvents(EventWorkspace)
	clone := original.Clone()
	clone.Add(EventSubmap)
	if original.Matches(EventSubmap) {
		t.Fatal("expected clone changes not to leak into the original")
	}
	if !clone.Matches(EventSubmap) || clone.Polarity() != IncludeListed {
		t.Fatal("expected clone to keep polarity and accept its new name")
	}
}

func TestFilterCopiesDoNotShareAdds(t *testing.T) {
	first := NewEventFilter(EventWorkspace)
	second := first
	second.Add(EventSubmap)
	if !first.Matches(EventSubmap) {
		t.Fatal("expected the first filter to keep accepting submap")
	}
	if second.Matches(EventSubmap) || second.Matches(EventWorkspace) {
		t.Fatal("expected the second filter to exclude both names")
	}
}
