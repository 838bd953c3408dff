package doctor

import "testing"

func TestSlotInPeriod(t *testing.T) {
	cases := []struct {
		slot   string
		period string
		want   bool
	}{
		{"09:00", "AM", true},
		{"11:59", "AM", true},
		{"12:00", "AM", false},
		{"12:00", "PM", true},
		{"00:00", "AM", true},
		{"23:30", "PM", true},
		{"09:00", "PM", false},
		{"09:00", "am", true},
		{"14:00", "pm", true},
		{"09:00", "evening", false},
		{"not-a-time", "AM", false},
	}
	for _, tc := range cases {
		if got := SlotInPeriod(tc.slot, tc.period); got != tc.want {
			t.Errorf("SlotInPeriod(%q, %q) = %v, want %v", tc.slot, tc.period, got, tc.want)
		}
	}
}

func TestAvailableInPeriod(t *testing.T) {
	d := &Doctor{AvailableTimes: []string{"09:00", "10:00", "14:00"}}

	if !d.AvailableInPeriod("AM") {
		t.Error("expected AM match for morning slots")
	}
	if !d.AvailableInPeriod("PM") {
		t.Error("expected PM match for 14:00 slot")
	}

	morningOnly := &Doctor{AvailableTimes: []string{"08:00", "09:30"}}
	if morningOnly.AvailableInPeriod("PM") {
		t.Error("expected no PM match for morning-only doctor")
	}

	none := &Doctor{}
	if none.AvailableInPeriod("AM") {
		t.Error("expected no match for doctor with no declared slots")
	}
}

func TestValidPeriod(t *testing.T) {
	for _, p := range []string{"AM", "PM", "am", "pm", "Am"} {
		if !ValidPeriod(p) {
			t.Errorf("expected %q to be valid", p)
		}
	}
	for _, p := range []string{"", "noon", "AMPM", "morning"} {
		if ValidPeriod(p) {
			t.Errorf("expected %q to be invalid", p)
		}
	}
}
