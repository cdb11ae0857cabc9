package date

import (
	"testing"
	"time"
)

func TestParse(t *testing.T) {
	testCases := []struct {
		in      string
		want    Date
		wantErr bool
	}{
		{in: "2025-01-10", want: New(2025, time.January, 10)},
		{in: "2025-7-1", want: New(2025, time.July, 1)},
		{in: "not-a-date", wantErr: true},
		{in: "2025-13-40", wantErr: true},
	}
	for _, tc := range testCases {
		got, err := Parse(tc.in)
		if (err != nil) != tc.wantErr {
			t.Errorf("Parse(%q) error = %v, wantErr %v", tc.in, err, tc.wantErr)
			continue
		}
		if !tc.wantErr && got != tc.want {
			t.Errorf("Parse(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestDate_AddMonths(t *testing.T) {
	testCases := []struct {
		name   string
		in     Date
		months int
		want   Date
	}{
		{"back one month", New(2025, time.March, 15), -1, New(2025, time.February, 15)},
		{"across year boundary", New(2025, time.January, 10), -3, New(2024, time.October, 10)},
		{"normalized end of month", New(2025, time.March, 31), -1, New(2025, time.March, 3)},
		{"five years back", New(2025, time.June, 1), -60, New(2020, time.June, 1)},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.in.AddMonths(tc.months); got != tc.want {
				t.Errorf("%v.AddMonths(%d) = %v, want %v", tc.in, tc.months, got, tc.want)
			}
		})
	}
}

func TestWindow_Resolve(t *testing.T) {
	end := New(2025, time.June, 15)
	earliest := New(2025, time.March, 1)

	testCases := []struct {
		name     string
		window   Window
		wantFrom Date
	}{
		{"1m inside history", Window1M, New(2025, time.May, 15)},
		{"6m clamped to earliest activity", Window6M, earliest},
		{"ytd clamped to earliest activity", WindowYTD, earliest},
		{"max starts at earliest activity", WindowMax, earliest},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			r := tc.window.Resolve(end, earliest)
			if r.From != tc.wantFrom {
				t.Errorf("Resolve() From = %v, want %v", r.From, tc.wantFrom)
			}
			if r.To != end {
				t.Errorf("Resolve() To = %v, want %v", r.To, end)
			}
		})
	}

	t.Run("ytd before earliest activity", func(t *testing.T) {
		r := WindowYTD.Resolve(end, New(2024, time.May, 1))
		if want := New(2025, time.January, 1); r.From != want {
			t.Errorf("Resolve() From = %v, want %v", r.From, want)
		}
	})
}

func TestHistory_ValueAsOf(t *testing.T) {
	var h History[float64]
	h.Append(New(2025, time.January, 10), 100)
	h.Append(New(2025, time.January, 15), 110)
	h.Append(New(2025, time.January, 5), 90) // out of order on purpose

	testCases := []struct {
		name   string
		on     Date
		want   float64
		wantOK bool
	}{
		{"before first point", New(2025, time.January, 1), 0, false},
		{"exact match", New(2025, time.January, 10), 100, true},
		{"carry forward over a gap", New(2025, time.January, 12), 100, true},
		{"after last point", New(2025, time.February, 1), 110, true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := h.ValueAsOf(tc.on)
			if ok != tc.wantOK || got != tc.want {
				t.Errorf("ValueAsOf(%v) = %v, %v; want %v, %v", tc.on, got, ok, tc.want, tc.wantOK)
			}
		})
	}
}

func TestHistory_AppendOverwrites(t *testing.T) {
	var h History[float64]
	on := New(2025, time.January, 10)
	h.Append(on, 100)
	h.Append(on, 105)
	if h.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", h.Len())
	}
	if got, _ := h.Get(on); got != 105 {
		t.Errorf("Get() = %v, want 105", got)
	}
}
