package grid

import "testing"

func TestDecideCellLayout(t *testing.T) {
	tests := []struct {
		name       string
		entries    []*LessonEntry
		forceSplit bool
		wantMode   LayoutMode
		wantPerm   int
		wantUpper  int
		wantLower  int
	}{
		{
			name:     "permanent",
			entries:  []*LessonEntry{lesson(1, 1, WeekPermanent)},
			wantMode: LayoutSingle,
			wantPerm: 1,
		},
		{
			name:       "permanent_forced_split",
			entries:    []*LessonEntry{lesson(1, 1, WeekPermanent)},
			forceSplit: true,
			wantMode:   LayoutSplit,
			wantPerm:   1,
		},
		{
			name:      "upper_only",
			entries:   []*LessonEntry{lesson(1, 1, WeekUpper)},
			wantMode:  LayoutSplit,
			wantUpper: 1,
		},
		{
			name:     "empty",
			wantMode: LayoutEmpty,
		},
		{
			name:       "empty_forced_split",
			forceSplit: true,
			wantMode:   LayoutSplit,
		},
		{
			name: "permanent_hides_week_pair",
			entries: []*LessonEntry{
				lesson(1, 1, WeekPermanent),
				lesson(2, 2, WeekUpper),
				lesson(3, 3, WeekLower),
			},
			wantMode:  LayoutSingle,
			wantPerm:  1,
			wantUpper: 1,
			wantLower: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := DecideCellLayout(tt.entries, tt.forceSplit)
			if l.Mode != tt.wantMode {
				t.Fatalf("mode = %s, want %s", l.Mode, tt.wantMode)
			}
			if len(l.Permanent) != tt.wantPerm || len(l.Upper) != tt.wantUpper || len(l.Lower) != tt.wantLower {
				t.Errorf("buckets = %d/%d/%d, want %d/%d/%d",
					len(l.Permanent), len(l.Upper), len(l.Lower),
					tt.wantPerm, tt.wantUpper, tt.wantLower)
			}
		})
	}
}

func TestLayoutSections(t *testing.T) {
	t.Run("single renders permanent only", func(t *testing.T) {
		l := DecideCellLayout([]*LessonEntry{
			lesson(1, 1, WeekPermanent),
			lesson(2, 2, WeekUpper),
		}, false)
		sections := l.Sections()
		if len(sections) != 1 || sections[0].Week != WeekPermanent {
			t.Fatalf("sections = %+v", sections)
		}
		if len(l.Visible()) != 1 {
			t.Errorf("visible = %d, want 1", len(l.Visible()))
		}
	})

	t.Run("forced split ignores permanent and offers add", func(t *testing.T) {
		l := DecideCellLayout([]*LessonEntry{lesson(1, 1, WeekPermanent)}, true)
		sections := l.Sections()
		if len(sections) != 2 {
			t.Fatalf("got %d sections, want 2", len(sections))
		}
		for _, s := range sections {
			if s.Week == WeekPermanent {
				t.Error("permanent section must not be rendered in split mode")
			}
			if len(s.Entries) != 0 || !s.CanAdd {
				t.Errorf("%s section should be empty with add affordance, got %+v", s.Week, s)
			}
		}
		if len(l.Visible()) != 0 {
			t.Errorf("visible = %d, want 0", len(l.Visible()))
		}
	})

	t.Run("split keeps absolute indices", func(t *testing.T) {
		l := DecideCellLayout([]*LessonEntry{
			lesson(1, 1, WeekLower),
			lesson(2, 2, WeekUpper),
		}, false)
		if l.Upper[0].Index != 1 || l.Lower[0].Index != 0 {
			t.Errorf("indices upper=%d lower=%d, want 1 and 0", l.Upper[0].Index, l.Lower[0].Index)
		}
		for _, s := range l.Sections() {
			if s.CanAdd {
				t.Errorf("%s section is filled and should not offer add", s.Week)
			}
		}
	})

	t.Run("empty offers three way chooser", func(t *testing.T) {
		sections := DecideCellLayout(nil, false).Sections()
		if len(sections) != 3 {
			t.Fatalf("got %d sections, want 3", len(sections))
		}
		for i, week := range WeekTypes {
			if sections[i].Week != week || !sections[i].CanAdd {
				t.Errorf("section %d = %+v, want %s with add", i, sections[i], week)
			}
		}
	})
}

func TestNeedsForceSplit(t *testing.T) {
	lockedPermanent := lesson(1, 1, WeekPermanent)
	lockedPermanent.Locked = true
	lockedUpper := lesson(2, 2, WeekUpper)
	lockedUpper.Locked = true

	tests := []struct {
		name    string
		entries []*LessonEntry
		week    WeekType
		want    bool
	}{
		{"upper beside locked permanent", []*LessonEntry{lockedPermanent}, WeekUpper, true},
		{"lower beside locked permanent", []*LessonEntry{lockedPermanent}, WeekLower, true},
		{"permanent beside locked permanent", []*LessonEntry{lockedPermanent}, WeekPermanent, false},
		{"upper beside unlocked permanent", []*LessonEntry{lesson(1, 1, WeekPermanent)}, WeekUpper, false},
		{"lower beside locked upper", []*LessonEntry{lockedUpper}, WeekLower, false},
		{"empty slot", nil, WeekUpper, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NeedsForceSplit(tt.entries, tt.week); got != tt.want {
				t.Errorf("NeedsForceSplit = %v, want %v", got, tt.want)
			}
		})
	}
}
