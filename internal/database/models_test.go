package database

import (
	"testing"
	"time"

	"gorm.io/datatypes"
)

func date(y int, m time.Month, d int) datatypes.Date {
	return datatypes.Date(time.Date(y, m, d, 0, 0, 0, 0, time.UTC))
}

func TestExperiencePeriod(t *testing.T) {
	end := date(2020, time.December, 31)

	cases := []struct {
		name string
		exp  Experience
		want string
	}{
		{"current", Experience{StartDate: date(2020, time.January, 1), IsCurrent: true}, "2020 - Present"},
		{"ended", Experience{StartDate: date(2018, time.January, 1), EndDate: &end}, "2018 - 2020"},
		{"start only", Experience{StartDate: date(2014, time.September, 1)}, "2014"},
		{"current wins over end date", Experience{StartDate: date(2019, time.March, 1), EndDate: &end, IsCurrent: true}, "2019 - Present"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.exp.Period(); got != tc.want {
				t.Fatalf("Period() = %q, want %q", got, tc.want)
			}
		})
	}
}
