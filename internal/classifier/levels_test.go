package classifier

import "testing"

func TestFallbackLevel_Boundaries(t *testing.T) {
	t.Parallel()

	cases := []struct {
		score float64
		want  string
	}{
		{100, LevelExcellent},
		{80, LevelExcellent},
		{79.99, LevelGood},
		{79, LevelGood},
		{70, LevelGood},
		{69, LevelAverage},
		{60, LevelAverage},
		{59.5, LevelBelowAverage},
		{50, LevelBelowAverage},
		{49.99, LevelPoor},
		{0, LevelPoor},
		{-5, LevelPoor},
	}

	for _, tc := range cases {
		if got := FallbackLevel(tc.score); got != tc.want {
			t.Errorf("FallbackLevel(%v) = %q, want %q", tc.score, got, tc.want)
		}
	}
}
