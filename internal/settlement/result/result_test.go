package result

import "testing"

func ip(v int) *int { return &v }

func rawFixture(id int64, status string) RawFixture {
	var raw RawFixture
	raw.Fixture.ID = id
	raw.Fixture.Status.Short = status
	return raw
}

func TestNormalizeOutcomeUsesRegulationOnly(t *testing.T) {
	tests := []struct {
		name        string
		status      string
		fulltime    ScorePair
		goals       ScorePair
		wantOutcome Outcome
	}{
		{
			name:        "home win",
			status:      "FT",
			fulltime:    ScorePair{ip(2), ip(1)},
			goals:       ScorePair{ip(2), ip(1)},
			wantOutcome: OutcomeHome,
		},
		{
			name:        "away win",
			status:      "FT",
			fulltime:    ScorePair{ip(0), ip(3)},
			goals:       ScorePair{ip(0), ip(3)},
			wantOutcome: OutcomeAway,
		},
		{
			name:        "draw",
			status:      "FT",
			fulltime:    ScorePair{ip(1), ip(1)},
			goals:       ScorePair{ip(1), ip(1)},
			wantOutcome: OutcomeDraw,
		},
		{
			// O campo goals embute a prorrogação (2-1), mas o mercado de
			// tempo integral só enxerga o regulamentar (1-1)
			name:        "AET decided in extra time is still a regulation draw",
			status:      "AET",
			fulltime:    ScorePair{ip(1), ip(1)},
			goals:       ScorePair{ip(2), ip(1)},
			wantOutcome: OutcomeDraw,
		},
		{
			name:        "PEN shootout does not change regulation outcome",
			status:      "PEN",
			fulltime:    ScorePair{ip(0), ip(0)},
			goals:       ScorePair{ip(0), ip(0)},
			wantOutcome: OutcomeDraw,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := rawFixture(10, tt.status)
			raw.Score.Fulltime = tt.fulltime
			raw.Goals = tt.goals

			res := Normalize(raw)
			if res == nil {
				t.Fatal("expected result, got nil")
			}
			if res.Outcome != tt.wantOutcome {
				t.Errorf("outcome = %q, want %q", res.Outcome, tt.wantOutcome)
			}
		})
	}
}

func TestNormalizeMissingRegulationScore(t *testing.T) {
	raw := rawFixture(11, "FT")
	// nem fulltime nem goals: sem placar não se chuta
	if res := Normalize(raw); res != nil {
		t.Errorf("expected nil result, got %+v", res)
	}

	// fulltime ausente mas goals presente: normaliza pelo fallback
	raw.Goals = ScorePair{ip(2), ip(0)}
	res := Normalize(raw)
	if res == nil {
		t.Fatal("expected result from goals fallback")
	}
	if res.HomeGoals != 2 || res.AwayGoals != 0 {
		t.Errorf("regulation = %d-%d, want 2-0", res.HomeGoals, res.AwayGoals)
	}
}

func TestNormalizeHalftimeDerivations(t *testing.T) {
	raw := rawFixture(12, "FT")
	raw.Score.Fulltime = ScorePair{ip(3), ip(1)}
	raw.Goals = ScorePair{ip(3), ip(1)}
	raw.Score.Halftime = ScorePair{ip(1), ip(1)}

	res := Normalize(raw)
	if res == nil {
		t.Fatal("expected result")
	}
	if res.HalftimeOutcome == nil || *res.HalftimeOutcome != OutcomeDraw {
		t.Errorf("halftime outcome = %v, want draw", res.HalftimeOutcome)
	}
	if res.SecondHalfHome == nil || *res.SecondHalfHome != 2 {
		t.Errorf("second half home = %v, want 2", res.SecondHalfHome)
	}
	if res.SecondHalfAway == nil || *res.SecondHalfAway != 0 {
		t.Errorf("second half away = %v, want 0", res.SecondHalfAway)
	}
}

func TestNormalizeWithoutHalftimeData(t *testing.T) {
	raw := rawFixture(13, "FT")
	raw.Score.Fulltime = ScorePair{ip(2), ip(2)}

	res := Normalize(raw)
	if res == nil {
		t.Fatal("expected result")
	}
	if res.HalftimeOutcome != nil || res.SecondHalfHome != nil || res.SecondHalfAway != nil {
		t.Error("halftime derivations should be nil without halftime data")
	}
}

func TestNormalizeUnknownStatusStillProceeds(t *testing.T) {
	raw := rawFixture(14, "LIVE")
	raw.Score.Fulltime = ScorePair{ip(1), ip(0)}

	res := Normalize(raw)
	if res == nil {
		t.Fatal("expected result even with unknown status")
	}
	if res.MatchStatus != "" {
		t.Errorf("match status = %q, want empty", res.MatchStatus)
	}
}

func TestParseStatus(t *testing.T) {
	tests := []struct {
		in   string
		want MatchStatus
	}{
		{"FT", StatusFT},
		{"ft", StatusFT},
		{" aet ", StatusAET},
		{"Pen", StatusPEN},
		{"1H", ""},
		{"NS", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := ParseStatus(tt.in); got != tt.want {
			t.Errorf("ParseStatus(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFinalGoalsHeuristic(t *testing.T) {
	tests := []struct {
		name      string
		status    string
		fulltime  ScorePair
		goals     ScorePair
		extratime ScorePair
		wantHome  int
		wantAway  int
	}{
		{
			name:     "raw goals field preferred when present",
			status:   "AET",
			fulltime: ScorePair{ip(1), ip(1)},
			goals:    ScorePair{ip(2), ip(1)},
			wantHome: 2, wantAway: 1,
		},
		{
			// provider mandou prorrogação como delta (1 gol a mais no ET)
			name:      "extra time reported as delta gets added",
			status:    "AET",
			fulltime:  ScorePair{ip(2), ip(2)},
			extratime: ScorePair{ip(1), ip(0)},
			wantHome:  3, wantAway: 2,
		},
		{
			// provider mandou prorrogação como acumulado (>= regulamentar)
			name:      "extra time reported as cumulative taken as-is",
			status:    "AET",
			fulltime:  ScorePair{ip(1), ip(1)},
			extratime: ScorePair{ip(2), ip(1)},
			wantHome:  2, wantAway: 1,
		},
		{
			name:     "FT without goals field falls back to regulation",
			status:   "FT",
			fulltime: ScorePair{ip(2), ip(0)},
			wantHome: 2, wantAway: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := rawFixture(15, tt.status)
			raw.Score.Fulltime = tt.fulltime
			raw.Goals = tt.goals
			raw.Score.Extratime = tt.extratime

			res := Normalize(raw)
			if res == nil {
				t.Fatal("expected result")
			}
			if res.FinalGoalsHome != tt.wantHome || res.FinalGoalsAway != tt.wantAway {
				t.Errorf("final goals = %d-%d, want %d-%d",
					res.FinalGoalsHome, res.FinalGoalsAway, tt.wantHome, tt.wantAway)
			}
		})
	}
}

func TestNormalizePenaltiesOnlyUnderPEN(t *testing.T) {
	raw := rawFixture(16, "AET")
	raw.Score.Fulltime = ScorePair{ip(1), ip(1)}
	raw.Goals = ScorePair{ip(2), ip(2)}
	raw.Score.Penalty = ScorePair{ip(4), ip(3)}

	res := Normalize(raw)
	if res == nil {
		t.Fatal("expected result")
	}
	if res.PenaltyHome != nil || res.PenaltyAway != nil {
		t.Error("penalties should only be kept when status is PEN")
	}

	raw.Fixture.Status.Short = "PEN"
	res = Normalize(raw)
	if res.PenaltyHome == nil || *res.PenaltyHome != 4 {
		t.Errorf("penalty home = %v, want 4", res.PenaltyHome)
	}
}

func TestFormatExtended(t *testing.T) {
	tests := []struct {
		name string
		res  MatchResult
		want string
	}{
		{
			name: "plain fulltime",
			res:  MatchResult{HomeGoals: 2, AwayGoals: 1, FinalGoalsHome: 2, FinalGoalsAway: 1, MatchStatus: StatusFT},
			want: "2-1",
		},
		{
			name: "unknown status degrades to plain score",
			res:  MatchResult{HomeGoals: 1, AwayGoals: 0, FinalGoalsHome: 1, FinalGoalsAway: 0},
			want: "1-0",
		},
		{
			name: "AET with distinct extended score",
			res:  MatchResult{HomeGoals: 1, AwayGoals: 1, FinalGoalsHome: 2, FinalGoalsAway: 1, MatchStatus: StatusAET},
			want: "1-1 (fulltime) | 2-1 AET",
		},
		{
			name: "AET with unchanged score degrades to suffix",
			res:  MatchResult{HomeGoals: 1, AwayGoals: 1, FinalGoalsHome: 1, FinalGoalsAway: 1, MatchStatus: StatusAET},
			want: "1-1 AET",
		},
		{
			name: "PEN appends shootout score last",
			res: MatchResult{
				HomeGoals: 1, AwayGoals: 1,
				FinalGoalsHome: 2, FinalGoalsAway: 2,
				MatchStatus: StatusPEN,
				PenaltyHome: ip(4), PenaltyAway: ip(3),
			},
			want: "1-1 (fulltime) | 2-2 AET (4-3)",
		},
		{
			name: "PEN without shootout data degrades gracefully",
			res: MatchResult{
				HomeGoals: 0, AwayGoals: 0,
				FinalGoalsHome: 0, FinalGoalsAway: 0,
				MatchStatus: StatusPEN,
			},
			want: "0-0 AET",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.res.FormatExtended(); got != tt.want {
				t.Errorf("FormatExtended() = %q, want %q", got, tt.want)
			}
		})
	}
}
