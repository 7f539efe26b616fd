package domain

import (
	"testing"
	"time"
)

var noon = time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)

func TestApplyXPLevelUp(t *testing.T) {
	p := Progression{Level: 1, CurrentXP: 90}

	res := p.ApplyXP(30, noon)

	if !res.Granted || res.Awarded != 30 {
		t.Fatalf("ApplyXP(30) = %+v, want granted 30", res)
	}
	if res.LevelsGained != 1 {
		t.Fatalf("LevelsGained = %d, want 1", res.LevelsGained)
	}
	if p.Level != 2 || p.CurrentXP != 20 {
		t.Fatalf("level/current = %d/%d, want 2/20", p.Level, p.CurrentXP)
	}
	if p.GoldCoins != LevelUpCoinReward {
		t.Fatalf("GoldCoins = %d, want %d", p.GoldCoins, LevelUpCoinReward)
	}
	if p.TotalXP != 30 || p.DailyXPEarned != 30 {
		t.Fatalf("total/daily = %d/%d, want 30/30", p.TotalXP, p.DailyXPEarned)
	}
}

func TestApplyXPMultiLevel(t *testing.T) {
	p := Progression{Level: 1}

	res := p.ApplyXP(350, noon)

	// 350 clears level 1 (100) and level 2 (200), leaving 50 toward level 3.
	if res.LevelsGained != 2 {
		t.Fatalf("LevelsGained = %d, want 2", res.LevelsGained)
	}
	if p.Level != 3 || p.CurrentXP != 50 {
		t.Fatalf("level/current = %d/%d, want 3/50", p.Level, p.CurrentXP)
	}
	if p.GoldCoins != 2*LevelUpCoinReward {
		t.Fatalf("GoldCoins = %d, want %d", p.GoldCoins, 2*LevelUpCoinReward)
	}
}

func TestApplyXPDailyCap(t *testing.T) {
	today := DayOf(noon)
	p := Progression{Level: 10, DailyXPEarned: 480, LastXPResetDate: &today}

	res := p.ApplyXP(50, noon)
	if !res.Granted || res.Awarded != 20 {
		t.Fatalf("partial award = %+v, want granted 20", res)
	}
	if res.RemainingDaily != 0 {
		t.Fatalf("RemainingDaily = %d, want 0", res.RemainingDaily)
	}
	if p.DailyXPEarned != DailyXPCap {
		t.Fatalf("DailyXPEarned = %d, want %d", p.DailyXPEarned, DailyXPCap)
	}

	before := p
	res = p.ApplyXP(10, noon)
	if res.Granted || res.Awarded != 0 {
		t.Fatalf("award past cap = %+v, want refused", res)
	}
	if p != before {
		t.Fatalf("refused award mutated progression: %+v -> %+v", before, p)
	}
}

func TestApplyXPDailyReset(t *testing.T) {
	yesterday := DayOf(noon.AddDate(0, 0, -1))
	p := Progression{Level: 10, DailyXPEarned: DailyXPCap, LastXPResetDate: &yesterday}

	res := p.ApplyXP(50, noon)

	if !res.Granted || res.Awarded != 50 {
		t.Fatalf("award after reset = %+v, want granted 50", res)
	}
	if res.RemainingDaily != DailyXPCap-50 {
		t.Fatalf("RemainingDaily = %d, want %d", res.RemainingDaily, DailyXPCap-50)
	}
	if p.LastXPResetDate == nil || !p.LastXPResetDate.Equal(DayOf(noon)) {
		t.Fatalf("LastXPResetDate = %v, want %v", p.LastXPResetDate, DayOf(noon))
	}
}

func TestApplyXPZeroAmount(t *testing.T) {
	p := Progression{Level: 1}
	res := p.ApplyXP(0, noon)
	if res.Granted || res.Awarded != 0 {
		t.Fatalf("ApplyXP(0) = %+v, want refused", res)
	}
	if res.RemainingDaily != DailyXPCap {
		t.Fatalf("RemainingDaily = %d, want %d", res.RemainingDaily, DailyXPCap)
	}
}

func TestDayOfUsesUTC(t *testing.T) {
	est := time.FixedZone("EST", -5*3600)
	// 23:30 EST on March 9 is already March 10 in UTC.
	late := time.Date(2025, time.March, 9, 23, 30, 0, 0, est)

	if got := DayOf(late); !got.Equal(time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("DayOf = %v, want 2025-03-10 UTC", got)
	}
	if !SameDay(late, noon) {
		t.Fatalf("SameDay(%v, %v) = false, want true", late, noon)
	}
}
