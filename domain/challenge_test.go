package domain

import (
	"testing"
	"time"
)

func TestChallengeWindow(t *testing.T) {
	c := Challenge{Type: ChallengeTypeSevenDayFocus, IsActive: true}

	if _, _, ok := c.Window(); ok {
		t.Fatal("unaccepted challenge must not have a window")
	}

	accepted := time.Date(2025, time.March, 10, 18, 45, 0, 0, time.UTC)
	c.AcceptedByUserID = "u1"
	c.AcceptedAt = &accepted

	start, end, ok := c.Window()
	if !ok {
		t.Fatal("accepted challenge should have a window")
	}
	if !start.Equal(DayOf(accepted)) {
		t.Fatalf("window start = %v, want acceptance day %v", start, DayOf(accepted))
	}
	if !end.Equal(start.AddDate(0, 0, SevenDayWindowDays)) {
		t.Fatalf("window end = %v, want start+%dd", end, SevenDayWindowDays)
	}
}

func TestChallengeAcceptedByGuest(t *testing.T) {
	c := Challenge{AcceptedByUserID: GuestUserID}
	if !c.IsAccepted() || !c.AcceptedByGuest() {
		t.Fatalf("guest acceptance not recognized: %+v", c)
	}

	c.AcceptedByUserID = "u1"
	if c.AcceptedByGuest() {
		t.Fatal("registered acceptor flagged as guest")
	}
}
