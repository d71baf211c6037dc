package timeclock

import "testing"

func TestParseClock(t *testing.T) {
	minutes, err := ParseClock("08:30")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if minutes != 510 {
		t.Fatalf("expected 510, got %v", minutes)
	}

	minutes, err = ParseClock("9:05")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if minutes != 545 {
		t.Fatalf("expected 545, got %v", minutes)
	}

	minutes, err = ParseClock("24:00")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if minutes != 1440 {
		t.Fatalf("expected 1440, got %v", minutes)
	}
}

func TestParseClockInvalid(t *testing.T) {
	for _, value := range []string{"", "25:00", "24:01", "12:60", "12", "1:5", "ab:cd", "12:345", "-1:00", "+1:00", "1:+0"} {
		if _, err := ParseClock(value); err == nil {
			t.Fatalf("expected error for %q", value)
		}
	}
}

func TestDuration(t *testing.T) {
	minutes, err := Duration("08:00", "16:00")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if minutes != 480 {
		t.Fatalf("expected 480, got %v", minutes)
	}
}

func TestDurationOvernight(t *testing.T) {
	minutes, err := Duration("23:00", "06:00")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if minutes != 420 {
		t.Fatalf("expected 420, got %v", minutes)
	}
}

func TestDurationFullDay(t *testing.T) {
	minutes, err := Duration("00:00", "00:00")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if minutes != 1440 {
		t.Fatalf("expected 1440, got %v", minutes)
	}

	minutes, err = Duration("00:00", "24:00")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if minutes != 1440 {
		t.Fatalf("expected 1440, got %v", minutes)
	}
}

func TestDurationSameTime(t *testing.T) {
	minutes, err := Duration("08:00", "08:00")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if minutes != 0 {
		t.Fatalf("expected 0, got %v", minutes)
	}
}

func TestDurationInvalidEndpoint(t *testing.T) {
	if _, err := Duration("08:00", "26:00"); err == nil {
		t.Fatal("expected error for invalid end")
	}
	if _, err := Duration("", "16:00"); err == nil {
		t.Fatal("expected error for invalid start")
	}
}

func TestDurationNeverNegative(t *testing.T) {
	pairs := [][2]string{
		{"00:00", "00:01"}, {"22:00", "06:00"}, {"12:30", "12:00"}, {"06:00", "22:00"},
	}
	for _, pair := range pairs {
		minutes, err := Duration(pair[0], pair[1])
		if err != nil {
			t.Fatalf("unexpected error for %v: %v", pair, err)
		}
		if minutes < 0 {
			t.Fatalf("negative duration for %v: %v", pair, minutes)
		}
	}
}

func TestFormatRange(t *testing.T) {
	if got := FormatRange("16:00", "00:00"); got != "16:00 - 24:00" {
		t.Fatalf("expected end-of-day rendering, got %q", got)
	}
	if got := FormatRange("08:00", "16:00"); got != "08:00 - 16:00" {
		t.Fatalf("unexpected rendering %q", got)
	}
}

func TestFormatMinutes(t *testing.T) {
	if got := FormatMinutes(450); got != "7:30" {
		t.Fatalf("expected 7:30, got %q", got)
	}
	if got := FormatMinutes(0); got != "0:00" {
		t.Fatalf("expected 0:00, got %q", got)
	}
}
