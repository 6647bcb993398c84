package util

import (
    "testing"
    "time"
)

func TestParseDate(t *testing.T) {
    got, ok := ParseDate("2024-10-10")
    if !ok {
        t.Fatalf("expected ok")
    }
    want := time.Date(2024, 10, 10, 0, 0, 0, 0, time.UTC)
    if !got.Equal(want) {
        t.Fatalf("unexpected time %v", got)
    }
}

func TestParseDateInvalid(t *testing.T) {
    if _, ok := ParseDate("10/10/2024"); ok {
        t.Fatalf("expected not ok")
    }
    if _, ok := ParseDate(""); ok {
        t.Fatalf("expected not ok for empty")
    }
}

func TestParseDateDefault(t *testing.T) {
    def := time.Date(2024, 10, 10, 0, 0, 0, 0, time.UTC)
    got := ParseDateDefault("", def)
    if !got.Equal(def) {
        t.Fatalf("expected default")
    }
}

func TestDayUTC(t *testing.T) {
    in := time.Date(2024, 10, 10, 15, 4, 5, 0, time.FixedZone("X", 3600))
    got := DayUTC(in)
    if got.Hour() != 0 || got.Location() != time.UTC {
        t.Fatalf("expected UTC midnight, got %v", got)
    }
}

func TestRound2(t *testing.T) {
    if Round2(1.004) != 1.0 {
        t.Fatalf("got %v", Round2(1.004))
    }
    if Round2(12.3456) != 12.35 {
        t.Fatalf("got %v", Round2(12.3456))
    }
}
