package model

import (
	"errors"
	"image"
	"testing"
)

func TestTally_Winner(t *testing.T) {
	tests := []struct {
		name     string
		tally    Tally
		expected Side
	}{
		{"left leads", Tally{Left: 3, Right: 1}, SideLeft},
		{"right leads", Tally{Left: 1, Right: 3}, SideRight},
		{"tie goes right", Tally{Left: 2, Right: 2}, SideRight},
		{"empty tie goes right", Tally{}, SideRight},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.tally.Winner(); got != tt.expected {
				t.Errorf("Winner() = %v, expected %v", got, tt.expected)
			}
		})
	}
}

func TestTally_Total(t *testing.T) {
	if got := (Tally{Left: 4, Right: 5}).Total(); got != 9 {
		t.Errorf("Total() = %d, expected 9", got)
	}
}

func TestSide_StringRoundTrip(t *testing.T) {
	for _, s := range []Side{SideNone, SideLeft, SideRight} {
		if got := ParseSide(s.String()); got != s {
			t.Errorf("ParseSide(%q) = %v, expected %v", s.String(), got, s)
		}
	}
	if got := ParseSide("up"); got != SideNone {
		t.Errorf("ParseSide(\"up\") = %v, expected none", got)
	}
}

func TestColorBand_Validate(t *testing.T) {
	if err := DefaultColorBand().Validate(); err != nil {
		t.Fatalf("default band should be valid: %v", err)
	}

	band := ColorBand{Lower: [3]uint8{10, 60, 0}, Upper: [3]uint8{200, 50, 255}}
	err := band.Validate()
	if !errors.Is(err, ErrInvalidBand) {
		t.Fatalf("expected ErrInvalidBand, got %v", err)
	}
	if !errors.Is(err, ErrConfiguration) {
		t.Error("invalid band should be a configuration error")
	}
}

func TestParseTriple(t *testing.T) {
	tests := []struct {
		input   string
		want    [3]uint8
		wantErr bool
	}{
		{"200,50,0", [3]uint8{200, 50, 0}, false},
		{" 254, 254 ,254 ", [3]uint8{254, 254, 254}, false},
		{"1,2", [3]uint8{}, true},
		{"1,2,256", [3]uint8{}, true},
		{"a,b,c", [3]uint8{}, true},
		{"-1,0,0", [3]uint8{}, true},
	}

	for _, tt := range tests {
		got, err := ParseTriple(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseTriple(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("ParseTriple(%q) = %v, expected %v", tt.input, got, tt.want)
		}
	}
}

func TestNewFrameResult(t *testing.T) {
	f := AnnotatedFrame{
		Index:  7,
		Side:   SideLeft,
		Region: &Region{Area: 120, Box: image.Rect(4, 5, 16, 15)},
	}

	res := NewFrameResult("run-1", f)
	if res.RunID != "run-1" || res.FrameIndex != 7 || res.Side != "left" {
		t.Errorf("unexpected identity fields: %+v", res)
	}
	if res.X != 4 || res.Y != 5 || res.Width != 12 || res.Height != 10 || res.Area != 120 {
		t.Errorf("unexpected region fields: %+v", res)
	}

	failed := NewFrameResult("run-1", AnnotatedFrame{Index: 2, Err: &FrameError{Index: 2, Err: errors.New("boom")}})
	if failed.Error != "frame 2: boom" || failed.Side != "none" {
		t.Errorf("unexpected failed result: %+v", failed)
	}
}

func TestTallyResults(t *testing.T) {
	results := []FrameResult{
		{Side: "left"},
		{Side: "right"},
		{Side: "right"},
		{Side: "none", Degenerate: true},
		{Side: "none", Error: "frame 4: boom"},
	}

	got := TallyResults(results)
	if got != (Tally{Left: 1, Right: 2}) {
		t.Errorf("TallyResults = %+v, expected {1 2}", got)
	}
	if TallyResults(nil).Total() != 0 {
		t.Error("expected an empty tally for no results")
	}
}
