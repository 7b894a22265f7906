package news

import (
	"math"
	"testing"
)

func TestPolarity(t *testing.T) {
	a := NewAnalyzer()

	tests := []struct {
		name     string
		text     string
		wantSign int
	}{
		{"bullish headline", "Shares surge after earnings beat expectations", 1},
		{"bearish headline", "Stock plunges as lawsuit concerns grow", -1},
		{"no lexicon hits is neutral", "Company schedules annual shareholder meeting", 0},
		{"empty text is neutral", "", 0},
		{"punctuation does not hide words", "Breakout! Rally continues.", 1},
		{"mixed leans with the stronger words", "Rally fades as shares crash into the close", -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := a.Polarity(tt.text)
			switch {
			case tt.wantSign > 0 && got <= 0:
				t.Errorf("Polarity(%q) = %v, want positive", tt.text, got)
			case tt.wantSign < 0 && got >= 0:
				t.Errorf("Polarity(%q) = %v, want negative", tt.text, got)
			case tt.wantSign == 0 && got != 0:
				t.Errorf("Polarity(%q) = %v, want 0", tt.text, got)
			}
		})
	}
}

func TestPolarityStaysInBounds(t *testing.T) {
	a := NewAnalyzer()
	texts := []string{
		"surge soar skyrocket breakthrough rally",
		"crash plunge collapse bankruptcy panic",
	}
	for _, text := range texts {
		got := a.Polarity(text)
		if math.Abs(got) > 1 {
			t.Errorf("Polarity(%q) = %v, want within [-1, 1]", text, got)
		}
	}
}

func TestPolarityExactAverage(t *testing.T) {
	a := NewAnalyzer()
	// surge (1.0) and dip (-0.25) average to 0.375.
	got := a.Polarity("surge then dip")
	if math.Abs(got-0.375) > 1e-9 {
		t.Errorf("Polarity() = %v, want 0.375", got)
	}
}

func TestAverage(t *testing.T) {
	a := NewAnalyzer()

	tests := []struct {
		name      string
		headlines []Headline
		wantSign  int
	}{
		{"no headlines is neutral", nil, 0},
		{"empty titles are skipped", []Headline{{Title: ""}, {Title: ""}}, 0},
		{
			"positive set averages positive",
			[]Headline{{Title: "Stock rally continues"}, {Title: "Analysts upgrade outlook"}},
			1,
		},
		{
			"negative set averages negative",
			[]Headline{{Title: "Shares tumble on warning"}, {Title: "Guidance miss sparks decline"}},
			-1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := a.Average(tt.headlines)
			switch {
			case tt.wantSign > 0 && got <= 0:
				t.Errorf("Average() = %v, want positive", got)
			case tt.wantSign < 0 && got >= 0:
				t.Errorf("Average() = %v, want negative", got)
			case tt.wantSign == 0 && got != 0:
				t.Errorf("Average() = %v, want 0", got)
			}
		})
	}
}
