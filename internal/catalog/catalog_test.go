package catalog

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sampleCSV = `id,name
14558127,Ash Blossom & Joyous Spring
27204311,Nibiru, the Primal Being
23434538,"Maxx ""C"""
not-an-id,Broken Row
missing comma
 97268402 , Effect Veiler 
`

func TestLoadCSV(t *testing.T) {
	c, err := LoadCSV(strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatalf("LoadCSV() error = %v", err)
	}

	tests := []struct {
		id     int
		want   string
		wantOK bool
	}{
		{14558127, "Ash Blossom & Joyous Spring", true},
		{27204311, "Nibiru, the Primal Being", true},
		{23434538, `Maxx "C"`, true},
		{97268402, "Effect Veiler", true},
		{1, "", false},
	}

	for _, tt := range tests {
		got, ok, err := c.CardName(context.Background(), tt.id)
		if err != nil {
			t.Fatalf("CardName(%d) error = %v", tt.id, err)
		}
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("CardName(%d) = %q, %v; want %q, %v", tt.id, got, ok, tt.want, tt.wantOK)
		}
	}

	if c.Len() != 4 {
		t.Errorf("Len() = %d, want 4", c.Len())
	}
}

func TestLoadCSV_HeaderIsSkipped(t *testing.T) {
	c, err := LoadCSV(strings.NewReader("1,First Row As Header\n2,Real Card\n"))
	if err != nil {
		t.Fatalf("LoadCSV() error = %v", err)
	}
	if _, ok, _ := c.CardName(context.Background(), 1); ok {
		t.Error("header line should not be loaded")
	}
	if c.Len() != 1 {
		t.Errorf("Len() = %d, want 1", c.Len())
	}
}

func TestCards_SortedByID(t *testing.T) {
	c := New([]Card{{ID: 3, Name: "c"}, {ID: 1, Name: "a"}, {ID: 2, Name: "b"}, {ID: 1, Name: "A"}})

	got := c.Cards()
	want := []Card{{1, "A"}, {2, "b"}, {3, "c"}}
	if len(got) != len(want) {
		t.Fatalf("Cards() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Cards()[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestLoadCSVFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cards.csv")
	if err := os.WriteFile(path, []byte(sampleCSV), 0o644); err != nil {
		t.Fatal(err)
	}

	c, err := LoadCSVFile(path)
	if err != nil {
		t.Fatalf("LoadCSVFile() error = %v", err)
	}
	if c.Len() != 4 {
		t.Errorf("Len() = %d, want 4", c.Len())
	}

	if _, err := LoadCSVFile(filepath.Join(t.TempDir(), "missing.csv")); err == nil {
		t.Error("expected error for missing file")
	}
}
