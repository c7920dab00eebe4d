package service

import (
	"testing"

	"github.com/lpj-studios/shop-assistant-go/internal/domain"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		name    string
		message string
		want    domain.CategoryTag
	}{
		{"colors", "Welche Farben hat die Mountain Plaid?", domain.TagColors},
		{"colors english", "Which colours do you offer?", domain.TagColors},
		{"sheep wool via schaf and decke", "Habt ihr eine Schafwolldecke?", domain.TagSheepWoolBlankets},
		{"sheep wool via reine wolle", "Ich suche eine Decke aus reiner Schafwolle", domain.TagSheepWoolBlankets},
		{"sheep wool via plaid", "Gibt es ein Plaid aus Schafwolle?", domain.TagSheepWoolBlankets},
		{"wool mix", "Was kostet eine Wollmixdecke?", domain.TagWoolMixBlankets},
		{"cashmere", "Zeig mir eure Kaschmirdecken", domain.TagCashmereBlankets},
		{"wool blankets compound", "Habt ihr Wolldecken?", domain.TagWoolBlankets},
		{"wool blankets split", "Ich suche eine Decke aus Wolle", domain.TagWoolBlankets},
		{"special", "Warum sind eure Produkte so teuer?", domain.TagSpecial},
		{"special craft", "Wie werden die Produkte hergestellt?", domain.TagSpecial},
		{"dog cushion", "Habt ihr Hundekissen?", domain.TagDetailed},
		{"sizes", "Welche Größen gibt es?", domain.TagSizes},
		{"price", "Was kosten die Decken?", domain.TagPrice},
		{"material", "Aus welchem Material sind die Kissen?", domain.TagMaterial},
		{"rugs", "Habt ihr auch Teppiche?", domain.TagRugs},
		{"rug colors", "Welche Farben gibt es beim Mountain Rug?", domain.TagRugColors},
		{"no match", "Hallo, könnt ihr mir helfen?", domain.TagDetailed},
		{"empty", "", domain.TagDetailed},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Classify(tc.message); got != tc.want {
				t.Errorf("Classify(%q) = %q, want %q", tc.message, got, tc.want)
			}
		})
	}
}

func TestClassifyFirstRuleWins(t *testing.T) {
	// Colors precedes the blanket rules, so a color question about a
	// sheep-wool blanket is still a colors question.
	got := Classify("Welche Farben hat die Schafwolldecke?")
	if got != domain.TagColors {
		t.Errorf("expected %q, got %q", domain.TagColors, got)
	}
}

func TestClassifyRugOverrideBeatsTable(t *testing.T) {
	// The rug pass runs after the table and overrides its outcome.
	cases := []struct {
		message string
		want    domain.CategoryTag
	}{
		{"Was kostet ein Teppich?", domain.TagRugs},
		{"Aus welchem Material ist der Rug?", domain.TagRugs},
		{"In welchen Farben gibt es den Teppich?", domain.TagRugColors},
	}
	for _, tc := range cases {
		if got := Classify(tc.message); got != tc.want {
			t.Errorf("Classify(%q) = %q, want %q", tc.message, got, tc.want)
		}
	}
}

func TestClassifyCaseInsensitive(t *testing.T) {
	if got := Classify("WELCHE FARBEN GIBT ES?"); got != domain.TagColors {
		t.Errorf("expected %q, got %q", domain.TagColors, got)
	}
	if got := Classify("SCHAFWOLLDECKE"); got != domain.TagSheepWoolBlankets {
		t.Errorf("expected %q, got %q", domain.TagSheepWoolBlankets, got)
	}
}
