package service

import (
	"strings"

	"github.com/lpj-studios/shop-assistant-go/internal/domain"
)

// The classifier maps raw user text to a CategoryTag with an ordered rule
// table: the first rule whose predicate fires wins and later rules are never
// reached. A second, explicit override pass handles rug questions — it runs
// after the table and beats any earlier outcome.
//
// Keywords are German because that is what the storefront's customers write.
// Stems are singular ("decke") so that plural and compound forms match too.

type classificationRule struct {
	tag   domain.CategoryTag
	match func(m string) bool
}

var (
	colorTerms = []string{"farbe", "colour", "color"}
	rugTerms   = []string{"teppich", "rug"}

	sheepWoolCompounds = []string{
		"schafwolldecke", "schafwolle decke", "schafwoll decke", "schafswolle decke",
	}

	specialTerms = []string{
		"besondere", "besonders", "einzigartig", "unterscheidet",
		"warum", "teuer", "hergestellt", "handwerk", "qualität", "nachhaltig",
	}
)

// classificationRules is evaluated in this exact precedence order.
var classificationRules = []classificationRule{
	{domain.TagColors, func(m string) bool {
		return containsAny(m, colorTerms)
	}},
	{domain.TagSheepWoolBlankets, func(m string) bool {
		if strings.Contains(m, "schaf") && (strings.Contains(m, "decke") || strings.Contains(m, "plaid")) {
			return true
		}
		if containsAny(m, sheepWoolCompounds) {
			return true
		}
		return strings.Contains(m, "wolle") && strings.Contains(m, "decke") &&
			(strings.Contains(m, "schaf") || strings.Contains(m, "rein"))
	}},
	{domain.TagWoolMixBlankets, func(m string) bool {
		return strings.Contains(m, "wollmix decke") || strings.Contains(m, "wollmixdecke")
	}},
	{domain.TagCashmereBlankets, func(m string) bool {
		return strings.Contains(m, "kaschmir decke") || strings.Contains(m, "kaschmirdecke")
	}},
	{domain.TagWoolBlankets, func(m string) bool {
		if strings.Contains(m, "wolldecke") {
			return true
		}
		return (strings.Contains(m, "decke") || strings.Contains(m, "deckn")) &&
			strings.Contains(m, "wolle")
	}},
	{domain.TagSpecial, func(m string) bool {
		return containsAny(m, specialTerms)
	}},
	// Dog cushion questions get the full detailed treatment; the rule exists
	// so "hundekissen größe" does not fall through to the sizes template.
	{domain.TagDetailed, func(m string) bool {
		return strings.Contains(m, "hundekissen") || strings.Contains(m, "hunde")
	}},
	{domain.TagSizes, func(m string) bool {
		return strings.Contains(m, "größe") || strings.Contains(m, "size")
	}},
	{domain.TagPrice, func(m string) bool {
		return strings.Contains(m, "preis") || strings.Contains(m, "kosten")
	}},
	{domain.TagMaterial, func(m string) bool {
		return strings.Contains(m, "material")
	}},
}

// Classify maps a user message to its CategoryTag. Pure, deterministic and
// case-insensitive; a message matching no rule yields TagDetailed.
func Classify(message string) domain.CategoryTag {
	m := strings.ToLower(message)

	tag := domain.TagDetailed
	for _, rule := range classificationRules {
		if rule.match(m) {
			tag = rule.tag
			break
		}
	}

	// Rug override pass: runs last, beats any earlier outcome, and is
	// itself never overridden.
	if containsAny(m, rugTerms) {
		if containsAny(m, colorTerms) {
			return domain.TagRugColors
		}
		return domain.TagRugs
	}

	return tag
}

func containsAny(m string, terms []string) bool {
	for _, t := range terms {
		if strings.Contains(m, t) {
			return true
		}
	}
	return false
}
