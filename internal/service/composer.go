package service

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/lpj-studios/shop-assistant-go/internal/domain"
)

// sheepWoolHandles is the fixed allow-list of pure sheep-wool blankets.
// An explicit list instead of a description substring filter: the free-text
// descriptions are not reliable enough to tell sheep wool from wool blends.
// If the shop renames a handle this list must follow.
var sheepWoolHandles = []string{
	"lpj-mountainplaid",
	"lpj-lodge-plaid",
	"lpj-handcraft-plaid",
	"hand-crochet-plaid",
	"lpj-sheep-plaid",
}

// defaultVariantTitle is how the upstream reports the implicit variant of
// single-variant products. It is never shown as a real label.
const defaultVariantTitle = "Default Title"

var htmlTagPattern = regexp.MustCompile(`<[^>]*>`)

var materialTagTerms = []string{"wolle", "kaschmir", "baumwolle", "seide", "alpaka"}

// Composer builds the model prompt for a classified request: it filters the
// snapshot where the category demands it, renders the retained products
// into a textual context and prepends the category instruction template.
// Pure apart from the merchant constants it is constructed with.
type Composer struct {
	storeDomain string
}

// NewComposer creates a Composer for the given storefront domain
// (used to build product links).
func NewComposer(storeDomain string) *Composer {
	return &Composer{storeDomain: storeDomain}
}

// Compose builds the prompt payload for one request.
func (c *Composer) Compose(tag domain.CategoryTag, products []domain.Product, message string) *domain.Prompt {
	filtered := c.filter(tag, products)

	blocks := make([]string, 0, len(filtered))
	for i := range filtered {
		blocks = append(blocks, c.renderProduct(&filtered[i]))
	}
	productsContext := strings.Join(blocks, "\n\n")

	return &domain.Prompt{
		Tag:      tag,
		Products: filtered,
		Text:     c.promptFor(tag, productsContext, message),
	}
}

// filter restricts the snapshot where the category demands a hard filter.
// Only sheep_wool_blankets pre-filters (via the handle allow-list, keeping
// catalog order); wool-mix and cashmere constraints are narrative-only
// inside the prompt, and rug categories deliberately see everything.
func (c *Composer) filter(tag domain.CategoryTag, products []domain.Product) []domain.Product {
	if tag != domain.TagSheepWoolBlankets {
		return products
	}
	allowed := make(map[string]bool, len(sheepWoolHandles))
	for _, h := range sheepWoolHandles {
		allowed[h] = true
	}
	var out []domain.Product
	for _, p := range products {
		if allowed[p.Handle] {
			out = append(out, p)
		}
	}
	return out
}

// FormatPrice renders a Shopify money value as "349.00 €" (symbol for EUR,
// code for anything else).
func FormatPrice(m domain.Money) string {
	amount := m.Amount
	if f, err := strconv.ParseFloat(m.Amount, 64); err == nil {
		amount = fmt.Sprintf("%.2f", f)
	}
	currency := m.CurrencyCode
	if currency == "EUR" {
		currency = "€"
	}
	return amount + " " + currency
}

// FormatPriceRange collapses to a single figure when min equals max,
// otherwise renders a hyphenated range.
func FormatPriceRange(r domain.PriceRange) string {
	min := FormatPrice(r.Min)
	max := FormatPrice(r.Max)
	if min == max {
		return min
	}
	return min + " - " + max
}

// StripHTML removes markup tags from a rich-text description.
func StripHTML(s string) string {
	return htmlTagPattern.ReplaceAllString(s, "")
}

// availabilityNote returns one of three mutually exclusive notes: fully
// sold out, partially sold out (naming the unavailable variant labels), or
// nothing when every variant is available.
func availabilityNote(p *domain.Product) string {
	available := p.AvailableVariants()
	soldOut := p.SoldOutVariants()

	switch {
	case len(soldOut) > 0 && len(available) == 0:
		return " ⚠️ Aktuell ausverkauft - auf Anfrage gerne wieder herstellbar!"
	case len(soldOut) > 0:
		labels := make([]string, 0, len(soldOut))
		for _, v := range soldOut {
			labels = append(labels, v.Title)
		}
		plural := ""
		if len(soldOut) > 1 {
			plural = "n"
		}
		return fmt.Sprintf(" (Farbe%s %q aktuell ausverkauft - auf Anfrage herstellbar)", plural, strings.Join(labels, ", "))
	default:
		return ""
	}
}

// variantLabels lists the purchasable real variant labels, skipping the
// implicit default variant of single-variant products.
func variantLabels(p *domain.Product) []string {
	var labels []string
	for _, v := range p.AvailableVariants() {
		if v.Title == defaultVariantTitle {
			continue
		}
		labels = append(labels, v.Title)
	}
	return labels
}

// renderProduct serializes one product into the textual block the model
// receives: bold title, cleaned description, material tags, availability
// note, the real variant labels, the formatted price and a product link.
func (c *Composer) renderProduct(p *domain.Product) string {
	description := StripHTML(p.Description)
	if description == "" {
		description = "Hochwertige Qualität aus unserem exklusiven Sortiment"
	}

	var materials []string
	for _, tag := range p.Tags {
		if containsAny(strings.ToLower(tag), materialTagTerms) {
			materials = append(materials, tag)
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "**%s**: %s", p.Title, description)
	if len(materials) > 0 {
		fmt.Fprintf(&b, " Material: %s.", strings.Join(materials, ", "))
	}
	if len(p.Variants) > 1 {
		fmt.Fprintf(&b, " Verfügbar in %d Varianten.", len(p.Variants))
	}
	b.WriteString(availabilityNote(p))
	if labels := variantLabels(p); len(p.Variants) > 1 && len(labels) > 0 {
		fmt.Fprintf(&b, " ECHTE VARIANTEN: [%s]", strings.Join(labels, "], ["))
	}
	fmt.Fprintf(&b, " Preis: %s", FormatPriceRange(p.PriceRange))
	fmt.Fprintf(&b, ` <a href="https://%s/products/%s" target="_blank" rel="noopener noreferrer">[Zum Produkt]</a>`, c.storeDomain, p.Handle)
	return b.String()
}
