// internal/normalize/normalize.go
package normalize

import (
	"fmt"
	"regexp"
	"strings"

	"jobmap/internal/francetravail"
	"jobmap/internal/models"
)

const salaryNotSpecified = "Non précisé"

// companyAliases maps well-known company names to the slug used for logo
// lookups. Matching is case-insensitive on substrings so variants like
// "BNP PARIBAS SA" still resolve.
var companyAliases = []struct {
	match string
	slug  string
}{
	{"bnp paribas", "bnpparibas"},
	{"l'oréal", "loreal"},
	{"l'oreal", "loreal"},
	{"société générale", "societegenerale"},
	{"societe generale", "societegenerale"},
	{"france travail", "pole-emploi"},
}

var (
	htmlTagRe = regexp.MustCompile(`(?i)<br\s*/?>|</?p>`)
	nonSlugRe = regexp.MustCompile(`[^\p{L}\p{N} ]`)
)

// FormatSalary builds a display string from the upstream salary label and
// complement. When both are absent it falls back to a placeholder so the
// front end never renders an empty field.
func FormatSalary(label, complement string) string {
	label = strings.TrimSpace(label)
	complement = strings.TrimSpace(complement)
	switch {
	case label != "" && complement != "":
		return fmt.Sprintf("%s (%s)", label, complement)
	case label != "":
		return label
	case complement != "":
		return complement
	default:
		return salaryNotSpecified
	}
}

// CleanDescription strips the HTML markup the upstream API embeds in offer
// descriptions and collapses every run of whitespace, newlines included,
// to a single space.
func CleanDescription(raw string) string {
	s := htmlTagRe.ReplaceAllString(raw, " ")
	return strings.Join(strings.Fields(s), " ")
}

// CanonicalizeCompanyName reduces a raw employer name to a lowercase slug
// suitable for logo lookups. Known brands resolve through the alias table,
// everything else keeps its first meaningful token.
func CanonicalizeCompanyName(name string) string {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return ""
	}

	lower := strings.ToLower(trimmed)
	for _, alias := range companyAliases {
		if strings.Contains(lower, alias.match) {
			return alias.slug
		}
	}

	// Keep only the part before the first parenthesis, hyphen or slash.
	for _, sep := range []string{"(", "-", "/"} {
		if idx := strings.Index(lower, sep); idx >= 0 {
			lower = lower[:idx]
		}
	}
	lower = nonSlugRe.ReplaceAllString(lower, "")
	fields := strings.Fields(lower)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// PositionCategory derives a coarse position type from the upstream contract
// code and label.
func PositionCategory(contractType, contractLabel string) string {
	if strings.EqualFold(contractType, "CDD") {
		return "Contract"
	}
	if strings.Contains(strings.ToLower(contractLabel), "partiel") {
		return "Part-time"
	}
	return "Full-time"
}

// Normalizer converts upstream offers into the flat shape served to the map
// front end.
type Normalizer struct {
	logos LogoResolver
}

// New returns a Normalizer. A nil resolver disables logo lookups.
func New(logos LogoResolver) *Normalizer {
	if logos == nil {
		logos = noLogos{}
	}
	return &Normalizer{logos: logos}
}

// Normalize maps offers to their public representation. Identifiers are
// sequential and assigned in input order, so the same input always yields
// the same output.
func (n *Normalizer) Normalize(offers []francetravail.Offer) []models.NormalizedJob {
	jobs := make([]models.NormalizedJob, 0, len(offers))
	for i, offer := range offers {
		company := strings.TrimSpace(offer.Entreprise.Nom)
		jobs = append(jobs, models.NormalizedJob{
			ID:          fmt.Sprintf("job%d", i+1),
			Title:       strings.TrimSpace(offer.Intitule),
			Company:     company,
			Position:    PositionCategory(offer.TypeContrat, offer.TypeContratLibelle),
			Salary:      FormatSalary(offer.Salaire.Libelle, offer.Salaire.Complement1),
			Lat:         offer.LieuTravail.Latitude,
			Lng:         offer.LieuTravail.Longitude,
			Address:     strings.TrimSpace(offer.LieuTravail.Libelle),
			Type:        strings.TrimSpace(offer.TypeContrat),
			Description: CleanDescription(offer.Description),
			ImageURL:    n.logos.Resolve(CanonicalizeCompanyName(company)),
			Suburb:      strings.TrimSpace(offer.LieuTravail.Commune),
			URL:         offer.OrigineOffre.URL,
		})
	}
	return jobs
}
