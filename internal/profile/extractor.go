// Package profile provides deterministic extraction and merging of client
// profiles from free-form utterances.
//
// Extraction is keyword and pattern based, intentionally conservative: a field
// is only emitted when a recognizable cue is present, and tri-state facts
// additionally require a polarity cue in the same utterance. Unmatched text
// yields an empty partial profile, never an error.
package profile

import (
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"github.com/Alexandre220990/profitum-engine/internal/models"
)

// sectorKeywords maps free-text cues to sectors. French domain vocabulary
// first, plus the English cues seen in practice. First match wins, scanning
// in table order via sectorOrder below.
var sectorKeywords = map[models.Sector][]string{
	models.SectorTransport:   {"transport", "transporteur", "logistique", "logistics", "fret", "freight", "routier", "trucking", "livraison", "haulage"},
	models.SectorAgriculture: {"agricole", "agriculture", "agriculteur", "exploitation agricole", "farming", "farm", "elevage", "élevage", "viticole", "céréalier", "cerealier"},
	models.SectorIndustry:    {"industrie", "industriel", "usine", "manufacture", "manufacturing", "factory", "production industrielle", "industry"},
	models.SectorCommerce:    {"commerce", "commercant", "commerçant", "magasin", "boutique", "retail", "négoce", "negoce", "vente au détail", "shop"},
	models.SectorHospitality: {"hotellerie", "hôtellerie", "hotel", "hôtel", "restaurant", "restauration", "café", "traiteur", "hospitality", "catering"},
	models.SectorSecurity:    {"sécurité", "securite", "gardiennage", "surveillance", "security", "protection"},
	models.SectorLiveEvents:  {"événementiel", "evenementiel", "spectacle", "concerts", "live events", "live-events", "festival"},
	models.SectorServices:    {"services", "conseil", "consulting", "bureau d'études", "bureau d'etudes", "agence", "prestations", "service"},
}

// sectorOrder fixes the scan order so more specific sectors are tried before
// the catch-all services vocabulary.
var sectorOrder = []models.Sector{
	models.SectorTransport,
	models.SectorAgriculture,
	models.SectorIndustry,
	models.SectorCommerce,
	models.SectorHospitality,
	models.SectorSecurity,
	models.SectorLiveEvents,
	models.SectorServices,
}

// Topic keywords for tri-state facts.
var (
	vehicleTopics  = []string{"camion", "camions", "poids lourd", "poids lourds", "truck", "trucks", "véhicule", "vehicule", "vehicle", "flotte", "fleet", "utilitaire", "fourgon"}
	premisesTopics = []string{"locaux", "local commercial", "bâtiment", "batiment", "premises", "building", "bureaux", "entrepôt", "entrepot", "warehouse", "propriétaire", "proprietaire", "murs"}
	rndTopics      = []string{"r&d", "r & d", "recherche", "research", "innovation", "développement expérimental", "developpement experimental", "prototype", "brevets"}
)

// Negation cues checked in the words immediately preceding a topic keyword.
var negationCues = []string{"pas", "aucun", "aucune", "sans", "ni", "ne", "n'", "jamais", "no", "not", "don't", "dont", "doesn't", "never", "none", "zero", "zéro"}

// Affirmative cues checked anywhere in the utterance once a topic matched.
var affirmativeCues = []string{"oui", "yes", "avons", "avez", "on a ", "nous avons", "possède", "possede", "possédons", "possedons", "propriétaire", "proprietaire", "we have", "we do", "we own", "we are", "i have", "i own", "faisons", "fait de la", "disposons", "avec", "have", "own", "do "}

// needCues signal a declared need; needTopics map the need to a canonical label.
var needCues = []string{"besoin", "cherche", "cherchons", "souhaite", "souhaitons", "voudrais", "voudrions", "need", "looking for", "want", "interested in", "intéressé", "interesse"}

var needTopics = []struct {
	keywords []string
	label    string
}{
	{[]string{"trésorerie", "tresorerie", "cash", "cashflow"}, "treasury"},
	{[]string{"charges", "cotisations", "social charges", "payroll charges"}, "charge-reduction"},
	{[]string{"financement", "financing", "prêt", "pret", "loan", "crédit", "credit"}, "financing"},
	{[]string{"fiscal", "impôts", "impots", "tax", "taxes", "défiscalisation", "defiscalisation"}, "tax-optimization"},
	{[]string{"énergie", "energie", "energy", "électricité", "electricite", "gaz"}, "energy"},
}

// numberPattern matches a number with an optional k/m magnitude suffix.
// The suffix must be followed by a non-alphanumeric rune (or end of text) so
// that "m2" or "mois" are not mistaken for a millions suffix.
var numberPattern = regexp.MustCompile(`([0-9]+(?:[.,][0-9]+)?)\s*(?:([kKmM])(?:[^0-9A-Za-z]|$))?`)

// quantity is one parsed numeric mention with its surrounding context.
type quantity struct {
	value  float64
	before string // lowered text preceding the number (bounded window)
	after  string // lowered text following the number+suffix (bounded window)
}

// contextWindow bounds how far around a number the classifier looks for cues.
const contextWindow = 32

// Extract turns one user utterance into a partial client profile. It never
// returns an error; unrecognized text simply yields an empty profile.
func Extract(utterance string) models.ClientProfile {
	var p models.ClientProfile
	text := strings.ToLower(strings.TrimSpace(utterance))
	if text == "" {
		return p
	}

	p.Sector = extractSector(text)
	extractQuantities(text, &p)
	extractTriStates(text, &p)
	p.DeclaredNeeds = extractNeeds(text)

	slog.Debug("profile.Extract: extracted partial profile",
		"sector", p.Sector,
		"coreFields", p.KnownCoreFieldCount(),
		"empty", p.IsEmpty())
	return p
}

// extractSector scans the fixed keyword table in a deterministic order.
func extractSector(text string) models.Sector {
	for _, sector := range sectorOrder {
		for _, kw := range sectorKeywords[sector] {
			if strings.Contains(text, kw) {
				return sector
			}
		}
	}
	return models.SectorUnknown
}

// extractQuantities parses every numeric mention and assigns it to a profile
// field based on the unit token that follows it and the money cues around it.
func extractQuantities(text string, p *models.ClientProfile) {
	for _, q := range parseQuantities(text) {
		classifyQuantity(q, p)
	}
}

// parseQuantities finds all numbers in the text, normalizes k/m magnitude
// suffixes, and records a bounded context window around each mention.
func parseQuantities(text string) []quantity {
	var out []quantity
	for _, idx := range numberPattern.FindAllStringSubmatchIndex(text, -1) {
		raw := text[idx[2]:idx[3]]
		value, ok := parseNumber(raw)
		if !ok {
			continue
		}
		if idx[4] >= 0 {
			switch text[idx[4]:idx[5]] {
			case "k", "K":
				value *= 1_000
			case "m", "M":
				value *= 1_000_000
			}
		}
		end := idx[5]
		if end < 0 {
			end = idx[3]
		}
		start := idx[2] - contextWindow
		if start < 0 {
			start = 0
		}
		stop := end + contextWindow
		if stop > len(text) {
			stop = len(text)
		}
		out = append(out, quantity{
			value:  value,
			before: text[start:idx[2]],
			after:  text[end:stop],
		})
	}
	return out
}

// parseNumber parses a numeric literal, treating ",ddd" with exactly three
// digits as a thousands separator rather than a decimal fraction.
func parseNumber(raw string) (float64, bool) {
	if i := strings.IndexByte(raw, ','); i >= 0 {
		if len(raw)-i-1 == 3 {
			raw = strings.Replace(raw, ",", "", 1)
		} else {
			raw = strings.Replace(raw, ",", ".", 1)
		}
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// Unit and cue tables used by classifyQuantity.
var (
	currencyUnits  = []string{"€", "euros", "euro", "eur", "k€", "m€"}
	fuelUnits      = []string{"litres", "litre", "liters", "liter", "l de gazole", "l de diesel"}
	energyUnits    = []string{"kwh", "mwh"}
	surfaceUnits   = []string{"m²", "m2", "mètres carrés", "metres carres", "square meters"}
	employeeUnits  = []string{"employés", "employes", "employees", "employee", "salariés", "salaries", "salarié", "collaborateurs", "personnes", "people", "staff"}
	heavyUnits     = []string{"camions", "camion", "trucks", "truck", "poids lourds", "poids lourd", "semi-remorques"}
	lightUnits     = []string{"voitures", "voiture", "cars", "véhicules légers", "vehicules legers", "utilitaires légers", "light vehicles"}
	equipmentUnits = []string{"engins", "engin de chantier", "tractopelles", "pelleteuses", "excavators", "construction machines"}

	revenueCues     = []string{"chiffre d'affaires", "chiffre d affaires", "ca annuel", "ca de", "revenue", "turnover", "revenu"}
	payrollCues     = []string{"masse salariale", "payroll", "salaires versés", "salaires verses"}
	propertyTaxCues = []string{"taxe foncière", "taxe fonciere", "foncier", "property tax"}
	salaryCues      = []string{"salaire moyen", "salaire brut", "average salary", "gross salary"}
)

// classifyQuantity assigns one parsed number to the matching profile field.
// The unit token immediately after the number decides count-like fields;
// currency amounts are disambiguated by the nearest money cue, and an amount
// with no recognizable cue at all is conservatively dropped.
func classifyQuantity(q quantity, p *models.ClientProfile) {
	after := strings.TrimLeft(q.after, " \t")
	context := q.before + " " + q.after

	switch {
	case hasUnitPrefix(after, employeeUnits):
		n := int(q.value)
		if n >= 0 {
			p.EmployeeCount = &n
		}
	case hasUnitPrefix(after, heavyUnits):
		n := int(q.value)
		p.HeavyVehicleCount = &n
		if n > 0 {
			p.HasProfessionalVehicles = models.TriYes
		}
	case hasUnitPrefix(after, lightUnits):
		n := int(q.value)
		p.LightVehicleCount = &n
		if n > 0 {
			p.HasProfessionalVehicles = models.TriYes
		}
	case hasUnitPrefix(after, equipmentUnits):
		n := int(q.value)
		p.ConstructionEquipmentCount = &n
	case hasUnitPrefix(after, fuelUnits) || (hasUnitPrefix(after, []string{"l "}) && containsAny(context, []string{"gazole", "diesel", "carburant", "fuel", "essence"})):
		v := q.value
		p.AnnualFuelLiters = &v
	case hasUnitPrefix(after, energyUnits):
		v := q.value
		if hasUnitPrefix(after, []string{"mwh"}) {
			v *= 1_000
		}
		p.AnnualEnergyConsumptionKwh = &v
	case hasUnitPrefix(after, surfaceUnits):
		v := q.value
		p.PremisesSurfaceArea = &v
	case hasUnitPrefix(after, currencyUnits) || containsAny(context, revenueCues) || containsAny(context, payrollCues) || containsAny(context, propertyTaxCues) || containsAny(context, salaryCues):
		v := q.value
		switch {
		case containsAny(context, payrollCues):
			p.PayrollTotal = &v
		case containsAny(context, propertyTaxCues):
			p.PropertyTaxAmount = &v
		case containsAny(context, salaryCues):
			p.AverageGrossSalary = &v
		case containsAny(context, revenueCues):
			p.AnnualRevenue = &v
		case hasUnitPrefix(after, currencyUnits):
			// Currency amount with no other money cue: revenue is the only
			// amount a business owner states bare ("on fait 200k€").
			p.AnnualRevenue = &v
		}
	}
}

// hasUnitPrefix reports whether the text after a number starts with one of the
// given unit tokens.
func hasUnitPrefix(after string, units []string) bool {
	for _, u := range units {
		if strings.HasPrefix(after, u) {
			return true
		}
	}
	return false
}

func containsAny(text string, cues []string) bool {
	for _, c := range cues {
		if strings.Contains(text, c) {
			return true
		}
	}
	return false
}

// extractTriStates resolves the vehicle, premises and R&D facts. A topic
// keyword alone is not enough: without a polarity cue the field stays unknown.
func extractTriStates(text string, p *models.ClientProfile) {
	if !p.HasProfessionalVehicles.IsKnown() {
		p.HasProfessionalVehicles = resolveTriState(text, vehicleTopics)
	}
	p.OwnsPremises = resolveTriState(text, premisesTopics)
	p.DoesRnD = resolveTriState(text, rndTopics)
}

// resolveTriState looks for a topic keyword, then checks the few words before
// it for a negation; absent a negation, an affirmative cue anywhere in the
// utterance turns the fact true. No polarity cue leaves it unknown.
func resolveTriState(text string, topics []string) models.TriState {
	pos := -1
	for _, topic := range topics {
		if i := strings.Index(text, topic); i >= 0 {
			pos = i
			break
		}
	}
	if pos < 0 {
		return models.TriUnknown
	}

	start := pos - contextWindow
	if start < 0 {
		start = 0
	}
	preceding := text[start:pos]
	for _, neg := range negationCues {
		for _, word := range strings.Fields(preceding) {
			if word == neg || strings.TrimRight(word, "'") == strings.TrimRight(neg, "'") {
				return models.TriNo
			}
		}
	}
	if containsAny(text, affirmativeCues) {
		return models.TriYes
	}
	return models.TriUnknown
}

// extractNeeds maps declared intentions onto canonical need labels.
func extractNeeds(text string) []string {
	if !containsAny(text, needCues) {
		return nil
	}
	var needs []string
	for _, topic := range needTopics {
		if containsAny(text, topic.keywords) {
			needs = append(needs, topic.label)
		}
	}
	return needs
}
