package constants

import "strings"

// Locality is the closed set of supermarket branch locations that invoices
// are partitioned by. Anything outside this set is a resolution failure.
type Locality string

const (
	Tarxien Locality = "Tarxien"
	Fgura   Locality = "Fgura"
	Zabbar  Locality = "Zabbar"
	// Carters is the trading name of the Tarxien branch; it shares Tarxien's
	// supplier and nominal codes and is displayed as "Tarxien" in outputs.
	Carters Locality = "Carters"
)

var allLocalities = []Locality{Tarxien, Fgura, Zabbar, Carters}

// AllLocalities returns the known localities as strings.
func AllLocalities() []string {
	result := make([]string, len(allLocalities))
	for i, l := range allLocalities {
		result[i] = string(l)
	}
	return result
}

// ParseLocality matches a raw string against the known localities,
// case-insensitively. "Carter" is accepted as Carters.
func ParseLocality(input string) (Locality, bool) {
	normalized := strings.ToLower(strings.TrimSpace(input))
	if normalized == "" {
		return "", false
	}
	if normalized == "carter" {
		return Carters, true
	}
	for _, l := range allLocalities {
		if normalized == strings.ToLower(string(l)) {
			return l, true
		}
	}
	return "", false
}

// Canonical returns the locality name used in descriptions and standardized
// file names. Carters invoices are filed under Tarxien.
func (l Locality) Canonical() Locality {
	if l == Carters {
		return Tarxien
	}
	return l
}

// SupplierCode returns the accounting supplier code for the locality.
func (l Locality) SupplierCode() string {
	switch l.Canonical() {
	case Tarxien:
		return "CHAINTAR"
	case Fgura:
		return "CHAINFGU"
	case Zabbar:
		return "CHAINZAB"
	}
	return ""
}

// NominalCode returns the nominal account code for the locality.
func (l Locality) NominalCode() string {
	switch l.Canonical() {
	case Tarxien:
		return "4001"
	case Fgura:
		return "4002"
	case Zabbar:
		return "4003"
	}
	return ""
}
