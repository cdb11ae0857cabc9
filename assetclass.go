package folio

import "strings"

// AssetClass is the coarse category used as the unit of target allocation.
type AssetClass string

// The closed set of asset classes known to the engine.
const (
	Equity         AssetClass = "equity"
	IndexFund      AssetClass = "index-fund"
	RealEstateFund AssetClass = "real-estate-fund"
	Crypto         AssetClass = "crypto"
	Other          AssetClass = "other"
)

// AssetClasses lists every class of the closed set, in display order.
var AssetClasses = []AssetClass{Equity, IndexFund, RealEstateFund, Crypto, Other}

// ParseAssetClass maps a string to a class of the closed set,
// returning false when the string is not one of them.
func ParseAssetClass(s string) (AssetClass, bool) {
	switch AssetClass(strings.ToLower(strings.TrimSpace(s))) {
	case Equity:
		return Equity, true
	case IndexFund:
		return IndexFund, true
	case RealEstateFund:
		return RealEstateFund, true
	case Crypto:
		return Crypto, true
	case Other:
		return Other, true
	default:
		return "", false
	}
}

// classAliases maps folded raw labels to their class. Labels are matched
// case- and accent-insensitively after folding.
var classAliases = map[string]AssetClass{
	"equity":            Equity,
	"stock":             Equity,
	"acao":              Equity,
	"acoes":             Equity,
	"bdr":               Equity,
	"index-fund":        IndexFund,
	"etf":               IndexFund,
	"exchange traded fund": IndexFund,
	"fund etf":          IndexFund,
	"real-estate-fund":  RealEstateFund,
	"fii":               RealEstateFund,
	"reit":              RealEstateFund,
	"fundo imobiliario": RealEstateFund,
	"fundo":             RealEstateFund,
	"crypto":            Crypto,
	"cripto":            Crypto,
	"cryptocurrency":    Crypto,
	"other":             Other,
	"outros":            Other,
	"cash":              Other,
}

// accentFold maps accented runes commonly found in raw labels to their ASCII base.
var accentFold = map[rune]rune{
	'á': 'a', 'à': 'a', 'â': 'a', 'ã': 'a', 'ä': 'a',
	'é': 'e', 'è': 'e', 'ê': 'e', 'ë': 'e',
	'í': 'i', 'ì': 'i', 'î': 'i', 'ï': 'i',
	'ó': 'o', 'ò': 'o', 'ô': 'o', 'õ': 'o', 'ö': 'o',
	'ú': 'u', 'ù': 'u', 'û': 'u', 'ü': 'u',
	'ç': 'c', 'ñ': 'n',
}

// foldLabel lowercases a raw label and strips the accents that appear in
// labels imported from Portuguese- and Spanish-speaking brokers.
func foldLabel(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.Map(func(r rune) rune {
		if folded, ok := accentFold[r]; ok {
			return folded
		}
		return r
	}, s)
}

// NormalizeAssetClass maps a raw class label and/or an instrument symbol to a
// class of the closed set. It is a total function: it never fails and always
// returns a class, defaulting to Equity when nothing matches.
//
// Resolution order: exact or alias match on the folded label first, then
// symbol-suffix heuristics, then the Equity default. The "11" suffix rule
// comes from the B3 convention where real-estate fund listings carry a
// two-digit numeric suffix.
func NormalizeAssetClass(symbol, rawLabel string) AssetClass {
	folded := foldLabel(rawLabel)
	symbolUpper := strings.ToUpper(strings.TrimSpace(symbol))

	if folded == "fund" {
		// A bare "fund" label is ambiguous: the B3 numeric suffix marks
		// listed real-estate funds, the rest are index funds.
		if strings.HasSuffix(symbolUpper, "11") {
			return RealEstateFund
		}
		return IndexFund
	}
	if class, ok := classAliases[folded]; ok {
		return class
	}

	switch {
	case strings.HasSuffix(symbolUpper, "11"), strings.HasSuffix(symbolUpper, "F11"):
		return RealEstateFund
	case strings.HasSuffix(symbolUpper, "34"), strings.HasSuffix(symbolUpper, ".SA"):
		// BDRs and Yahoo-style ".SA" listings. Only ETF-prefixed ones are
		// index funds, the rest trade like stock.
		if strings.HasPrefix(symbolUpper, "ETF") {
			return IndexFund
		}
	case strings.HasSuffix(symbolUpper, "-USD"), strings.HasSuffix(symbolUpper, "-USDT"):
		return Crypto
	}
	return Equity
}
