package folio

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// Profile holds a target allocation: a weight and a tolerance band per asset
// class. Weights are normalized to sum to 1 at construction. Classes without
// an entry have a target of 0 and a band of 0. A Profile is immutable once
// constructed.
type Profile struct {
	name        string
	description string
	targets     map[AssetClass]float64
	bands       map[AssetClass]float64
}

// NewProfile builds a profile from raw weights and bands. Negative weights
// are clamped to zero before normalization. It returns an error when the
// clamped weights sum to zero, since no target allocation can be derived.
func NewProfile(name, description string, weights, bands map[AssetClass]float64) (*Profile, error) {
	var total float64
	for _, w := range weights {
		total += max(w, 0)
	}
	if total <= 0 {
		return nil, fmt.Errorf("profile %q: target weights must sum to a positive value", name)
	}
	targets := make(map[AssetClass]float64, len(weights))
	for class, w := range weights {
		targets[class] = max(w, 0) / total
	}
	normBands := make(map[AssetClass]float64, len(bands))
	for class, b := range bands {
		normBands[class] = max(b, 0)
	}
	return &Profile{name: name, description: description, targets: targets, bands: normBands}, nil
}

// Name returns the profile identifier.
func (p *Profile) Name() string { return p.name }

// Description returns the human-readable profile summary.
func (p *Profile) Description() string { return p.description }

// Target returns the normalized target weight for class, 0 if absent.
func (p *Profile) Target(class AssetClass) float64 { return p.targets[class] }

// Band returns the tolerance band for class, 0 if absent.
func (p *Profile) Band(class AssetClass) float64 { return p.bands[class] }

// Classes returns the classes with a non-zero target, in stable order.
func (p *Profile) Classes() []AssetClass {
	classes := make([]AssetClass, 0, len(p.targets))
	for class, w := range p.targets {
		if w > 0 {
			classes = append(classes, class)
		}
	}
	sort.Slice(classes, func(i, j int) bool { return classes[i] < classes[j] })
	return classes
}

func mustProfile(name, description string, weights, bands map[AssetClass]float64) *Profile {
	p, err := NewProfile(name, description, weights, bands)
	if err != nil {
		panic(err)
	}
	return p
}

// builtinProfiles is the fixed catalog users pick from when they do not
// supply their own. Weights follow a classic risk ladder.
var builtinProfiles = map[string]*Profile{
	"conservative": mustProfile("conservative",
		"Broad index funds and stable real-estate funds, with a token crypto exposure.",
		map[AssetClass]float64{IndexFund: 0.60, Equity: 0.25, RealEstateFund: 0.12, Crypto: 0.03},
		map[AssetClass]float64{IndexFund: 0.03, Equity: 0.03, RealEstateFund: 0.03, Crypto: 0.02},
	),
	"moderate": mustProfile("moderate",
		"Balance between global index funds and local stocks, keeping real-estate funds and crypto in check.",
		map[AssetClass]float64{IndexFund: 0.45, Equity: 0.35, RealEstateFund: 0.15, Crypto: 0.05},
		map[AssetClass]float64{IndexFund: 0.05, Equity: 0.05, RealEstateFund: 0.05, Crypto: 0.03},
	),
	"aggressive": mustProfile("aggressive",
		"Heavier stock and crypto exposure, keeping real-estate funds as a buffer.",
		map[AssetClass]float64{IndexFund: 0.30, Equity: 0.45, RealEstateFund: 0.15, Crypto: 0.10},
		map[AssetClass]float64{IndexFund: 0.08, Equity: 0.08, RealEstateFund: 0.06, Crypto: 0.05},
	),
}

// DefaultProfileName is used when no profile is requested.
const DefaultProfileName = "moderate"

// LookupProfile returns the named profile from the builtin catalog, falling
// back to the default when name is empty or unknown.
func LookupProfile(name string) *Profile {
	if p, ok := builtinProfiles[name]; ok {
		return p
	}
	return builtinProfiles[DefaultProfileName]
}

// Profiles returns the builtin catalog sorted by name.
func Profiles() []*Profile {
	names := make([]string, 0, len(builtinProfiles))
	for name := range builtinProfiles {
		names = append(names, name)
	}
	sort.Strings(names)
	profiles := make([]*Profile, 0, len(names))
	for _, name := range names {
		profiles = append(profiles, builtinProfiles[name])
	}
	return profiles
}

// profileSpec is the YAML shape of a user-supplied profile file.
type profileSpec struct {
	Name        string             `yaml:"name"`
	Description string             `yaml:"description"`
	Targets     map[string]float64 `yaml:"targets"`
	Bands       map[string]float64 `yaml:"bands"`
}

// LoadProfile reads a profile definition from a YAML file. Class keys must
// belong to the closed set of asset classes.
func LoadProfile(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read profile file: %w", err)
	}
	var spec profileSpec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("could not parse profile file %q: %w", path, err)
	}
	if spec.Name == "" {
		return nil, fmt.Errorf("profile file %q: missing name", path)
	}
	weights := make(map[AssetClass]float64, len(spec.Targets))
	for key, w := range spec.Targets {
		class, ok := ParseAssetClass(key)
		if !ok {
			return nil, fmt.Errorf("profile file %q: unknown asset class %q", path, key)
		}
		weights[class] = w
	}
	bands := make(map[AssetClass]float64, len(spec.Bands))
	for key, b := range spec.Bands {
		class, ok := ParseAssetClass(key)
		if !ok {
			return nil, fmt.Errorf("profile file %q: unknown asset class %q", path, key)
		}
		bands[class] = b
	}
	return NewProfile(spec.Name, spec.Description, weights, bands)
}
