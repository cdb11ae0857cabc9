package folio

import (
	"math"
	"os"
	"path/filepath"
	"testing"
)

func TestNewProfile_Normalizes(t *testing.T) {
	p, err := NewProfile("t", "",
		map[AssetClass]float64{Equity: 2, IndexFund: 1, Crypto: -5},
		map[AssetClass]float64{Equity: 0.05},
	)
	if err != nil {
		t.Fatalf("NewProfile() error = %v", err)
	}
	if got := p.Target(Equity); math.Abs(got-2.0/3.0) > 1e-9 {
		t.Errorf("Target(Equity) = %v, want 2/3", got)
	}
	if got := p.Target(Crypto); got != 0 {
		t.Errorf("Target(Crypto) = %v, want 0 for a negative weight", got)
	}
	if got := p.Band(IndexFund); got != 0 {
		t.Errorf("Band(IndexFund) = %v, want 0 when absent", got)
	}
}

func TestNewProfile_RejectsNonPositiveSum(t *testing.T) {
	if _, err := NewProfile("t", "", map[AssetClass]float64{Equity: 0, Crypto: -1}, nil); err == nil {
		t.Fatal("NewProfile() with non-positive weights should fail")
	}
}

func TestLookupProfile(t *testing.T) {
	if got := LookupProfile("aggressive").Name(); got != "aggressive" {
		t.Errorf("LookupProfile(aggressive).Name() = %q", got)
	}
	if got := LookupProfile("").Name(); got != DefaultProfileName {
		t.Errorf("LookupProfile(\"\").Name() = %q, want %q", got, DefaultProfileName)
	}
	if got := LookupProfile("nonsense").Name(); got != DefaultProfileName {
		t.Errorf("LookupProfile(nonsense).Name() = %q, want %q", got, DefaultProfileName)
	}
}

func TestBuiltinProfilesSumToOne(t *testing.T) {
	for _, p := range Profiles() {
		sum := 0.0
		for _, class := range p.Classes() {
			sum += p.Target(class)
		}
		if math.Abs(sum-1) > 1e-9 {
			t.Errorf("profile %q targets sum to %v, want 1", p.Name(), sum)
		}
	}
}

func TestLoadProfile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.yaml")
	content := `name: barbell
description: mostly index funds plus crypto
targets:
  index-fund: 0.8
  crypto: 0.2
bands:
  index-fund: 0.05
  crypto: 0.05
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	p, err := LoadProfile(path)
	if err != nil {
		t.Fatalf("LoadProfile() error = %v", err)
	}
	if p.Name() != "barbell" {
		t.Errorf("Name() = %q, want barbell", p.Name())
	}
	if got := p.Target(IndexFund); math.Abs(got-0.8) > 1e-9 {
		t.Errorf("Target(IndexFund) = %v, want 0.8", got)
	}
}

func TestLoadProfile_RejectsUnknownClass(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.yaml")
	content := "name: bad\ntargets:\n  bonds: 1.0\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadProfile(path); err == nil {
		t.Fatal("LoadProfile() with unknown class should fail")
	}
}
