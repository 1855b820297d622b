package layer

import (
	"math"
	"testing"

	. "github.com/onsi/gomega"

	"github.com/san-kum/semidec/internal/constants"
)

const tol = 1e-9

func TestInitialReference(t *testing.T) {
	g := NewWithT(t)
	l := Initial(constants.Morris())

	g.Expect(l.Top).To(Equal(0.0))
	g.Expect(l.Bottom).To(Equal(30.0))
	g.Expect(l.Biomass).To(BeNumerically("~", 1.389200192445, tol))
	g.Expect(l.Labile).To(BeNumerically("~", 18.997571072217, tol))
	g.Expect(l.Refractory).To(BeNumerically("~", 4.749392768054, tol))
	g.Expect(l.Inorganic).To(BeNumerically("~", 4.863835967284, tol))
	g.Expect(l.Total() + l.Biomass).To(BeNumerically("~", 30, tol))
}

func TestDepositReference(t *testing.T) {
	g := NewWithT(t)
	c := constants.Morris()
	l := Deposit(c, 1.0, c.RO)

	g.Expect(l.Depth()).To(Equal(1.0))
	g.Expect(l.Biomass).To(BeNumerically("~", 0.139126581819, tol))
	g.Expect(l.Labile).To(BeNumerically("~", 0.664, tol))
	g.Expect(l.Refractory).To(BeNumerically("~", 0.166, tol))
	g.Expect(l.Inorganic).To(BeNumerically("~", 0.170, tol))
}

func TestDepositNoBiomass(t *testing.T) {
	l := Deposit(constants.Morris(), 2.0, 0)
	if l.Biomass != 0 {
		t.Errorf("Biomass = %v, want 0", l.Biomass)
	}
	if math.Abs(l.Total()-2.0) > tol {
		t.Errorf("Total = %v, want 2", l.Total())
	}
}

func TestTurnover(t *testing.T) {
	c := constants.Morris()
	l := Layer{Top: 0, Bottom: 10, Biomass: 2}

	got := Turnover(l, c, 0.5)
	want := Stocks{Labile: 0.8 * 0.5, Refractory: 0.2 * 0.5}
	if math.Abs(got.Labile-want.Labile) > tol || math.Abs(got.Refractory-want.Refractory) > tol || got.Inorganic != 0 {
		t.Errorf("Turnover = %+v, want %+v", got, want)
	}

	if z := Turnover(l, c, 0); z != (Stocks{}) {
		t.Errorf("Turnover with dt=0 = %+v, want zero", z)
	}
}

func TestBurial(t *testing.T) {
	c := constants.Morris()
	l := Layer{Top: 0, Bottom: 30, Biomass: 1.5}

	tests := []struct {
		name  string
		layer Layer
		shift float64
		want  float64 // converted live biomass
	}{
		{"no shift", l, 0, 0},
		{"negative shift", l, -1, 0},
		{"one centimetre", l, 1, 1.5 * (math.Exp(-2.9) - math.Exp(-3)) / (1 - math.Exp(-3))},
		{"layer above the crossing", Layer{Top: 0, Bottom: 5, Biomass: 1}, 1, 0},
		{"whole layer crosses", Layer{Top: 29.5, Bottom: 30, Biomass: 0.2}, 2, 0.2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewWithT(t)
			got := Burial(tt.layer, c, tt.shift)
			g.Expect(got.Labile).To(BeNumerically("~", (1-c.K3)*c.FL()*tt.want, tol))
			g.Expect(got.Refractory).To(BeNumerically("~", (1-c.K3)*c.FC*tt.want, tol))
			g.Expect(got.Inorganic).To(BeNumerically("~", c.K3*tt.want*c.BO/c.BI, tol))
		})
	}
}

func TestDecomposeAndUptake(t *testing.T) {
	c := constants.Morris()
	s := Stocks{Labile: 2, Refractory: 3, Inorganic: 4}

	d := Decompose(s, c, 1)
	if math.Abs(d.Labile-2*math.Exp(-c.K)) > tol {
		t.Errorf("Labile = %v, want %v", d.Labile, 2*math.Exp(-c.K))
	}
	if d.Refractory != 3 || d.Inorganic != 4 {
		t.Errorf("Decompose touched other pools: %+v", d)
	}

	u := Uptake(s, c, 1)
	want := 4 * math.Exp(-c.K3*c.WaToRl*c.SvToRo)
	if math.Abs(u.Inorganic-want) > tol {
		t.Errorf("Inorganic = %v, want %v", u.Inorganic, want)
	}
	if u.Labile != 2 || u.Refractory != 3 {
		t.Errorf("Uptake touched other pools: %+v", u)
	}

	if Decompose(s, c, 0) != s || Uptake(s, c, 0) != s {
		t.Error("zero dt changed stocks")
	}
}

func TestErodedFraction(t *testing.T) {
	tests := []struct {
		depth, e, want float64
	}{
		{10, 0, 0},
		{10, -1, 0},
		{10, 2.5, 0.25},
		{10, 10, 1},
		{10, 25, 1},
		{0, 1, 1},
	}
	for _, tt := range tests {
		if got := ErodedFraction(tt.depth, tt.e); got != tt.want {
			t.Errorf("ErodedFraction(%v, %v) = %v, want %v", tt.depth, tt.e, got, tt.want)
		}
	}
}

func TestErode(t *testing.T) {
	g := NewWithT(t)
	c := constants.Morris()
	l := Layer{Top: 0, Bottom: 10, Biomass: 1, Stocks: Stocks{Labile: 4, Refractory: 2, Inorganic: 2}}

	got, lost := Erode(l, c, 2.5)
	g.Expect(lost.Fraction).To(Equal(0.25))
	g.Expect(got.Labile).To(BeNumerically("~", 3, tol))
	g.Expect(got.Refractory).To(BeNumerically("~", 1.5, tol))
	g.Expect(got.Inorganic).To(BeNumerically("~", 1.5, tol))
	g.Expect(lost.Stocks.Total()).To(BeNumerically("~", 2, tol))

	share := (1 - math.Exp(-0.25)) / (1 - math.Exp(-1))
	g.Expect(lost.Biomass).To(BeNumerically("~", share, tol))
	g.Expect(got.Biomass).To(BeNumerically("~", 1-share, tol))

	all, lostAll := Erode(l, c, 50)
	g.Expect(lostAll.Fraction).To(Equal(1.0))
	g.Expect(all.Total()).To(Equal(0.0))
	g.Expect(all.Biomass).To(Equal(0.0))

	same, none := Erode(l, c, 0)
	g.Expect(same).To(Equal(l))
	g.Expect(none).To(Equal(Erosion{}))
}

func TestLayerValid(t *testing.T) {
	tests := []struct {
		name  string
		layer Layer
		want  bool
	}{
		{"ok", Layer{Top: 1, Bottom: 2, Biomass: 0.1, Stocks: Stocks{1, 1, 1}}, true},
		{"inverted", Layer{Top: 2, Bottom: 1}, false},
		{"negative stock", Layer{Top: 0, Bottom: 1, Stocks: Stocks{Labile: -1e-3}}, false},
		{"nan", Layer{Top: 0, Bottom: math.NaN()}, false},
		{"inf", Layer{Top: 0, Bottom: math.Inf(1)}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.layer.Valid(); got != tt.want {
				t.Errorf("Valid() = %v, want %v", got, tt.want)
			}
		})
	}
}
