package triage

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/propos/maintenance-engine/internal/domain"
)

func TestClassifyMatchesSpecialty(t *testing.T) {
	cases := []struct {
		name        string
		title       string
		description string
		want        domain.Category
	}{
		{
			name:        "plumbing",
			title:       "Leaky faucet",
			description: "the bathroom sink drips all night",
			want:        domain.CategoryPlumbing,
		},
		{
			name:        "electrical",
			title:       "Sparking outlet",
			description: "breaker trips every few hours",
			want:        domain.CategoryElectrical,
		},
		{
			name:        "hvac",
			title:       "Air conditioning blowing warm",
			description: "thermostat reads 30 degrees",
			want:        domain.CategoryHVAC,
		},
		{
			name:        "pest control",
			title:       "Cockroach infestation",
			description: "seen near the kitchen every night",
			want:        domain.CategoryPestControl,
		},
		{
			name:        "appliance",
			title:       "Dishwasher will no longer drain properly",
			description: "dishwasher stopped mid cycle, oven also dead",
			want:        domain.CategoryAppliance,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, Classify(tc.title, tc.description))
		})
	}
}

func TestClassifyHighestCountWins(t *testing.T) {
	// Three painting hits against one structural hit. PAINTING is declared
	// after STRUCTURAL, so only the score can explain the winner.
	got := Classify("Paint peeling", "big stain spreading on the balcony")
	require.Equal(t, domain.CategoryPainting, got)
}

func TestClassifyTieResolvesByDeclarationOrder(t *testing.T) {
	// One plumbing hit and one electrical hit; PLUMBING is declared first.
	require.Equal(t, domain.CategoryPlumbing, Classify("water heater", "power issue"))

	// One electrical hit and one HVAC hit; ELECTRICAL is declared first.
	require.Equal(t, domain.CategoryElectrical, Classify("power", "thermostat"))
}

func TestClassifyNoMatchFallsBackToGeneral(t *testing.T) {
	require.Equal(t, domain.CategoryGeneral, Classify("Something odd here", "hard to describe"))
	require.Equal(t, domain.CategoryGeneral, Classify("", ""))
}

func TestClassifyIsCaseInsensitive(t *testing.T) {
	require.Equal(t, domain.CategoryPlumbing, Classify("TOILET CLOGGED", ""))
}

func TestClassifyEmptyDescription(t *testing.T) {
	require.Equal(t, domain.CategoryPlumbing, Classify("toilet clogged", ""))
}

func TestClassifyIsIdempotent(t *testing.T) {
	first := Classify("Leaky faucet", "dripping since yesterday")
	second := Classify("Leaky faucet", "dripping since yesterday")
	require.Equal(t, first, second)
}
