package scenario

import "testing"

func detectionIDs(dets []Detection) map[string]Detection {
	out := make(map[string]Detection, len(dets))
	for _, d := range dets {
		out[d.Scenario.ID] = d
	}
	return out
}

func TestDetectHeavyFavorite(t *testing.T) {
	dets := DetectScenarios(MatchAttributes{DecimalOdds: 1.25, Spread: 8.0, Live: false})

	byID := detectionIDs(dets)
	d, ok := byID["heavy_favorite"]
	if !ok {
		t.Fatalf("heavy_favorite not detected, got %v", byID)
	}
	if d.Confidence != 1.0 {
		t.Errorf("Confidence = %f, want 1.0", d.Confidence)
	}
	if len(d.MatchFactors) != 3 {
		t.Errorf("MatchFactors = %v, want 3 factors", d.MatchFactors)
	}

	// Ao vivo não é heavy favorite pré-jogo.
	live := detectionIDs(DetectScenarios(MatchAttributes{DecimalOdds: 1.25, Live: true}))
	if _, ok := live["heavy_favorite"]; ok {
		t.Error("heavy_favorite must not match live bets")
	}
}

func TestDetectMultipleSimultaneous(t *testing.T) {
	// Favorito forte com linha de dois dígitos em back-to-back:
	// três cenários ao mesmo tempo.
	dets := DetectScenarios(MatchAttributes{
		DecimalOdds: 1.30,
		Spread:      11.5,
		Live:        false,
		Tags:        []string{"back_to_back"},
	})

	byID := detectionIDs(dets)
	for _, want := range []string{"heavy_favorite", "blowout_line", "back_to_back"} {
		if _, ok := byID[want]; !ok {
			t.Errorf("expected scenario %s, got %v", want, byID)
		}
	}
}

func TestDontCareDimensions(t *testing.T) {
	// blowout_line só especifica MinSpread; odds e live são indiferentes.
	pre := detectionIDs(DetectScenarios(MatchAttributes{DecimalOdds: 3.8, Spread: 12.0, Live: false}))
	lv := detectionIDs(DetectScenarios(MatchAttributes{DecimalOdds: 1.1, Spread: 12.0, Live: true}))

	if _, ok := pre["blowout_line"]; !ok {
		t.Error("blowout_line must match pre-game")
	}
	if _, ok := lv["blowout_line"]; !ok {
		t.Error("blowout_line must match live too (live is don't-care)")
	}
}

func TestLiveComebackRequiresAllCriteria(t *testing.T) {
	full := detectionIDs(DetectScenarios(MatchAttributes{
		DecimalOdds: 3.0, Live: true, Tags: []string{"trailing"},
	}))
	if _, ok := full["live_comeback"]; !ok {
		t.Fatal("live_comeback should match")
	}

	// Sem a tag trailing, não casa.
	noTag := detectionIDs(DetectScenarios(MatchAttributes{DecimalOdds: 3.0, Live: true}))
	if _, ok := noTag["live_comeback"]; ok {
		t.Error("live_comeback must require the trailing tag")
	}
}

func TestNoMatches(t *testing.T) {
	dets := DetectScenarios(MatchAttributes{DecimalOdds: 1.85, Spread: 4.0, Live: true})
	if len(dets) != 0 {
		t.Errorf("expected no detections, got %+v", dets)
	}
}

func TestCatalogIsCopied(t *testing.T) {
	c := Catalog()
	if len(c) == 0 {
		t.Fatal("empty catalog")
	}
	c[0].WinRate = -1

	again := Catalog()
	if again[0].WinRate == -1 {
		t.Error("Catalog() must return a copy")
	}
}
