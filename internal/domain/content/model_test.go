package content

import (
	"reflect"
	"testing"
)

func TestNormalizeNilDocumentYieldsDefaults(t *testing.T) {
	got := Normalize(nil)
	want := Defaults()
	if !reflect.DeepEqual(got, want) {
		t.Error("normalizing a missing document did not yield the defaults")
	}
}

func TestNormalizeOverridesOnlyPresentFields(t *testing.T) {
	got := Normalize(map[string]any{
		"heroTitle":      "Hi",
		"headerLogoText": "",
	})

	if got.HeroTitle != "Hi" {
		t.Errorf("heroTitle = %q", got.HeroTitle)
	}
	// An explicit empty string is still a present value.
	if got.HeaderLogoText != "" {
		t.Errorf("headerLogoText = %q, want empty", got.HeaderLogoText)
	}
	if got.HeroSubtitle != Defaults().HeroSubtitle {
		t.Errorf("heroSubtitle = %q, want default", got.HeroSubtitle)
	}
}

func TestNormalizeDiscardsMistypedValues(t *testing.T) {
	defaults := Defaults()
	got := Normalize(map[string]any{
		"heroTitle":        42,
		"isHosted":         "yes",
		"basicFeatureList": map[string]any{"oops": true},
	})

	if got.HeroTitle != defaults.HeroTitle {
		t.Errorf("heroTitle = %q, want default", got.HeroTitle)
	}
	if got.IsHosted != defaults.IsHosted {
		t.Error("mistyped isHosted overrode the default")
	}
	if !reflect.DeepEqual(got.BasicFeatureList, defaults.BasicFeatureList) {
		t.Errorf("basicFeatureList = %v, want default", got.BasicFeatureList)
	}
}

func TestNormalizeIgnoresUnknownKeys(t *testing.T) {
	got := Normalize(map[string]any{"totallyUnknown": "value"})
	if !reflect.DeepEqual(got, Defaults()) {
		t.Error("unknown key changed the record")
	}
}

func TestNormalizeCoercesStringArrays(t *testing.T) {
	got := Normalize(map[string]any{
		// json.Unmarshal into map[string]any produces []any for arrays.
		"premiumFeatureList": []any{"One", "Two"},
	})
	if !reflect.DeepEqual(got.PremiumFeatureList, []string{"One", "Two"}) {
		t.Errorf("premiumFeatureList = %v", got.PremiumFeatureList)
	}

	defaults := Defaults()
	mixed := Normalize(map[string]any{
		"premiumFeatureList": []any{"One", 2},
	})
	if !reflect.DeepEqual(mixed.PremiumFeatureList, defaults.PremiumFeatureList) {
		t.Errorf("mixed array accepted: %v", mixed.PremiumFeatureList)
	}
}

func TestNormalizeIsIdempotent(t *testing.T) {
	once := Normalize(map[string]any{
		"heroTitle":        "Hi",
		"basicFeatureList": []any{"A"},
		"isHosted":         false,
	})
	twice := Normalize(once.Document())
	if !reflect.DeepEqual(once, twice) {
		t.Error("normalizing a normalized record changed it")
	}
}

func TestDecodeCorruptDocument(t *testing.T) {
	d := &Document{ID: CurrentDocumentID, Doc: []byte(`{not json`)}
	if d.Decode() != nil {
		t.Error("corrupt payload decoded to a non-nil map")
	}
	var missing *Document
	if missing.Decode() != nil {
		t.Error("nil document decoded to a non-nil map")
	}
}
