package params

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"gopkg.in/yaml.v3"
)

func TestSetFieldReplacesOneLeaf(t *testing.T) {
	tests := []struct {
		section, field string
		value          any
		mutate         func(*Set)
	}{
		{SectionFacial, "eyeSize", 0.8, func(s *Set) { s.Facial.EyeSize = 0.8 }},
		{SectionHead, "jawWidth", float32(0.25), func(s *Set) { s.Head.JawWidth = 0.25 }},
		{SectionSkin, "tone", "#112233", func(s *Set) { s.Skin.Tone = Color{0x11, 0x22, 0x33} }},
		{SectionHair, "style", "buzz", func(s *Set) { s.Hair.Style = HairBuzz }},
		{SectionHair, "secondaryColor", Color{1, 2, 3}, func(s *Set) { s.Hair.SecondaryColor = Color{1, 2, 3} }},
		{SectionBody, "height", 1, func(s *Set) { s.Body.Height = 1 }},
		{SectionClothing, "outfit", OutfitFormal, func(s *Set) { s.Clothing.Outfit = OutfitFormal }},
		{SectionClothing, "layering", 0, func(s *Set) { s.Clothing.Layering = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.section+"."+tt.field, func(t *testing.T) {
			got := Default()
			if err := got.SetField(tt.section, tt.field, tt.value); err != nil {
				t.Fatalf("SetField: %v", err)
			}
			want := Default()
			tt.mutate(&want)
			if diff := cmp.Diff(want, got); diff != "" {
				t.Errorf("SetField mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSetFieldClampsFractions(t *testing.T) {
	s := Default()
	if err := s.SetField(SectionBody, "weight", 3.5); err != nil {
		t.Fatal(err)
	}
	if s.Body.Weight != 1 {
		t.Errorf("expected weight clamped to 1, got %v", s.Body.Weight)
	}
	if err := s.SetField(SectionBody, "weight", -2); err != nil {
		t.Fatal(err)
	}
	if s.Body.Weight != 0 {
		t.Errorf("expected weight clamped to 0, got %v", s.Body.Weight)
	}
}

func TestSetFieldNumericKinds(t *testing.T) {
	values := []any{
		int(1), int8(1), int16(1), int32(1), int64(1),
		uint(1), uint8(1), uint16(1), uint32(1), uint64(1),
		float32(1), float64(1),
	}
	for _, v := range values {
		s := Default()
		if err := s.SetField(SectionBody, "muscle", v); err != nil {
			t.Errorf("SetField(%T): %v", v, err)
			continue
		}
		if s.Body.Muscle != 1 {
			t.Errorf("SetField(%T) muscle = %v, want 1", v, s.Body.Muscle)
		}
	}
}

func TestSetFieldErrors(t *testing.T) {
	tests := []struct {
		name           string
		section, field string
		value          any
		wantErr        error
	}{
		{"unknown section", "shoes", "size", 0.5, ErrUnknownField},
		{"unknown field", SectionBody, "tail", 0.5, ErrUnknownField},
		{"field from other section", SectionHead, "eyeSize", 0.5, ErrUnknownField},
		{"string for fraction", SectionBody, "height", "tall", ErrInvalidValue},
		{"number for color", SectionSkin, "tone", 7, ErrInvalidValue},
		{"bad hex", SectionSkin, "tone", "#zzzzzz", ErrInvalidColor},
		{"bad style", SectionHair, "style", "mohawk", ErrInvalidEnum},
		{"bad outfit", SectionClothing, "outfit", "armor", ErrInvalidEnum},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Default()
			err := s.SetField(tt.section, tt.field, tt.value)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("got error %v, want %v", err, tt.wantErr)
			}
			if diff := cmp.Diff(Default(), s); diff != "" {
				t.Errorf("set modified on error (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFieldGetter(t *testing.T) {
	s := Default()
	v, err := s.Field(SectionHair, "style")
	if err != nil {
		t.Fatal(err)
	}
	if v != HairMedium {
		t.Errorf("got %v, want %v", v, HairMedium)
	}
	if _, err := s.Field(SectionHair, "nope"); !errors.Is(err, ErrUnknownField) {
		t.Errorf("expected ErrUnknownField, got %v", err)
	}
}

func TestSectionsCoverEveryField(t *testing.T) {
	want := map[string]int{
		SectionFacial: 6, SectionHead: 5, SectionSkin: 5,
		SectionHair: 6, SectionBody: 5, SectionClothing: 5,
	}
	got := Sections()
	for name, n := range want {
		if len(got[name]) != n {
			t.Errorf("section %s: got %d fields, want %d", name, len(got[name]), n)
		}
	}
	if names := SectionNames(); len(names) != 6 || names[0] != SectionFacial {
		t.Errorf("unexpected section order %v", names)
	}
}

func TestClamp(t *testing.T) {
	s := Default()
	s.Facial.EarSize = 9
	s.Clothing.FabricSheen = -1
	s.Clamp()
	if s.Facial.EarSize != 1 || s.Clothing.FabricSheen != 0 {
		t.Errorf("Clamp left %v / %v", s.Facial.EarSize, s.Clothing.FabricSheen)
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in      string
		want    Color
		wantErr bool
	}{
		{"#ff8000", Color{255, 128, 0}, false},
		{"FF8000", Color{255, 128, 0}, false},
		{"#f80", Color{255, 136, 0}, false},
		{"#ff80", Color{}, true},
		{"#gg0000", Color{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseColor(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestColorMix(t *testing.T) {
	black, white := Color{}, Color{255, 255, 255}
	if got := black.Mix(white, 0); got != [3]float32{0, 0, 0} {
		t.Errorf("Mix(0) = %v", got)
	}
	if got := black.Mix(white, 1); got != [3]float32{1, 1, 1} {
		t.Errorf("Mix(1) = %v", got)
	}
}

func TestSetYAMLAndJSON(t *testing.T) {
	in := Default()
	in.Hair.Style = HairBraids

	data, err := yaml.Marshal(in)
	if err != nil {
		t.Fatal(err)
	}
	var out Set
	if err := yaml.Unmarshal(data, &out); err != nil {
		t.Fatalf("yaml: %v\n%s", err, data)
	}
	if diff := cmp.Diff(in, out); diff != "" {
		t.Errorf("yaml mismatch (-want +got):\n%s", diff)
	}

	js, err := json.Marshal(in)
	if err != nil {
		t.Fatal(err)
	}
	var fromJSON Set
	if err := json.Unmarshal(js, &fromJSON); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(in, fromJSON); diff != "" {
		t.Errorf("json mismatch (-want +got):\n%s", diff)
	}

	if err := yaml.Unmarshal([]byte("hair:\n  style: mohawk\n"), &out); err == nil {
		t.Error("expected error for undeclared hair style")
	}
}
