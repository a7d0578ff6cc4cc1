package allocation

import (
	"testing"

	"github.com/jvaldezcruz/assetdesk-backend/pkg/enums"
)

func TestClassifyTypeAliases(t *testing.T) {
	cases := map[string]TypeClass{
		"physical":       TypeClassHardware,
		"Hardware":       TypeClassHardware,
		"  EQUIPMENT  ":  TypeClassHardware,
		"software":       TypeClassSoftware,
		"License":        TypeClassSoftware,
		"cloud":          TypeClassCloud,
		"SaaS":           TypeClassCloud,
		"3d-printer":     TypeClassCustom,
		"design-subsync": TypeClassCustom,
		"":               TypeClassCustom,
	}
	for input, want := range cases {
		if got := ClassifyType(input); got != want {
			t.Errorf("ClassifyType(%q) = %s, want %s", input, got, want)
		}
	}
}

func TestResolveCategoryHardwareIgnoresRequest(t *testing.T) {
	pooled := enums.AssignmentCategoryPooled
	if got := ResolveCategory(TypeClassHardware, &pooled); got != enums.AssignmentCategoryIndividual {
		t.Fatalf("hardware category = %s, want individual", got)
	}
}

func TestResolveCategoryCloudAlwaysShared(t *testing.T) {
	individual := enums.AssignmentCategoryIndividual
	if got := ResolveCategory(TypeClassCloud, &individual); got != enums.AssignmentCategoryShared {
		t.Fatalf("cloud category = %s, want shared", got)
	}
	if got := ResolveCategory(TypeClassCloud, nil); got != enums.AssignmentCategoryShared {
		t.Fatalf("cloud category = %s, want shared", got)
	}
}

func TestResolveCategorySoftwarePoolsOnlyOnRequest(t *testing.T) {
	pooled := enums.AssignmentCategoryPooled
	shared := enums.AssignmentCategoryShared
	if got := ResolveCategory(TypeClassSoftware, &pooled); got != enums.AssignmentCategoryPooled {
		t.Fatalf("software pooled request = %s, want pooled", got)
	}
	if got := ResolveCategory(TypeClassSoftware, &shared); got != enums.AssignmentCategoryIndividual {
		t.Fatalf("software shared request = %s, want individual", got)
	}
	if got := ResolveCategory(TypeClassSoftware, nil); got != enums.AssignmentCategoryIndividual {
		t.Fatalf("software no request = %s, want individual", got)
	}
}

func TestResolveCategoryCustomFallsBackToRequest(t *testing.T) {
	shared := enums.AssignmentCategoryShared
	bogus := enums.AssignmentCategory("bogus")
	if got := ResolveCategory(TypeClassCustom, &shared); got != enums.AssignmentCategoryShared {
		t.Fatalf("custom shared request = %s, want shared", got)
	}
	if got := ResolveCategory(TypeClassCustom, &bogus); got != enums.AssignmentCategoryIndividual {
		t.Fatalf("custom bogus request = %s, want individual", got)
	}
	if got := ResolveCategory(TypeClassCustom, nil); got != enums.AssignmentCategoryIndividual {
		t.Fatalf("custom no request = %s, want individual", got)
	}
}
