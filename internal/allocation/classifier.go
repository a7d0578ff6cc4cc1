package allocation

import (
	"strings"

	"github.com/jvaldezcruz/assetdesk-backend/pkg/enums"
)

// TypeClass buckets free-form resource type names into the families the rule
// table understands. Custom type names land in TypeClassCustom.
type TypeClass string

const (
	TypeClassHardware TypeClass = "hardware"
	TypeClassSoftware TypeClass = "software"
	TypeClassCloud    TypeClass = "cloud"
	TypeClassCustom   TypeClass = "custom"
)

var typeAliases = map[string]TypeClass{
	"physical":  TypeClassHardware,
	"hardware":  TypeClassHardware,
	"equipment": TypeClassHardware,
	"software":  TypeClassSoftware,
	"license":   TypeClassSoftware,
	"licence":   TypeClassSoftware,
	"cloud":     TypeClassCloud,
	"saas":      TypeClassCloud,
}

// ClassifyType maps a resource type name to its class, case-insensitively.
func ClassifyType(typeName string) TypeClass {
	normalized := strings.ToLower(strings.TrimSpace(typeName))
	if class, ok := typeAliases[normalized]; ok {
		return class
	}
	return TypeClassCustom
}

// ResolveCategory decides the assignment category that governs validation.
// Hardware cannot be pooled, so the request is ignored there; cloud access is
// always shared; software pools seats only when the caller asks for it.
func ResolveCategory(class TypeClass, requested *enums.AssignmentCategory) enums.AssignmentCategory {
	switch class {
	case TypeClassHardware:
		return enums.AssignmentCategoryIndividual
	case TypeClassCloud:
		return enums.AssignmentCategoryShared
	case TypeClassSoftware:
		if requested != nil && *requested == enums.AssignmentCategoryPooled {
			return enums.AssignmentCategoryPooled
		}
		return enums.AssignmentCategoryIndividual
	default:
		if requested != nil && requested.IsValid() {
			return *requested
		}
		return enums.AssignmentCategoryIndividual
	}
}
