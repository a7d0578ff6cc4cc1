package enums

// ResourceType is a free-form type label on catalog entries. The canonical
// values below drive allocation classification; anything else is treated as
// a custom type.
type ResourceType string

const (
	ResourceTypePhysical ResourceType = "physical"
	ResourceTypeSoftware ResourceType = "software"
	ResourceTypeCloud    ResourceType = "cloud"
)

// String implements fmt.Stringer.
func (r ResourceType) String() string {
	return string(r)
}
