package types

import (
	"encoding/json"
	"fmt"
)

// UnlimitedQuantity is the database sentinel for an uncapped shared
// resource. Application code should work with Capacity and only touch the
// raw quantity at the persistence boundary.
const UnlimitedQuantity = -1

// Capacity is the maximum number of simultaneous active assignments a
// shared resource permits. It is either unlimited or bounded at a
// non-negative seat count.
type Capacity struct {
	unlimited bool
	limit     int
}

// Unlimited returns the uncapped capacity.
func Unlimited() Capacity {
	return Capacity{unlimited: true}
}

// Bounded returns a capacity capped at n seats. Negative values are
// normalized to zero.
func Bounded(n int) Capacity {
	if n < 0 {
		n = 0
	}
	return Capacity{limit: n}
}

// CapacityFromQuantity lifts the stored quantity column into a Capacity.
func CapacityFromQuantity(quantity int) Capacity {
	if quantity == UnlimitedQuantity {
		return Unlimited()
	}
	return Bounded(quantity)
}

// IsUnlimited reports whether the capacity has no seat cap.
func (c Capacity) IsUnlimited() bool {
	return c.unlimited
}

// Limit returns the seat cap and whether one exists.
func (c Capacity) Limit() (int, bool) {
	if c.unlimited {
		return 0, false
	}
	return c.limit, true
}

// Quantity lowers the capacity back to its database representation.
func (c Capacity) Quantity() int {
	if c.unlimited {
		return UnlimitedQuantity
	}
	return c.limit
}

// Allows reports whether one more seat fits given the current usage.
func (c Capacity) Allows(used int) bool {
	if c.unlimited {
		return true
	}
	return used < c.limit
}

// Remaining returns the free seat count floored at zero; unlimited
// capacities report no bound via the second return.
func (c Capacity) Remaining(used int) (int, bool) {
	if c.unlimited {
		return 0, false
	}
	free := c.limit - used
	if free < 0 {
		free = 0
	}
	return free, true
}

func (c Capacity) String() string {
	if c.unlimited {
		return "unlimited"
	}
	return fmt.Sprintf("%d", c.limit)
}

type capacityJSON struct {
	Unlimited bool `json:"unlimited"`
	Limit     *int `json:"limit,omitempty"`
}

// MarshalJSON renders {"unlimited":true} or {"unlimited":false,"limit":n}.
func (c Capacity) MarshalJSON() ([]byte, error) {
	out := capacityJSON{Unlimited: c.unlimited}
	if !c.unlimited {
		limit := c.limit
		out.Limit = &limit
	}
	return json.Marshal(out)
}

// UnmarshalJSON accepts the object form produced by MarshalJSON.
func (c *Capacity) UnmarshalJSON(data []byte) error {
	var in capacityJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	if in.Unlimited {
		*c = Unlimited()
		return nil
	}
	if in.Limit == nil {
		return fmt.Errorf("bounded capacity requires a limit")
	}
	*c = Bounded(*in.Limit)
	return nil
}
