package domain

import "sort"

// Stock maps a resource name (coffee_beans, milk, sugar, cup) to the
// quantity on hand at one branch.
type Stock map[string]int

func (s Stock) Clone() Stock {
	out := make(Stock, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// Branch is a physical outlet with its own inventory document. Version is the
// optimistic concurrency token bumped on every inventory write.
type Branch struct {
	ID      string
	Name    string
	Stock   Stock
	Version int64
}

// ValidateStock checks that every resource requirement across every cart line
// is simultaneously satisfiable against the snapshot. A resource missing from
// the snapshot counts as zero. It returns the first shortfall found and
// reserves nothing. The guarantee holds only for the snapshot: stock may
// change between validation and deduction unless the write is conditional on
// the branch version.
func ValidateStock(menu Menu, lines []CartLine, stock Stock) error {
	for _, l := range lines {
		item, ok := menu.Item(l.Item)
		if !ok {
			return ErrUnknownItem
		}
		for _, resource := range sortedResources(item.Requirements) {
			needed := item.Requirements[resource] * l.Quantity
			if stock[resource] < needed {
				return &InsufficientStockError{
					Item:      l.Item,
					Resource:  resource,
					Needed:    needed,
					Available: stock[resource],
				}
			}
		}
	}
	return nil
}

// DeductStock subtracts requirement x quantity per resource in place,
// clamping each result at zero. It returns the names of resources that were
// absent from the snapshot entirely; callers log those as anomalies rather
// than failing the order.
func DeductStock(menu Menu, lines []CartLine, stock Stock) (missing []string) {
	for _, l := range lines {
		item, ok := menu.Item(l.Item)
		if !ok {
			continue
		}
		for _, resource := range sortedResources(item.Requirements) {
			if _, present := stock[resource]; !present {
				missing = append(missing, resource)
				continue
			}
			remaining := stock[resource] - item.Requirements[resource]*l.Quantity
			if remaining < 0 {
				remaining = 0
			}
			stock[resource] = remaining
		}
	}
	return missing
}

// RestoreStock re-adds requirement x quantity per resource: the compensating
// action for DeductStock when order persistence fails after deduction.
// Deductions that clamped at zero restore more than was taken; the inventory
// was already under-counted in that case.
func RestoreStock(menu Menu, lines []CartLine, stock Stock) {
	for _, l := range lines {
		item, ok := menu.Item(l.Item)
		if !ok {
			continue
		}
		for resource, perUnit := range item.Requirements {
			if _, present := stock[resource]; !present {
				continue
			}
			stock[resource] += perUnit * l.Quantity
		}
	}
}

func sortedResources(requirements map[string]int) []string {
	resources := make([]string, 0, len(requirements))
	for r := range requirements {
		resources = append(resources, r)
	}
	sort.Strings(resources)
	return resources
}
