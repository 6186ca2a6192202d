package domain

import "sort"

// MenuItem describes one drink on the fixed menu: its selling price, its
// production cost and the resources consumed per unit produced.
type MenuItem struct {
	Name         string
	Price        float64
	Cost         float64
	Requirements map[string]int
	Description  string
}

// Menu is the process-wide catalog, keyed by item name. It is loaded once at
// startup and never mutated afterwards.
type Menu map[string]MenuItem

func (m Menu) Item(name string) (MenuItem, bool) {
	item, ok := m[name]
	return item, ok
}

func (m Menu) Has(name string) bool {
	_, ok := m[name]
	return ok
}

// Names returns the item names in alphabetical order.
func (m Menu) Names() []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultMenu is the built-in catalog used when the config carries no menu
// section.
func DefaultMenu() Menu {
	return Menu{
		"Americano": {
			Name:         "Americano",
			Price:        5.0,
			Cost:         2.0,
			Requirements: map[string]int{"coffee_beans": 1, "cup": 1},
			Description:  "A classic coffee made with hot water and espresso for a bold flavor.",
		},
		"Cappuccino": {
			Name:         "Cappuccino",
			Price:        6.0,
			Cost:         3.0,
			Requirements: map[string]int{"coffee_beans": 1, "milk": 1, "cup": 1},
			Description:  "Rich espresso topped with steamed milk and a layer of foam.",
		},
		"Latte": {
			Name:         "Latte",
			Price:        6.5,
			Cost:         3.5,
			Requirements: map[string]int{"coffee_beans": 1, "milk": 2, "cup": 1},
			Description:  "Smooth and creamy espresso with plenty of steamed milk.",
		},
		"Caramel Macchiato": {
			Name:         "Caramel Macchiato",
			Price:        7.0,
			Cost:         4.0,
			Requirements: map[string]int{"coffee_beans": 1, "milk": 2, "sugar": 1, "cup": 1},
			Description:  "Espresso combined with caramel and steamed milk for a sweet treat.",
		},
	}
}
