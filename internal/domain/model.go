// Package domain holds the plain data types of the scheduling problem:
// machines, products, orders, setup times, and the solved schedule.
// Everything here is read-only for the duration of a solve — the solver
// builds its own working structures from a Scenario and never mutates it.
package domain

// Machine is a production resource identified by name, able to perform a
// fixed set of operations. Immutable once scheduling begins.
type Machine struct {
	Name       string   `json:"name" toml:"name"`
	Operations []string `json:"operations" toml:"operations"`
}

// Supports reports whether the machine can perform the given operation.
func (m Machine) Supports(op string) bool {
	for _, o := range m.Operations {
		if o == op {
			return true
		}
	}
	return false
}

// RecipeTask is one step of a product's recipe: an operation and how many
// hours it takes. Duration must be positive.
type RecipeTask struct {
	Operation string `json:"operation" toml:"operation"`
	Duration  int    `json:"duration" toml:"duration"`
}

// Product is a recipe: an ordered sequence of tasks. The sequence order is
// the precedence order for every unit of the product.
type Product struct {
	Name  string       `json:"name" toml:"name"`
	Tasks []RecipeTask `json:"tasks" toml:"tasks"`
}

// WorkHours returns the total sequential work for one unit.
func (p Product) WorkHours() int {
	total := 0
	for _, t := range p.Tasks {
		total += t.Duration
	}
	return total
}

// Order requests a quantity of one product by a deadline, expressed in
// hours from the schedule-start epoch.
type Order struct {
	Product  string `json:"product" toml:"product"`
	Quantity int    `json:"quantity" toml:"quantity"`
	Deadline int    `json:"deadline" toml:"deadline"`
}

// SetupTimes maps "fromProduct-toProduct" to changeover hours on a shared
// machine. Missing keys mean zero setup. Directionally asymmetric: A→B
// need not equal B→A.
type SetupTimes map[string]int

// SetupKey builds the lookup key for a directed product changeover.
func SetupKey(from, to string) string {
	return from + "-" + to
}

// Get returns the setup hours for switching a machine from one product to
// another. Zero when no entry exists or the products are equal.
func (s SetupTimes) Get(from, to string) int {
	if from == to {
		return 0
	}
	return s[SetupKey(from, to)]
}

// Scenario is the full input of one solve call. The same shape is used for
// API request bodies (JSON) and CLI scenario files (TOML).
type Scenario struct {
	Machines   []Machine  `json:"machines" toml:"machines"`
	Products   []Product  `json:"products" toml:"products"`
	SetupTimes SetupTimes `json:"setup_times" toml:"setup_times"`
	Orders     []Order    `json:"orders" toml:"orders"`

	// Start is the schedule-start timestamp (RFC 3339 or "2006-01-02 15:04").
	// Absent or unparseable values fall back to the current time.
	Start string `json:"start_datetime,omitempty" toml:"start,omitempty"`
}

// ProductByName returns the recipe for a product, or false if the scenario
// does not define it.
func (sc Scenario) ProductByName(name string) (Product, bool) {
	for _, p := range sc.Products {
		if p.Name == name {
			return p, true
		}
	}
	return Product{}, false
}
