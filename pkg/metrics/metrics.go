// Package metrics describes named, self-documenting computations over a
// commit subset so that every renderer lists the same statistics under the
// same labels in the same order.
package metrics

// Metric is one named computation.
type Metric[In, Out any] interface {
	// Name returns the machine-readable identifier (snake_case, unique).
	Name() string

	// DisplayName returns the label shown in tables and dashboards.
	DisplayName() string

	// Description explains what the value measures.
	Description() string

	// Compute calculates the value from input.
	Compute(input In) Out
}

// MetricMeta holds the common metadata for a metric.
// Embed this in metric implementations to satisfy metadata methods.
type MetricMeta struct {
	MetricName        string
	MetricDisplayName string
	MetricDescription string
}

// Name returns the machine-readable identifier.
func (m MetricMeta) Name() string { return m.MetricName }

// DisplayName returns the human-readable label.
func (m MetricMeta) DisplayName() string { return m.MetricDisplayName }

// Description returns the documentation string.
func (m MetricMeta) Description() string { return m.MetricDescription }

// Func adapts a plain function into a Metric.
type Func[In, Out any] struct {
	MetricMeta

	Fn func(In) Out
}

// Compute calls Fn.
func (f Func[In, Out]) Compute(input In) Out { return f.Fn(input) }

// Value is one computed metric, ready for display.
type Value[Out any] struct {
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
	Value       Out    `json:"value"`
}

// Registry is an ordered collection of metrics sharing input and output
// types. Iteration follows registration order.
type Registry[In, Out any] struct {
	order   []string
	metrics map[string]Metric[In, Out]
}

// NewRegistry creates an empty metric registry.
func NewRegistry[In, Out any]() *Registry[In, Out] {
	return &Registry[In, Out]{metrics: make(map[string]Metric[In, Out])}
}

// Register adds m. A metric registered under an existing name replaces it in
// place.
func (r *Registry[In, Out]) Register(m Metric[In, Out]) {
	if _, ok := r.metrics[m.Name()]; !ok {
		r.order = append(r.order, m.Name())
	}

	r.metrics[m.Name()] = m
}

// Get retrieves a metric by name.
func (r *Registry[In, Out]) Get(name string) (Metric[In, Out], bool) {
	m, ok := r.metrics[name]

	return m, ok
}

// Names returns all registered metric names in registration order.
func (r *Registry[In, Out]) Names() []string {
	return append([]string(nil), r.order...)
}

// ComputeAll evaluates every metric against input in registration order.
func (r *Registry[In, Out]) ComputeAll(input In) []Value[Out] {
	values := make([]Value[Out], 0, len(r.order))

	for _, name := range r.order {
		m := r.metrics[name]
		values = append(values, Value[Out]{
			Name:        name,
			DisplayName: m.DisplayName(),
			Value:       m.Compute(input),
		})
	}

	return values
}
