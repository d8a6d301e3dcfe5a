package domain

// Resource represents a person, material, or cost entity in the project
// pool. Identity is durable and server-assigned; the client-issued temporary
// id (e.g. "RES-001") exists only inside a single sync call.
type Resource struct {
	ID           int64
	Name         string
	Type         ResourceType
	MaxUnits     float64 // capacity multiplier, 1.0 = 100%
	StandardRate float64
	OvertimeRate float64
	CostPerUse   float64
	Email        string
	Group        string
	Calendar     *Calendar
}

// Assignment allocates a resource to a task. Units of 1.0 means full
// allocation; values above 1.0 denote crew multiplicity.
type Assignment struct {
	Resource *Resource
	Units    float64
}
