package core

import "fmt"

// UnknownTypeIDError is returned when a type ID has no entry in the type mapping.
type UnknownTypeIDError struct {
	Timestep int
	Agent    int
	TypeID   int
}

func (e *UnknownTypeIDError) Error() string {
	return fmt.Sprintf("unknown type ID %d at timestep %d, agent %d", e.TypeID, e.Timestep, e.Agent)
}

// TimestepMismatchError is returned when merging trajectories of different lengths.
type TimestepMismatchError struct {
	Existing int
	Incoming int
}

func (e *TimestepMismatchError) Error() string {
	return fmt.Sprintf(
		"timesteps in data to add differ from existing: new data has %d steps, existing data has %d",
		e.Incoming, e.Existing,
	)
}

// CapacityError reports a count that does not fit the dense arrays holding it.
type CapacityError struct {
	Field    string
	Timestep int
	Agent    int // -1 for per-timestep fields
	Count    int
	Capacity int
}

func (e *CapacityError) Error() string {
	if e.Agent < 0 {
		return fmt.Sprintf("%s at timestep %d is %d, capacity is %d", e.Field, e.Timestep, e.Count, e.Capacity)
	}
	return fmt.Sprintf("%s at timestep %d, agent %d is %d, capacity is %d",
		e.Field, e.Timestep, e.Agent, e.Count, e.Capacity)
}
