package bus

// Bus is the read-side projection of the `buses` table this engine consumes
// for capacity planning.
type Bus struct {
	ID          string
	CompanyID   string
	PlateNumber string
	Capacity    int
}

// AverageCapacity returns the floored mean capacity of the fleet, or 0 for
// an empty fleet.
func AverageCapacity(fleet []*Bus) int {
	if len(fleet) == 0 {
		return 0
	}
	sum := 0
	for _, b := range fleet {
		sum += b.Capacity
	}
	return sum / len(fleet)
}
