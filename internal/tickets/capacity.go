package tickets

// CountAvailable returns how many of the given tickets are still in AVAILABLE
// status. Pure read; an empty slice yields zero.
func CountAvailable(ts []Ticket) int {
	available := 0
	for i := range ts {
		if ts[i].Status == StatusAvailable {
			available++
		}
	}
	return available
}
