package staking

// Target is one subnet the rotation stakes into.
type Target struct {
	Name    string
	Address string
}

// Rotation order is fixed; state is keyed by address so renaming a subnet
// does not orphan its position.
var targets = []Target{
	{Name: "Kite AI Agents", Address: "0xb132001567650917d6bd695d1fab55db7986e9a5"},
	{Name: "Bitte", Address: "0xca312b44a57cc9fd60f37e6c9a343a1ad92a3b6c"},
	{Name: "Bitmind", Address: "0xc368ae279275f80125284d16d292b650ecbbff8d"},
}

// Targets returns the staking rotation in order.
func Targets() []Target {
	out := make([]Target, len(targets))
	copy(out, targets)
	return out
}
