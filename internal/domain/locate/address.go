package locate

import "strings"

// ParseAddress splits an upstream customer address of the form
// "<street> - <city>, <state> <zip>" into its parts.  Any input that does
// not match the delimited shape falls back to the raw string in Street with
// the remaining fields empty, so a malformed address never fails a record.
func ParseAddress(raw string) Address {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Address{}
	}

	fallback := Address{Street: raw}

	streetRest := strings.SplitN(raw, " - ", 2)
	if len(streetRest) != 2 {
		return fallback
	}
	street := strings.TrimSpace(streetRest[0])

	cityRest := strings.SplitN(streetRest[1], ",", 2)
	if len(cityRest) != 2 {
		return fallback
	}
	city := strings.TrimSpace(cityRest[0])

	stateZip := strings.Fields(cityRest[1])
	if street == "" || city == "" || len(stateZip) == 0 {
		return fallback
	}

	addr := Address{
		Street: street,
		City:   city,
		State:  stateZip[0],
	}
	if len(stateZip) > 1 {
		addr.Zip = strings.Join(stateZip[1:], " ")
	}
	return addr
}
