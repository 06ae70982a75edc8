package workflow

// Group is a named set of statuses used for dashboard filters and portfolio buckets
type Group string

const (
	GroupAll    Group = "all"
	GroupLegal  Group = "legal"
	GroupMoving Group = "moving"
	GroupStuck  Group = "stuck"
)

var groupMembers = map[Group][]Status{
	GroupLegal:  {StatusDemandQueue, StatusFirstDemand, StatusSecondDemand, StatusSmallClaims},
	GroupMoving: {StatusMoving},
	GroupStuck:  {StatusNotLocated, StatusNotMoving, StatusWriteOff},
}

// ParseGroup maps a filter value to a Group. Empty input means GroupAll.
func ParseGroup(raw string) (Group, bool) {
	switch Group(raw) {
	case "", GroupAll:
		return GroupAll, true
	case GroupLegal, GroupMoving, GroupStuck:
		return Group(raw), true
	default:
		return "", false
	}
}

// Contains reports whether s is a member of g. GroupAll contains every valid status.
func (g Group) Contains(s Status) bool {
	if g == GroupAll {
		return s.Valid()
	}
	for _, m := range groupMembers[g] {
		if m == s {
			return true
		}
	}
	return false
}

// Members lists the statuses of g in enumeration order
func (g Group) Members() []Status {
	if g == GroupAll {
		return All()
	}
	out := make([]Status, len(groupMembers[g]))
	copy(out, groupMembers[g])
	return out
}
